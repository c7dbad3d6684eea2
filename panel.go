package twsnip

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yacobolo/twsnip/internal/logfields"
)

// Field is one row of the settings panel.
type Field struct {
	Key         string
	Name        string
	Description string
	Value       string
	Disabled    bool
}

// FieldError is the inline error for a rejected settings edit.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ErrUnknownField is returned (inside a FieldError) for keys the panel does not have.
var ErrUnknownField = errors.New("unknown setting")

// fieldInfo describes one editable setting
type fieldInfo struct {
	key         string
	name        string
	description string
	get         func(Settings) string
	set         func(ctx context.Context, p *Panel, s *Settings, value string) error
}

var fields = []fieldInfo{
	{
		key:         KeyEnablePreflight,
		name:        "Enable Preflight",
		description: "Include the base layer that normalizes browser styles. Can break the editor's own styling.",
		get:         func(s Settings) string { return strconv.FormatBool(s.EnablePreflight) },
		set: func(_ context.Context, _ *Panel, s *Settings, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			s.EnablePreflight = b
			return nil
		},
	},
	{
		key:         KeyAddPrefixSelector,
		name:        "Add prefix to Tailwind selectors",
		description: "Scope every generated selector under the prefix selector.",
		get:         func(s Settings) string { return strconv.FormatBool(s.AddPrefixSelector) },
		set: func(_ context.Context, _ *Panel, s *Settings, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			s.AddPrefixSelector = b
			return nil
		},
	},
	{
		key:  KeyPrefixSelector,
		name: "Prefix selector",
		description: `Will be combined with all Tailwind selectors using a descendant combinator. ` +
			`(e.g. ".a, #foo.bar" => ".tailwind .a, .tailwind #foo.bar")`,
		get: func(s Settings) string { return s.PrefixSelector },
		set: func(_ context.Context, _ *Panel, s *Settings, v string) error {
			if !s.AddPrefixSelector {
				return fmt.Errorf("enable %s first", KeyAddPrefixSelector)
			}
			s.PrefixSelector = strings.TrimSpace(v)
			return nil
		},
	},
	{
		key:         KeyEntryPoint,
		name:        "Entry point",
		description: "Stylesheet processed instead of the bundled one, relative to the config directory.",
		get:         func(s Settings) string { return s.EntryPoint },
		set: func(ctx context.Context, p *Panel, s *Settings, v string) error {
			path, err := p.configFile(ctx, v)
			if err != nil {
				return err
			}
			s.EntryPoint = path
			return nil
		},
	},
	{
		key:         KeyThemeConfig,
		name:        "Theme config",
		description: "JSON or YAML theme override, relative to the config directory.",
		get:         func(s Settings) string { return s.ThemeConfig },
		set: func(ctx context.Context, p *Panel, s *Settings, v string) error {
			path, err := p.configFile(ctx, v)
			if err != nil {
				return err
			}
			s.ThemeConfig = path
			return nil
		},
	},
	{
		key:         KeyContentConfig,
		name:        "Content",
		description: "Comma separated globs scanned for class names in addition to the notes, relative to the config directory.",
		get:         func(s Settings) string { return strings.Join(s.ContentConfig, ", ") },
		set: func(_ context.Context, _ *Panel, s *Settings, v string) error {
			globs, err := parseGlobs(v)
			if err != nil {
				return err
			}
			s.ContentConfig = globs
			return nil
		},
	},
}

// Panel edits the plugin settings one field at a time.
type Panel struct {
	plugin *Plugin
}

// Fields lists every setting with its current value.
func (p *Panel) Fields() []Field {
	return PanelFields(p.plugin.Settings())
}

// PanelFields lists the panel rows for s without a loaded plugin.
func PanelFields(s Settings) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, Field{
			Key:         f.key,
			Name:        f.name,
			Description: f.description,
			Value:       f.get(s),
			Disabled:    f.key == KeyPrefixSelector && !s.AddPrefixSelector,
		})
	}
	return out
}

// Set validates and applies one field, then persists and regenerates.
// Only validation failures are returned, as *FieldError; persistence and
// regeneration failures are logged and notified.
func (p *Panel) Set(ctx context.Context, key, value string) error {
	var info *fieldInfo
	for i := range fields {
		if fields[i].key == key {
			info = &fields[i]
			break
		}
	}
	if info == nil {
		return &FieldError{Key: key, Err: ErrUnknownField}
	}

	next := p.plugin.Settings()
	if err := info.set(ctx, p, &next, value); err != nil {
		return &FieldError{Key: key, Err: err}
	}

	err := p.plugin.UpdateSettings(ctx, func(s *Settings) { *s = next })
	if err != nil {
		p.plugin.handleError("Failed to apply setting", err, logfields.Setting(key))
	}
	return nil
}

// Reset restores the default settings, persists and regenerates.
func (p *Panel) Reset(ctx context.Context) {
	err := p.plugin.UpdateSettings(ctx, func(s *Settings) { *s = DefaultSettings() })
	if err != nil {
		p.plugin.handleError("Failed to reset settings", err)
	}
}

// configFile validates a config-dir relative path. Empty clears the field.
func (p *Panel) configFile(ctx context.Context, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	host := p.plugin.host
	path := configPath(host, value)
	exists, err := host.Exists(ctx, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("file %s does not exist", path)
	}
	isFile, err := host.IsFile(ctx, path)
	if err != nil {
		return "", err
	}
	if !isFile {
		return "", fmt.Errorf("%s is not a file", path)
	}
	return NormalizePath(value), nil
}

func parseBool(v string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", v)
	}
	return b, nil
}

// parseGlobs splits a comma separated list, dropping empty entries.
func parseGlobs(v string) ([]string, error) {
	globs := []string{}
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !doublestar.ValidatePattern(part) {
			return nil, fmt.Errorf("invalid glob %q", part)
		}
		globs = append(globs, part)
	}
	return globs, nil
}
