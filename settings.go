package twsnip

import (
	"context"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// Persisted settings keys
const (
	KeyEnablePreflight   = "enable-preflight"
	KeyAddPrefixSelector = "add-prefix-selector"
	KeyPrefixSelector    = "prefix-selector"
	KeyEntryPoint        = "entry-point"
	KeyThemeConfig       = "theme-config"
	KeyContentConfig     = "content-config"
)

// legacyKeys maps each key to the name the editor plugin stores in its
// JSON data file, so an existing data.json can be read as is.
var legacyKeys = map[string]string{
	KeyEnablePreflight:   "enablePreflight",
	KeyAddPrefixSelector: "addPrefixSelector",
	KeyPrefixSelector:    "prefixSelector",
	KeyEntryPoint:        "entryPoint",
	KeyThemeConfig:       "themeConfig",
	KeyContentConfig:     "contentConfig",
}

// Settings are the user-editable plugin settings. Paths are relative to
// the host's config dir.
type Settings struct {
	EnablePreflight   bool
	AddPrefixSelector bool
	PrefixSelector    string
	EntryPoint        string   // Entry stylesheet; empty uses the bundled one
	ThemeConfig       string   // JSON or YAML theme override; empty for none
	ContentConfig     []string // Extra globs scanned for classes
}

// DefaultSettings returns the settings used for keys that were never saved.
func DefaultSettings() Settings {
	return Settings{
		PrefixSelector: ".tailwind",
		ContentConfig:  []string{},
	}
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	c := s
	c.ContentConfig = append([]string{}, s.ContentConfig...)
	return c
}

// blobProvider feeds an in-memory settings blob to koanf.
type blobProvider []byte

func (b blobProvider) ReadBytes() ([]byte, error) {
	return b, nil
}

func (b blobProvider) Read() (map[string]any, error) {
	return nil, errors.New("settings blob provider does not support Read")
}

// LoadSettings reads the persisted blob and merges it over the defaults.
// Keys missing from the blob keep their default value.
func LoadSettings(ctx context.Context, host Host) (Settings, error) {
	data, err := host.LoadData(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes a settings blob (YAML, or the editor's JSON).
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if len(data) == 0 {
		return s, nil
	}

	k := koanf.New(".")
	if err := k.Load(blobProvider(data), yaml.Parser()); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}

	s.EnablePreflight = boolWithFallback(k, KeyEnablePreflight, s.EnablePreflight)
	s.AddPrefixSelector = boolWithFallback(k, KeyAddPrefixSelector, s.AddPrefixSelector)
	s.PrefixSelector = stringWithFallback(k, KeyPrefixSelector, s.PrefixSelector)
	s.EntryPoint = stringWithFallback(k, KeyEntryPoint, s.EntryPoint)
	s.ThemeConfig = stringWithFallback(k, KeyThemeConfig, s.ThemeConfig)
	s.ContentConfig = stringsWithFallback(k, KeyContentConfig, s.ContentConfig)

	return s, nil
}

// SaveSettings persists every field through the host.
func SaveSettings(ctx context.Context, host Host, s Settings) error {
	data, err := MarshalSettings(s)
	if err != nil {
		return err
	}
	if err := host.SaveData(ctx, data); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// MarshalSettings encodes settings as YAML.
func MarshalSettings(s Settings) ([]byte, error) {
	k := koanf.New(".")
	values := map[string]any{
		KeyEnablePreflight:   s.EnablePreflight,
		KeyAddPrefixSelector: s.AddPrefixSelector,
		KeyPrefixSelector:    s.PrefixSelector,
		KeyEntryPoint:        s.EntryPoint,
		KeyThemeConfig:       s.ThemeConfig,
		KeyContentConfig:     append([]string{}, s.ContentConfig...),
	}
	for key, v := range values {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("encoding setting %s: %w", key, err)
		}
	}

	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return data, nil
}

// stringWithFallback checks the key first, then its legacy name, then returns the default.
// A key that is present but empty counts as set.
func stringWithFallback(k *koanf.Koanf, key, defaultVal string) string {
	if k.Exists(key) {
		return k.String(key)
	}
	if k.Exists(legacyKeys[key]) {
		return k.String(legacyKeys[key])
	}
	return defaultVal
}

// boolWithFallback checks the key first, then its legacy name, then returns the default.
func boolWithFallback(k *koanf.Koanf, key string, defaultVal bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	if k.Exists(legacyKeys[key]) {
		return k.Bool(legacyKeys[key])
	}
	return defaultVal
}

// stringsWithFallback checks the key first, then its legacy name, then returns the default.
func stringsWithFallback(k *koanf.Koanf, key string, defaultVal []string) []string {
	for _, name := range []string{key, legacyKeys[key]} {
		if k.Exists(name) {
			values := k.Strings(name)
			if values == nil {
				values = []string{}
			}
			return values
		}
	}
	return defaultVal
}
