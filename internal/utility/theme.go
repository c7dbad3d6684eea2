package utility

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed theme.yaml
var defaultThemeYAML []byte

// lineHeightSection stores the line height paired with each fontSize key
const lineHeightSection = "fontSize.lineHeight"

// Theme holds flattened theme sections: section -> key -> CSS value.
// Nested color maps are flattened with '-', DEFAULT keys map to "".
type Theme struct {
	sections map[string]map[string]string
}

// DefaultTheme returns a fresh copy of the built-in theme.
func DefaultTheme() *Theme {
	var raw map[string]any
	if err := yaml.Unmarshal(defaultThemeYAML, &raw); err != nil {
		panic(fmt.Sprintf("utility: embedded theme: %v", err))
	}
	th := &Theme{sections: make(map[string]map[string]string)}
	for name, value := range raw {
		th.sections[name] = th.flattenSection(name, value)
	}
	return th
}

// ParseThemeOverride decodes a theme override document. JSON is accepted
// as well as YAML.
func ParseThemeOverride(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode theme override: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Override applies a theme override: top-level sections replace the
// defaults, sections under "extend" are merged into them.
func (th *Theme) Override(raw map[string]any) error {
	for name, value := range raw {
		if name == "extend" {
			continue
		}
		if _, ok := asMap(value); !ok {
			return fmt.Errorf("theme section %q must be an object", name)
		}
		if name == "fontSize" {
			delete(th.sections, lineHeightSection)
		}
		th.sections[name] = th.flattenSection(name, value)
	}

	extend, ok := raw["extend"]
	if !ok {
		return nil
	}
	extendMap, ok := asMap(extend)
	if !ok {
		return fmt.Errorf("theme extend must be an object")
	}
	for name, value := range extendMap {
		if _, ok := asMap(value); !ok {
			return fmt.Errorf("theme extend section %q must be an object", name)
		}
		section := th.sections[name]
		if section == nil {
			section = make(map[string]string)
			th.sections[name] = section
		}
		for k, v := range th.flattenSection(name, value) {
			section[k] = v
		}
	}
	return nil
}

// Lookup returns the value for key in the first section that has it.
func (th *Theme) Lookup(key string, sections ...string) (string, bool) {
	for _, name := range sections {
		if v, ok := th.sections[name][key]; ok {
			return v, true
		}
	}
	return "", false
}

// Keys returns the sorted keys of a section.
func (th *Theme) Keys(section string) []string {
	keys := make([]string, 0, len(th.sections[section]))
	for k := range th.sections[section] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Screens returns breakpoint names ordered by their min-width.
func (th *Theme) Screens() []string {
	names := th.Keys("screens")
	sort.SliceStable(names, func(i, j int) bool {
		return screenWidth(th.sections["screens"][names[i]]) < screenWidth(th.sections["screens"][names[j]])
	})
	return names
}

// screenWidth extracts the numeric part of a breakpoint such as "640px"
func screenWidth(v string) float64 {
	num := strings.TrimRightFunc(v, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return f
}

// flattenSection converts a decoded section into key -> value pairs
func (th *Theme) flattenSection(name string, value any) map[string]string {
	out := make(map[string]string)
	m, ok := asMap(value)
	if !ok {
		return out
	}

	for key, v := range m {
		th.flattenValue(name, key, v, out)
	}
	return out
}

func (th *Theme) flattenValue(section, key string, v any, out map[string]string) {
	if key == "DEFAULT" {
		key = ""
	}

	if m, ok := asMap(v); ok {
		v = m
	}

	switch val := v.(type) {
	case map[string]any:
		for k, nested := range val {
			child := k
			if k == "DEFAULT" {
				child = ""
			}
			th.flattenValue(section, joinKey(key, child), nested, out)
		}
	case []any:
		// fontSize style tuples: [size, lineHeight] or [size, {lineHeight: ...}]
		if len(val) == 0 {
			return
		}
		out[key] = scalar(val[0])
		if len(val) > 1 {
			if lh := tupleLineHeight(val[1]); lh != "" {
				lines := th.sections[lineHeightSection]
				if lines == nil {
					lines = make(map[string]string)
					th.sections[lineHeightSection] = lines
				}
				lines[key] = lh
			}
		}
	default:
		out[key] = scalar(val)
	}
}

func tupleLineHeight(v any) string {
	if m, ok := asMap(v); ok {
		v = m
	}

	switch val := v.(type) {
	case map[string]any:
		if lh, ok := val["lineHeight"]; ok {
			return scalar(lh)
		}
		return ""
	default:
		return scalar(val)
	}
}

// asMap accepts both decoded mapping shapes; YAML mappings with
// non-string keys (e.g. an unquoted 50) decode to map[any]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func joinKey(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "-" + child
	}
}

// scalar formats a decoded YAML/JSON scalar as a CSS value
func scalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
