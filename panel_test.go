package twsnip

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldByKey(t *testing.T, fields []Field, key string) Field {
	t.Helper()
	for _, f := range fields {
		if f.Key == key {
			return f
		}
	}
	t.Fatalf("field %s not found", key)
	return Field{}
}

func TestPanelFields(t *testing.T) {
	p, _, _ := loadedPlugin(t, "")
	panel := p.Panel()

	fields := panel.Fields()
	require.Len(t, fields, 6)

	prefix := fieldByKey(t, fields, KeyPrefixSelector)
	assert.Equal(t, "Prefix selector", prefix.Name)
	assert.Equal(t, ".tailwind", prefix.Value)
	assert.True(t, prefix.Disabled)
	assert.Contains(t, prefix.Description, `".tailwind .a, .tailwind #foo.bar"`)

	assert.Equal(t, "Enable Preflight", fieldByKey(t, fields, KeyEnablePreflight).Name)
	assert.Equal(t, "false", fieldByKey(t, fields, KeyEnablePreflight).Value)

	require.NoError(t, panel.Set(context.Background(), KeyAddPrefixSelector, "true"))
	assert.False(t, fieldByKey(t, panel.Fields(), KeyPrefixSelector).Disabled)
}

func TestPanelSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s Settings)
	}{
		{
			name:  "bool",
			key:   KeyEnablePreflight,
			value: "true",
			check: func(t *testing.T, s Settings) { assert.True(t, s.EnablePreflight) },
		},
		{
			name:  "bool short form",
			key:   KeyAddPrefixSelector,
			value: "1",
			check: func(t *testing.T, s Settings) { assert.True(t, s.AddPrefixSelector) },
		},
		{
			name:  "globs",
			key:   KeyContentConfig,
			value: " templates/**/*.html, ,extra.txt ",
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, []string{"templates/**/*.html", "extra.txt"}, s.ContentConfig)
			},
		},
		{
			name:  "existing theme file",
			key:   KeyThemeConfig,
			value: "./theme.json",
			check: func(t *testing.T, s Settings) { assert.Equal(t, "theme.json", s.ThemeConfig) },
		},
		{
			name:  "empty path clears",
			key:   KeyEntryPoint,
			value: "",
			check: func(t *testing.T, s Settings) { assert.Empty(t, s.EntryPoint) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, h, _ := loadedPlugin(t, "p-4")
			h.put(t, ".obsidian/theme.json", "{}")

			require.NoError(t, p.Panel().Set(context.Background(), tt.key, tt.value))
			tt.check(t, p.Settings())

			saved, err := ParseSettings(h.data)
			require.NoError(t, err)
			tt.check(t, saved)
		})
	}
}

func TestPanelSetRejected(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{name: "not a bool", key: KeyEnablePreflight, value: "yes please", want: `"yes please" is not a boolean`},
		{name: "bad glob", key: KeyContentConfig, value: "a/[b", want: `invalid glob "a/[b"`},
		{name: "missing file", key: KeyThemeConfig, value: "nope.json", want: "file .obsidian/nope.json does not exist"},
		{name: "entry point is a directory", key: KeyEntryPoint, value: "plugins", want: ".obsidian/plugins is not a file"},
		{name: "theme is a directory", key: KeyThemeConfig, value: "snippets/", want: ".obsidian/snippets is not a file"},
		{name: "disabled prefix", key: KeyPrefixSelector, value: "#x", want: "enable add-prefix-selector first"},
		{name: "unknown key", key: "colour", value: "red", want: "unknown setting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, h, _ := loadedPlugin(t, "p-4")
			before := p.Settings()

			err := p.Panel().Set(context.Background(), tt.key, tt.value)
			require.Error(t, err)

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.key, fieldErr.Key)
			assert.Contains(t, err.Error(), tt.want)

			assert.Equal(t, before, p.Settings(), "prior value kept")
			assert.Nil(t, h.data, "nothing persisted")
		})
	}
}

func TestPanelSetPersistFailureIsNotified(t *testing.T) {
	p, h, logs := loadedPlugin(t, "p-4")
	h.saveErr = errors.New("read-only vault")

	err := p.Panel().Set(context.Background(), KeyEnablePreflight, "true")
	require.NoError(t, err)

	assert.False(t, p.Settings().EnablePreflight)
	assert.Contains(t, logs.String(), "Failed to apply setting")
	require.Len(t, h.notifications(), 1)
	assert.Contains(t, h.notifications()[0], "read-only vault")
}

func TestPanelReset(t *testing.T) {
	p, h, _ := loadedPlugin(t, "p-4")
	panel := p.Panel()

	require.NoError(t, panel.Set(context.Background(), KeyAddPrefixSelector, "true"))
	require.NoError(t, panel.Set(context.Background(), KeyPrefixSelector, "#notes"))
	assert.Equal(t, "#notes .p-4 {\n  padding: 1rem;\n}\n", h.read(t, snippet))

	panel.Reset(context.Background())
	assert.Equal(t, DefaultSettings(), p.Settings())
	assert.Equal(t, ".p-4 {\n  padding: 1rem;\n}\n", h.read(t, snippet))
}
