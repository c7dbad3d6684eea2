package twsnip

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snippet = ".obsidian/snippets/tailwind.css"

// setup returns an installed host with one note and its loaded base layer
func setup(t *testing.T, note string) (*fakeHost, *Preflight) {
	t.Helper()
	h := newFakeHost(t)
	h.install(t)
	h.put(t, ".obsidian/snippets/.keep", "")
	if note != "" {
		h.put(t, "note.md", note)
	}

	preflight, err := LoadPreflight(context.Background(), h, DefaultPluginID)
	require.NoError(t, err)
	return h, preflight
}

func TestRegenerate(t *testing.T) {
	h, preflight := setup(t, `<div class="p-4">`)
	logger, _ := testLogger()

	result, err := Regenerate(context.Background(), h, DefaultSettings(), preflight, Options{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, ".obsidian/plugins/twsnip/tailwind.css", result.Input)
	assert.Equal(t, snippet, result.Output)
	assert.Equal(t, []string{StageCompile, StageAutoprefix}, result.Stages)
	assert.Equal(t, 1, result.ContentPaths)
	assert.Equal(t, 1, result.Utilities)
	assert.False(t, result.Skipped)

	out := h.read(t, snippet)
	assert.Equal(t, ".p-4 {\n  padding: 1rem;\n}\n", out)
	assert.Equal(t, len(out), result.Bytes)
}

func TestRegeneratePrefixSelector(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		prefix  string
		want    string
	}{
		{
			name: "disabled",
			want: ".p-4 {\n  padding: 1rem;\n}\n",
		},
		{
			name:    "enabled",
			enabled: true,
			prefix:  ".tailwind",
			want:    ".tailwind .p-4 {\n  padding: 1rem;\n}\n",
		},
		{
			name:    "enabled with compound prefix",
			enabled: true,
			prefix:  "#foo.bar",
			want:    "#foo.bar .p-4 {\n  padding: 1rem;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, preflight := setup(t, "p-4")
			s := DefaultSettings()
			s.AddPrefixSelector = tt.enabled
			s.PrefixSelector = tt.prefix

			logger, _ := testLogger()
			_, err := Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
			require.NoError(t, err)
			first := h.read(t, snippet)
			assert.Equal(t, tt.want, first)

			_, err = Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
			require.NoError(t, err)
			assert.Equal(t, first, h.read(t, snippet), "unchanged inputs give identical output")
		})
	}
}

func TestRegenerateNoContent(t *testing.T) {
	h, preflight := setup(t, "")
	h.put(t, snippet, "/* previous */\n")
	logger, logs := testLogger()

	result, err := Regenerate(context.Background(), h, DefaultSettings(), preflight, Options{Logger: logger})
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, "/* previous */\n", h.read(t, snippet))
	assert.Zero(t, h.writeCount())
	assert.Contains(t, logs.String(), "Skipping tailwind processing because there is no content.")
}

func TestRegenerateMissingTheme(t *testing.T) {
	h, preflight := setup(t, "p-4")
	s := DefaultSettings()
	s.ThemeConfig = "missing.json"
	logger, logs := testLogger()

	_, err := Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, ".p-4 {\n  padding: 1rem;\n}\n", h.read(t, snippet))
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "Could not find theme configuration file at '.obsidian/missing.json'.")
}

func TestRegenerateThemeOverride(t *testing.T) {
	h, preflight := setup(t, "p-4 text-brand")
	h.put(t, ".obsidian/theme.json", `{"extend": {"colors": {"brand": "#123456"}}}`)
	s := DefaultSettings()
	s.ThemeConfig = "theme.json"
	logger, _ := testLogger()

	_, err := Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
	require.NoError(t, err)

	out := h.read(t, snippet)
	assert.Contains(t, out, "color: #123456;")
	assert.Contains(t, out, "padding: 1rem;")
}

func TestRegenerateMalformedThemeKeepsOutput(t *testing.T) {
	h, preflight := setup(t, "p-4")
	h.put(t, snippet, "/* previous */\n")
	h.put(t, ".obsidian/theme.json", `{"colors": [unclosed`)
	s := DefaultSettings()
	s.ThemeConfig = "theme.json"
	logger, _ := testLogger()

	_, err := Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme configuration .obsidian/theme.json")
	assert.Equal(t, "/* previous */\n", h.read(t, snippet))
}

func TestRegeneratePreflight(t *testing.T) {
	h, preflight := setup(t, "p-4")
	logger, _ := testLogger()

	s := DefaultSettings()
	s.EnablePreflight = true
	_, err := Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
	require.NoError(t, err)

	out := h.read(t, snippet)
	assert.True(t, strings.HasPrefix(out, "/*! tailwindcss v3.4.1 | MIT License | https://tailwindcss.com */\n"), out)
	base := strings.Index(out, "box-sizing: border-box;")
	utility := strings.Index(out, ".p-4 {")
	require.Positive(t, base)
	assert.Greater(t, utility, base, "base layer precedes utilities")

	s.EnablePreflight = false
	_, err = Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
	require.NoError(t, err)

	out = h.read(t, snippet)
	assert.NotContains(t, out, "tailwindcss v3.4.1")
	assert.NotContains(t, out, "box-sizing")
}

func TestRegenerateCustomEntryPoint(t *testing.T) {
	h, preflight := setup(t, `<p class="card">`)
	h.put(t, ".obsidian/styles/main.css", `@tailwind components;
@tailwind utilities;

@layer components {
  .card { @apply p-4 rounded; }
}
`)
	s := DefaultSettings()
	s.EntryPoint = "styles/main.css"
	logger, logs := testLogger()

	result, err := Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, ".obsidian/styles/main.css", result.Input)
	out := h.read(t, snippet)
	assert.Contains(t, out, ".card {\n  padding: 1rem;\n  border-radius: 0.25rem;\n}\n")
	assert.Contains(t, logs.String(), "Overwriting .obsidian/snippets/tailwind.css")
}

func TestRegenerateMissingEntryPoint(t *testing.T) {
	h, preflight := setup(t, "p-4")
	s := DefaultSettings()
	s.EntryPoint = "nope.css"
	logger, _ := testLogger()

	_, err := Regenerate(context.Background(), h, s, preflight, Options{Logger: logger})
	assert.ErrorContains(t, err, "reading entry stylesheet .obsidian/nope.css")
	assert.Zero(t, h.writeCount())
}

func TestAssemblePipelineStages(t *testing.T) {
	h, preflight := setup(t, "")
	logger, _ := testLogger()

	s := DefaultSettings()
	p, err := AssemblePipeline(context.Background(), h, s, preflight, nil, Options{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, []string{"compile", "autoprefix"}, p.Names())

	s.AddPrefixSelector = true
	p, err = AssemblePipeline(context.Background(), h, s, preflight, nil, Options{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, []string{"compile", "autoprefix", "prefix-selector"}, p.Names())
}

func TestPipelineRunCanceled(t *testing.T) {
	h, preflight := setup(t, "")
	logger, _ := testLogger()
	p, err := AssemblePipeline(context.Background(), h, DefaultSettings(), preflight, nil, Options{Logger: logger})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, "@tailwind utilities;", "entry.css")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadPreflightMissing(t *testing.T) {
	h := newFakeHost(t)

	_, err := LoadPreflight(context.Background(), h, DefaultPluginID)
	require.ErrorIs(t, err, ErrStartup)
	assert.Contains(t, err.Error(), ".obsidian/plugins/twsnip/preflight.css")
}

func TestGenerate(t *testing.T) {
	h := newFakeHost(t)
	h.install(t)
	h.put(t, "note.md", "p-4")
	h.data = []byte("add-prefix-selector: true\nprefix-selector: '#notes'\n")
	logger, _ := testLogger()

	result, err := Generate(context.Background(), h, Options{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, []string{StageCompile, StageAutoprefix, StagePrefixSelector}, result.Stages)
	assert.Equal(t, "#notes .p-4 {\n  padding: 1rem;\n}\n", h.read(t, snippet), "snippets directory is created")
}
