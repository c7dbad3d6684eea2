package utility

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twsnip/internal/stylesheet"
)

// compile runs Compile over entry with a single content file
func compile(t *testing.T, entry, content string, opts Options) (string, Stats, error) {
	t.Helper()

	if content != "" {
		path := filepath.Join(t.TempDir(), "note.md")
		writeFile(t, path, content)
		opts.Content = append(opts.Content, path)
	}

	sheet, err := stylesheet.Parse(entry, "entry.css")
	require.NoError(t, err)

	stats, err := Compile(sheet, opts)
	if err != nil {
		return "", stats, err
	}
	return stylesheet.Print(sheet), stats, nil
}

func TestCompileUtilities(t *testing.T) {
	out, stats, err := compile(t, "@tailwind utilities;", `<div class="p-4 hover:text-red-500 md:flex nope">`, Options{})
	require.NoError(t, err)

	want := `.p-4 {
  padding: 1rem;
}

.hover\:text-red-500:hover {
  color: #ef4444;
}

@media (min-width: 768px) {
  .md\:flex {
    display: flex;
  }
}
`
	assert.Equal(t, want, out)
	assert.Equal(t, 3, stats.Utilities)
	assert.Equal(t, 1, stats.Scan.FilesScanned)
}

func TestCompileOrder(t *testing.T) {
	out, _, err := compile(t, "@tailwind utilities;", "lg:p-8 px-4 sm:p-2 p-2 md:p-6 -mt-2 sm:flex", Options{})
	require.NoError(t, err)

	order := []string{
		".-mt-2 {",
		".p-2 {",
		".px-4 {",
		"@media (min-width: 640px)",
		`.sm\:flex`,
		`.sm\:p-2`,
		"@media (min-width: 768px)",
		"@media (min-width: 1024px)",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(out, s)
		require.Greater(t, idx, last, "%q out of order in:\n%s", s, out)
		last = idx
	}

	assert.Equal(t, 1, strings.Count(out, "@media (min-width: 640px)"), "responsive rules share one block")
	assert.Contains(t, out, "margin-top: -0.5rem;")
}

func TestCompileVariants(t *testing.T) {
	tests := []struct {
		name  string
		class string
		want  string
	}{
		{
			name:  "group hover",
			class: "group-hover:underline",
			want:  ".group:hover .group-hover\\:underline {\n  text-decoration-line: underline;\n}\n",
		},
		{
			name:  "dark",
			class: "dark:bg-black",
			want:  "@media (prefers-color-scheme: dark) {\n  .dark\\:bg-black {\n    background-color: #000;\n  }\n}\n",
		},
		{
			name:  "important",
			class: "!p-1",
			want:  ".\\!p-1 {\n  padding: 0.25rem !important;\n}\n",
		},
		{
			name:  "space between",
			class: "space-x-4",
			want:  ".space-x-4 > :not([hidden]) ~ :not([hidden]) {\n  margin-left: 1rem;\n}\n",
		},
		{
			name:  "arbitrary value",
			class: "w-[calc(100%_-_2rem)]",
			want:  ".w-\\[calc\\(100\\%_-_2rem\\)\\] {\n  width: calc(100% - 2rem);\n}\n",
		},
		{
			name:  "font size with line height",
			class: "text-lg",
			want:  ".text-lg {\n  font-size: 1.125rem;\n  line-height: 1.75rem;\n}\n",
		},
		{
			name:  "unknown variant is ignored",
			class: "wobble:p-4",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := compile(t, "@tailwind utilities;", tt.class, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCompilePreflight(t *testing.T) {
	entry := "@tailwind base;\n@tailwind components;\n@tailwind utilities;"
	preflight := []stylesheet.Node{
		&stylesheet.Comment{Text: "/*! x */"},
		&stylesheet.Rule{Selectors: []string{"html"}, Nodes: []stylesheet.Node{stylesheet.Decl("line-height", "1.5")}},
	}

	t.Run("enabled", func(t *testing.T) {
		out, _, err := compile(t, entry, "flex", Options{Preflight: preflight})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "/*! x */\nhtml {\n  line-height: 1.5;\n}\n"), out)
		assert.Contains(t, out, ".flex {")
	})

	t.Run("disabled", func(t *testing.T) {
		out, _, err := compile(t, entry, "flex", Options{})
		require.NoError(t, err)
		assert.NotContains(t, out, "/*! x */")
		assert.NotContains(t, out, "html")
		assert.True(t, strings.HasPrefix(out, ".flex {"), out)
	})

	t.Run("preflight nodes are copied", func(t *testing.T) {
		_, _, err := compile(t, entry, "", Options{Preflight: preflight})
		require.NoError(t, err)
		_, _, err = compile(t, entry, "", Options{Preflight: preflight})
		require.NoError(t, err)
		assert.Len(t, preflight, 2)
		assert.Equal(t, "1.5", preflight[1].(*stylesheet.Rule).Declarations()[0].Value)
	})
}

func TestCompileLayersAndApply(t *testing.T) {
	entry := `@tailwind base;
@tailwind utilities;
@layer base {
  h1 { @apply text-2xl font-bold; }
}
.btn { @apply px-4 -mt-1 !important; color: red; }`

	out, _, err := compile(t, entry, "", Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "h1 {\n  font-size: 1.5rem;\n  line-height: 2rem;\n  font-weight: 700;\n}\n"), out)
	assert.Contains(t, out, `.btn {
  padding-left: 1rem !important;
  padding-right: 1rem !important;
  margin-top: -0.25rem !important;
  color: red;
}`)
	assert.NotContains(t, out, "@apply")
	assert.NotContains(t, out, "@layer")
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		wantErr string
	}{
		{
			name:    "unknown class in apply",
			entry:   ".btn { @apply nope; }",
			wantErr: "the `nope` class does not exist",
		},
		{
			name:    "variant in apply",
			entry:   ".btn { @apply hover:p-4; }",
			wantErr: "does not support variants",
		},
		{
			name:    "layer without directive",
			entry:   "@tailwind utilities;\n@layer components { .card { color: red; } }",
			wantErr: "no matching `@tailwind components` directive",
		},
		{
			name:    "unknown directive",
			entry:   "@tailwind everything;",
			wantErr: "unknown directive @tailwind everything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := compile(t, tt.entry, "", Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "entry.css")
		})
	}
}

func TestCompileRejectsUnsafeArbitraryValues(t *testing.T) {
	content := `<div class="p-[1px;}body{display:none] leading-[2/*] opacity-[0.5)] p-4 bg-[#fff]">`

	out, _, err := compile(t, "@tailwind utilities;", content, Options{})
	require.NoError(t, err)

	assert.Contains(t, out, "padding: 1rem;")
	assert.Contains(t, out, "background-color: #fff;")
	assert.NotContains(t, out, "display")
	assert.NotContains(t, out, "body")
	assert.NotContains(t, out, "/*")
	assert.NotContains(t, out, "0.5)")

	reparsed, err := stylesheet.Parse(out, "out.css")
	require.NoError(t, err)
	assert.Equal(t, out, stylesheet.Print(reparsed))
}

func TestCompileThemeOverride(t *testing.T) {
	th := DefaultTheme()
	require.NoError(t, th.Override(map[string]any{
		"extend": map[string]any{"colors": map[string]any{"brand": "#1da1f2"}},
	}))

	out, _, err := compile(t, "@tailwind utilities;", "bg-brand bg-red-500", Options{Theme: th})
	require.NoError(t, err)
	assert.Contains(t, out, "background-color: #1da1f2;")
	assert.Contains(t, out, "background-color: #ef4444;")
}

func TestCompileDeterministic(t *testing.T) {
	content := "p-4 m-2 hover:bg-white md:hidden sm:grid-cols-3 text-sm"
	first, _, err := compile(t, "@tailwind utilities;", content, Options{})
	require.NoError(t, err)
	second, _, err := compile(t, "@tailwind utilities;", content, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
