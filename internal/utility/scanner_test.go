package utility

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCandidates(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "html class attribute",
			line: `<div class="p-4 md:flex">`,
			want: []string{"div", "class=", "p-4", "md:flex"},
		},
		{
			name: "punctuation in prose",
			line: `Use (p-4), then {.flex}`,
			want: []string{"Use", "(p-4),", "p-4", "then", "{.flex}", "flex"},
		},
		{
			name: "arbitrary value keeps brackets",
			line: `bg-[#1da1f2]`,
			want: []string{"bg-[#1da1f2]"},
		},
		{
			name: "trailing colon is not part of a candidate",
			line: `hover: text-lg`,
			want: []string{"hover", "text-lg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractCandidates(tt.line))
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScannerScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes", "a.md"), `<span class="p-4 text-red-500">`)
	writeFile(t, filepath.Join(dir, "notes", "b.md"), "flex p-4")
	writeFile(t, filepath.Join(dir, "drafts", "c.md"), "hidden")
	writeFile(t, filepath.Join(dir, "[literal].md"), "italic")

	s := &Scanner{
		Ignore:  ignore.CompileIgnoreLines("drafts/"),
		BaseDir: dir,
	}

	candidates, stats, err := s.Scan([]string{
		filepath.Join(dir, "**", "*.md"),
		filepath.Join(dir, "[literal].md"),
		filepath.Join(dir, "notes", "a.md"), // Duplicate of a glob match
	})
	require.NoError(t, err)

	assert.Contains(t, candidates, "p-4")
	assert.Contains(t, candidates, "text-red-500")
	assert.Contains(t, candidates, "flex")
	assert.Contains(t, candidates, "italic")
	assert.NotContains(t, candidates, "hidden", "ignored directory must not be scanned")

	assert.Equal(t, 3, stats.FilesScanned)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 4, stats.FilesDiscovered)
}

func TestScannerLongLine(t *testing.T) {
	dir := t.TempDir()
	long := "p-4 ![img](data:image/png;base64," + strings.Repeat("A", 2<<20) + ") flex\nitalic"
	writeFile(t, filepath.Join(dir, "note.md"), long)

	s := &Scanner{}
	candidates, stats, err := s.Scan([]string{filepath.Join(dir, "*.md")})
	require.NoError(t, err)

	assert.Contains(t, candidates, "p-4")
	assert.Contains(t, candidates, "flex")
	assert.Contains(t, candidates, "italic")
	assert.Equal(t, 1, stats.FilesScanned)
}

func TestScannerNoMatches(t *testing.T) {
	s := &Scanner{}
	candidates, stats, err := s.Scan([]string{filepath.Join(t.TempDir(), "*.md")})
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Zero(t, stats.FilesScanned)
}

func TestScannerBadPattern(t *testing.T) {
	s := &Scanner{}
	_, _, err := s.Scan([]string{filepath.Join(t.TempDir(), "[.md")})
	require.Error(t, err)
}
