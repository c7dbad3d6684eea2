package utility

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ScanStats tracks content scanning statistics
type ScanStats struct {
	FilesDiscovered int // Files matched by content entries
	FilesScanned    int // Files actually read (after filtering)
	FilesSkipped    int // Files skipped by ignore patterns
}

// Scanner extracts class candidates from content files
type Scanner struct {
	// Ignore filters files out of glob results. Paths are matched relative
	// to BaseDir. Nil disables filtering.
	Ignore  *ignore.GitIgnore
	BaseDir string
}

var (
	// candidatePattern mirrors the permissive default extractor of utility
	// frameworks: anything between quotes, angle brackets, backticks and
	// whitespace that does not end in a colon.
	candidatePattern = regexp.MustCompile("[^<>\"'`\\s]*[^<>\"'`\\s:]")

	// trimmed from candidates found in prose, e.g. "(p-4)," or "{.flex}"
	candidatePunctuation = "()[]{},.;?*"
)

// Scan expands content entries (file paths or glob patterns) and returns
// the sorted, de-duplicated class candidates found in them.
func (s *Scanner) Scan(content []string) ([]string, ScanStats, error) {
	files, stats, err := s.expand(content)
	if err != nil {
		return nil, stats, err
	}

	seen := make(map[string]struct{})
	for _, file := range files {
		if err := scanFile(file, seen); err != nil {
			return nil, stats, fmt.Errorf("scan %s: %w", file, err)
		}
	}

	candidates := make([]string, 0, len(seen))
	for c := range seen {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)

	return candidates, stats, nil
}

// expand resolves content entries to existing files. An entry naming an
// existing file is taken literally (note names often contain glob
// metacharacters such as '['), anything else is a doublestar pattern.
func (s *Scanner) expand(entries []string) ([]string, ScanStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		stats.FilesDiscovered++

		if s.shouldSkipFile(path) {
			stats.FilesSkipped++
			return
		}
		files = append(files, path)
		stats.FilesScanned++
	}

	for _, entry := range entries {
		if info, err := os.Stat(entry); err == nil {
			if !info.IsDir() {
				add(entry)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(entry, doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", entry, err)
		}
		for _, match := range matches {
			add(match)
		}
	}

	return files, stats, nil
}

// shouldSkipFile reports whether the ignore patterns exclude a file
func (s *Scanner) shouldSkipFile(path string) bool {
	if s.Ignore == nil {
		return false
	}

	rel := path
	if s.BaseDir != "" {
		r, err := filepath.Rel(s.BaseDir, path)
		if err != nil || strings.HasPrefix(r, "..") {
			// Outside the base directory: ignore patterns do not apply
			return false
		}
		rel = r
	}

	return s.Ignore.MatchesPath(filepath.ToSlash(rel))
}

// scanFile adds every candidate found in a file to seen
func scanFile(path string, seen map[string]struct{}) error {
	// #nosec G304 - path comes from the content configuration
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// No per-line limit: notes may inline base64 images on a single line
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		for _, c := range ExtractCandidates(line) {
			seen[c] = struct{}{}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ExtractCandidates returns the possible class names in a line of text.
func ExtractCandidates(line string) []string {
	var out []string
	for _, match := range candidatePattern.FindAllString(line, -1) {
		out = append(out, match)

		trimmed := strings.Trim(match, candidatePunctuation)
		// Keep a trailing ']' that closes an arbitrary value
		if strings.Contains(trimmed, "[") && strings.HasSuffix(match, "]") && !strings.HasSuffix(trimmed, "]") {
			trimmed += "]"
		}
		if trimmed != "" && trimmed != match {
			out = append(out, trimmed)
		}
	}
	return out
}
