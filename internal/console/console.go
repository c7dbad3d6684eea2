// Package console renders user-facing output: transient notifications,
// regeneration summaries and the settings table.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Reporter writes styled lines to a terminal
type Reporter struct {
	mu        sync.Mutex
	w         io.Writer
	useColors bool
	quiet     bool
}

// Options configures a Reporter
type Options struct {
	Color bool // Force colors on
	Quiet bool // Drop notifications, keep errors
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer, opts Options) *Reporter {
	return &Reporter{
		w:         w,
		useColors: ShouldUseColors(opts.Color),
		quiet:     opts.Quiet,
	}
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// Notify prints a transient notification line
func (r *Reporter) Notify(msg string) {
	if r.quiet {
		return
	}
	r.println(RenderStyle(StyleCyan, "[twsnip]", r.useColors) + " " + msg)
}

// Success prints a confirmation line
func (r *Reporter) Success(msg string) {
	if r.quiet {
		return
	}
	r.println(RenderStyle(StyleGreen, "✓", r.useColors) + " " + msg)
}

// Warn prints a skipped or degraded outcome
func (r *Reporter) Warn(msg string) {
	if r.quiet {
		return
	}
	r.println(RenderStyle(StyleYellow, "!", r.useColors) + " " + msg)
}

// Error prints a failure. Errors are printed even in quiet mode.
func (r *Reporter) Error(err error) {
	r.println(RenderStyle(StyleRed, "✗", r.useColors) + " " + err.Error())
}

// Row is one labelled line of a summary
type Row struct {
	Label string
	Value string
}

// PrintSummary prints a titled block of aligned label/value rows
func (r *Reporter) PrintSummary(title string, rows []Row) {
	if r.quiet {
		return
	}

	width := 0
	for _, row := range rows {
		if w := lipgloss.Width(row.Label); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString(RenderStyle(StyleCyan, title, r.useColors))
	b.WriteByte('\n')
	for _, row := range rows {
		label := row.Label + ":" + strings.Repeat(" ", width-lipgloss.Width(row.Label)+1)
		fmt.Fprintf(&b, "  %s%s\n", RenderStyle(StyleGray, label, r.useColors), row.Value)
	}

	r.print(b.String())
}

// Field is one settings entry as shown by `settings show`
type Field struct {
	Key         string
	Value       string
	Description string
	Disabled    bool
}

// PrintFields prints the settings table
func (r *Reporter) PrintFields(fields []Field) {
	width := 0
	for _, f := range fields {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}

	var b strings.Builder
	for _, f := range fields {
		key := f.Key + strings.Repeat(" ", width-len(f.Key))
		value := f.Value
		if value == "" {
			value = RenderStyle(StyleGray, "(unset)", r.useColors)
		}
		if f.Disabled {
			value += " " + RenderStyle(StyleYellow, "(disabled)", r.useColors)
		}
		fmt.Fprintf(&b, "%s  %s\n", RenderStyle(StyleCyan, key, r.useColors), value)
		if f.Description != "" {
			fmt.Fprintf(&b, "%s  %s\n", strings.Repeat(" ", width), RenderStyle(StyleGray, f.Description, r.useColors))
		}
	}

	r.print(b.String())
}

func (r *Reporter) println(line string) {
	r.print(line + "\n")
}

func (r *Reporter) print(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.w, s)
}

// Pluralize returns a formatted string with count and singular/plural form
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
