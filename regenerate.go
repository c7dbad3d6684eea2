package twsnip

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yacobolo/twsnip/internal/assets"
	"github.com/yacobolo/twsnip/internal/logfields"
)

// EntryFile is the bundled entry stylesheet under the plugin directory.
const EntryFile = assets.EntryFile

// Options configures a Plugin and the regenerations it runs
type Options struct {
	PluginID string       // Directory under <configDir>/plugins; DefaultPluginID when empty
	Logger   *slog.Logger // slog.Default() when nil
	Ignore   []string     // gitignore-style patterns excluded from content globs
}

func (o Options) withDefaults() Options {
	if o.PluginID == "" {
		o.PluginID = DefaultPluginID
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Result describes one regeneration
type Result struct {
	Input        string        // Entry stylesheet (vault path)
	Output       string        // Generated snippet (vault path)
	Stages       []string      // Pipeline stage names in order
	ContentPaths int           // Documents plus content globs scanned
	Utilities    int           // Generated utility rules
	Bytes        int           // Size of the written snippet
	Duration     time.Duration // Wall time of the run
	Skipped      bool          // No content, nothing written
}

// EntryPath returns the entry stylesheet used for settings.
func EntryPath(host Host, settings Settings, pluginID string) string {
	if settings.EntryPoint != "" {
		return configPath(host, settings.EntryPoint)
	}
	return NormalizePath(pluginDir(host, pluginID) + "/" + EntryFile)
}

// SnippetPath returns <configDir>/snippets/tailwind.css.
func SnippetPath(host Host) string {
	return configPath(host, SnippetsDir, SnippetFile)
}

// Regenerate runs the pipeline over the entry stylesheet and overwrites the
// snippet. An empty content set skips the run without touching the
// snippet. Any failure happens before the write, so a failed run leaves the
// previous snippet in place.
func Regenerate(ctx context.Context, host Host, settings Settings, preflight *Preflight, opts Options) (Result, error) {
	opts = opts.withDefaults()
	logger := opts.Logger
	start := time.Now()

	result := Result{
		Input:  EntryPath(host, settings, opts.PluginID),
		Output: SnippetPath(host),
	}

	// 1. Collect content
	content, err := ContentPaths(ctx, host, settings)
	if err != nil {
		return result, err
	}
	result.ContentPaths = len(content)
	if len(content) == 0 {
		logger.Debug("Skipping tailwind processing because there is no content.")
		result.Skipped = true
		result.Duration = time.Since(start)
		return result, nil
	}

	// 2. Assemble stages
	pipeline, err := AssemblePipeline(ctx, host, settings, preflight, content, opts)
	if err != nil {
		return result, err
	}
	result.Stages = pipeline.Names()

	// 3. Process the entry stylesheet
	css, err := host.Read(ctx, result.Input)
	if err != nil {
		return result, fmt.Errorf("reading entry stylesheet %s: %w", result.Input, err)
	}
	out, err := pipeline.Run(ctx, css, result.Input)
	if err != nil {
		return result, err
	}
	result.Utilities = pipeline.Utilities()

	// 4. Write the snippet
	logger.Info("Overwriting "+result.Output, logfields.Output(result.Output))
	if err := host.Write(ctx, result.Output, out); err != nil {
		return result, fmt.Errorf("writing %s: %w", result.Output, err)
	}

	result.Bytes = len(out)
	result.Duration = time.Since(start)
	return result, nil
}

// Generate is a one-shot regeneration without a Plugin: it loads the
// persisted settings and the base layer, creates the snippets directory
// when missing and regenerates once.
func Generate(ctx context.Context, host Host, opts Options) (Result, error) {
	opts = opts.withDefaults()

	settings, err := LoadSettings(ctx, host)
	if err != nil {
		return Result{}, err
	}
	preflight, err := LoadPreflight(ctx, host, opts.PluginID)
	if err != nil {
		return Result{}, err
	}
	if err := ensureSnippetsDir(ctx, host); err != nil {
		return Result{}, err
	}

	return Regenerate(ctx, host, settings, preflight, opts)
}
