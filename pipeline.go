package twsnip

import (
	"context"
	"fmt"
	"log/slog"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yacobolo/twsnip/internal/autoprefix"
	"github.com/yacobolo/twsnip/internal/logfields"
	"github.com/yacobolo/twsnip/internal/prefixer"
	"github.com/yacobolo/twsnip/internal/stylesheet"
	"github.com/yacobolo/twsnip/internal/utility"
)

// Stage names, in pipeline order
const (
	StageCompile        = "compile"
	StageAutoprefix     = "autoprefix"
	StagePrefixSelector = "prefix-selector"
)

// Stage is one transformation of the parsed entry stylesheet.
type Stage struct {
	Name  string
	Apply func(ctx context.Context, sheet *stylesheet.Stylesheet) error
}

// Pipeline is an ordered list of stages. The entry stylesheet is parsed
// once, passed through every stage and printed once.
type Pipeline struct {
	stages  []Stage
	compile *utility.Stats // Filled in by the compile stage
}

// Names reports the stage tags in order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Utilities reports how many utility rules the last run generated.
func (p Pipeline) Utilities() int {
	if p.compile == nil {
		return 0
	}
	return p.compile.Utilities
}

// Run processes css; from names the source in error messages.
func (p Pipeline) Run(ctx context.Context, css, from string) (string, error) {
	sheet, err := stylesheet.Parse(css, from)
	if err != nil {
		return "", err
	}

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := stage.Apply(ctx, sheet); err != nil {
			return "", fmt.Errorf("%s: %w", stage.Name, err)
		}
	}

	return stylesheet.Print(sheet), nil
}

// AssemblePipeline builds the stages for one regeneration: the utility
// compiler over content, the vendor prefixer and, when enabled, the
// selector prefixer.
func AssemblePipeline(ctx context.Context, host Host, settings Settings, preflight *Preflight, content []string, opts Options) (Pipeline, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	theme, err := loadTheme(ctx, host, settings, logger)
	if err != nil {
		return Pipeline{}, err
	}

	var ignorer *ignore.GitIgnore
	if len(opts.Ignore) > 0 {
		ignorer = ignore.CompileIgnoreLines(opts.Ignore...)
	}

	p := Pipeline{compile: &utility.Stats{}}

	p.stages = append(p.stages, Stage{
		Name: StageCompile,
		Apply: func(ctx context.Context, sheet *stylesheet.Stylesheet) error {
			compileOpts := utility.Options{
				Content: content,
				Theme:   theme,
				Ignore:  ignorer,
				BaseDir: host.FullPath("/"),
			}
			if settings.EnablePreflight && preflight != nil {
				compileOpts.Preflight = preflight.Nodes()
			}

			stats, err := utility.Compile(sheet, compileOpts)
			if err != nil {
				return err
			}
			*p.compile = stats

			logger.Debug("Compiled utilities",
				logfields.Stage(StageCompile),
				logfields.Count(stats.Utilities),
				slog.Int("candidates", stats.Candidates),
				slog.Int("files", stats.Scan.FilesScanned))
			return nil
		},
	})

	p.stages = append(p.stages, Stage{
		Name: StageAutoprefix,
		Apply: func(_ context.Context, sheet *stylesheet.Stylesheet) error {
			stats, err := autoprefix.Process(sheet)
			if err != nil {
				return err
			}
			logger.Debug("Added vendor prefixes",
				logfields.Stage(StageAutoprefix),
				logfields.Count(stats.Declarations+stats.Rules))
			return nil
		},
	})

	if settings.AddPrefixSelector {
		prefix := settings.PrefixSelector
		p.stages = append(p.stages, Stage{
			Name: StagePrefixSelector,
			Apply: func(_ context.Context, sheet *stylesheet.Stylesheet) error {
				n := prefixer.Apply(sheet, prefix)
				logger.Debug("Prefixed selectors",
					logfields.Stage(StagePrefixSelector),
					logfields.Count(n))
				return nil
			},
		})
	}

	return p, nil
}

// loadTheme applies the configured theme override to the default theme.
// A missing override file is logged and ignored; an unreadable or
// malformed one fails the run.
func loadTheme(ctx context.Context, host Host, settings Settings, logger *slog.Logger) (*utility.Theme, error) {
	theme := utility.DefaultTheme()
	if settings.ThemeConfig == "" {
		return theme, nil
	}

	path := configPath(host, settings.ThemeConfig)
	exists, err := host.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("checking theme configuration %s: %w", path, err)
	}
	if !exists {
		logger.Error(fmt.Sprintf("Could not find theme configuration file at '%s'.", path), logfields.Path(path))
		return theme, nil
	}

	data, err := host.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading theme configuration %s: %w", path, err)
	}
	raw, err := utility.ParseThemeOverride([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("theme configuration %s: %w", path, err)
	}
	if err := theme.Override(raw); err != nil {
		return nil, fmt.Errorf("theme configuration %s: %w", path, err)
	}

	return theme, nil
}
