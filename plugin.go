package twsnip

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yacobolo/twsnip/internal/logfields"
)

// Regeneration triggers, reported in logs
const (
	TriggerStartup   = "startup"
	TriggerManual    = "manual"
	TriggerSettings  = "settings"
	TriggerDocuments = "documents"
	TriggerReload    = "reload"
)

// Plugin ties settings, the base layer and the regeneration runner to a host.
type Plugin struct {
	host   Host
	opts   Options
	runner *Runner

	mu        sync.RWMutex
	settings  Settings
	preflight *Preflight
	loaded    bool

	unsubscribe func()
}

// New creates a plugin bound to host. Call Load before anything else.
func New(host Host, opts Options) *Plugin {
	p := &Plugin{
		host:     host,
		opts:     opts.withDefaults(),
		settings: DefaultSettings(),
	}
	p.opts.Logger = p.opts.Logger.With("plugin", p.opts.PluginID)
	p.runner = NewRunner(p.regenerate, func(trigger string, err error) {
		p.handleError("Failed to regenerate tailwind.css snippet", err, logfields.Trigger(trigger))
	})
	return p
}

// Load reads settings and the base layer, makes sure the snippets
// directory exists, regenerates once and subscribes to document changes.
// A failed startup regeneration is reported but does not fail Load.
func (p *Plugin) Load(ctx context.Context) error {
	settings, err := LoadSettings(ctx, p.host)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrStartup, err)
		p.handleError("Failed to load settings", err)
		return err
	}

	preflight, err := LoadPreflight(ctx, p.host, p.opts.PluginID)
	if err != nil {
		p.handleError("Failed to load base layer", err)
		return err
	}

	if err := ensureSnippetsDir(ctx, p.host); err != nil {
		err = fmt.Errorf("%w: %w", ErrStartup, err)
		p.handleError("Failed to create snippets directory", err)
		return err
	}

	p.mu.Lock()
	p.settings = settings
	p.preflight = preflight
	p.loaded = true
	p.mu.Unlock()

	if _, err := p.runner.Run(ctx, TriggerStartup); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		p.handleError("Failed to regenerate tailwind.css snippet", err, logfields.Trigger(TriggerStartup))
	}

	p.unsubscribe = p.host.OnDocumentsChanged(func() {
		p.runner.Trigger(TriggerDocuments)
	})

	p.opts.Logger.Debug("Plugin loaded", logfields.Path(SnippetPath(p.host)))
	return nil
}

func ensureSnippetsDir(ctx context.Context, host Host) error {
	dir := configPath(host, SnippetsDir)
	exists, err := host.Exists(ctx, dir)
	if err != nil {
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	if exists {
		return nil
	}
	if err := host.Mkdir(ctx, dir); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// Refresh regenerates now and waits for the result. Success is announced
// with RefreshedMessage; failures are logged, notified and returned.
func (p *Plugin) Refresh(ctx context.Context) (Result, error) {
	result, err := p.runner.Run(ctx, TriggerManual)
	if err != nil {
		p.handleError("Failed to refresh tailwind.css snippet", err, logfields.Trigger(TriggerManual))
		return result, err
	}
	if !result.Skipped {
		p.host.Notify(RefreshedMessage)
	}
	return result, nil
}

// Settings returns a snapshot of the current settings.
func (p *Plugin) Settings() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.Clone()
}

// UpdateSettings applies fn to a copy of the settings, persists it and
// regenerates. When persisting fails the previous settings stay active.
func (p *Plugin) UpdateSettings(ctx context.Context, fn func(*Settings)) error {
	next := p.Settings()
	fn(&next)

	if err := SaveSettings(ctx, p.host, next); err != nil {
		return err
	}

	p.mu.Lock()
	p.settings = next
	p.mu.Unlock()

	_, err := p.runner.Run(ctx, TriggerSettings)
	return err
}

// ReloadSettings re-reads the persisted settings and schedules a
// regeneration. Used when the settings file changes outside the plugin.
func (p *Plugin) ReloadSettings(ctx context.Context) error {
	settings, err := LoadSettings(ctx, p.host)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.settings = settings
	p.mu.Unlock()

	p.runner.Trigger(TriggerReload)
	return nil
}

// Panel returns the field editor over the plugin settings.
func (p *Plugin) Panel() *Panel {
	return &Panel{plugin: p}
}

// Close stops listening for document changes and waits for any
// background regeneration.
func (p *Plugin) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.runner.Close()
}

// regenerate is the runner's RunFunc. It reads the settings current at
// the time the run starts.
func (p *Plugin) regenerate(ctx context.Context, trigger string) (Result, error) {
	p.mu.RLock()
	settings := p.settings.Clone()
	preflight := p.preflight
	loaded := p.loaded
	p.mu.RUnlock()

	if !loaded {
		return Result{}, errors.New("plugin is not loaded")
	}

	result, err := Regenerate(ctx, p.host, settings, preflight, p.opts)
	if err != nil {
		return result, err
	}

	p.opts.Logger.Debug("Regenerated snippet",
		logfields.Trigger(trigger),
		logfields.Output(result.Output),
		logfields.Count(result.Utilities),
		logfields.Duration(result.Duration))
	return result, nil
}

// handleError logs err and shows msg to the user.
func (p *Plugin) handleError(msg string, err error, attrs ...any) {
	args := append([]any{logfields.Error(err)}, attrs...)
	p.opts.Logger.Error(msg, args...)
	p.host.Notify(msg + ": " + err.Error())
}
