package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/twsnip"
	"github.com/yacobolo/twsnip/internal/console"
	"github.com/yacobolo/twsnip/internal/vault"
)

// app holds what every command needs once configuration is loaded
type app struct {
	cfg      runtimeConfig
	vault    *vault.Vault
	reporter *console.Reporter
	opts     twsnip.Options
}

// newApp resolves the configuration, logger, reporter and vault.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := buildRuntimeConfig()

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	reporter := console.NewReporter(cmd.OutOrStdout(), console.Options{
		Color: cfg.Color,
		Quiet: cfg.Quiet,
	})

	v, err := vault.Open(cfg.Vault, vault.Options{
		ConfigDir: cfg.ConfigDir,
		PluginID:  cfg.PluginID,
		Ignore:    cfg.Ignore,
		Debounce:  cfg.Debounce,
		Logger:    logger,
		Reporter:  reporter,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		vault:    v,
		reporter: reporter,
		opts: twsnip.Options{
			PluginID: cfg.PluginID,
			Logger:   logger,
			Ignore:   cfg.Ignore,
		},
	}, nil
}

// loadPlugin creates the plugin and runs its startup sequence.
func (a *app) loadPlugin(cmd *cobra.Command) (*twsnip.Plugin, error) {
	p := twsnip.New(a.vault, a.opts)
	if err := p.Load(cmd.Context()); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}
