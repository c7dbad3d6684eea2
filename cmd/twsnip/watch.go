package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsnip"
	"github.com/yacobolo/twsnip/internal/logfields"
	"github.com/yacobolo/twsnip/internal/vault"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever notes or settings change",
	Long: `Regenerate once, then keep the snippet in sync with the vault.
Note changes are debounced; edits to the settings file are picked up live.
Send SIGHUP to force a refresh, SIGINT or SIGTERM to stop.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", vault.DefaultDebounce, "Quiet window before note changes trigger a regeneration")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	logger := a.opts.Logger

	p, err := a.loadPlugin(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	// The settings watch needs the blob on disk
	exists, err := a.vault.Exists(ctx, a.vault.DataPath())
	if err != nil {
		return err
	}
	if !exists {
		if err := twsnip.SaveSettings(ctx, a.vault, p.Settings()); err != nil {
			return err
		}
	}
	if err := a.vault.WatchSettings(func() {
		if err := p.ReloadSettings(ctx); err != nil {
			logger.Error("Failed to reload settings", logfields.Error(err))
			a.vault.Notify("Failed to reload settings: " + err.Error())
		}
	}); err != nil {
		return err
	}
	defer a.vault.UnwatchSettings()

	w, err := a.vault.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching vault: %w", err)
	}
	defer w.Close()

	a.reporter.Notify("Watching " + a.vault.Root() + " (SIGHUP refreshes, Ctrl+C stops)")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigs:
			if sig != syscall.SIGHUP {
				logger.Info("Stopping", "signal", sig.String())
				return nil
			}
			// Failures are logged and notified by Refresh
			_, _ = p.Refresh(ctx)
		}
	}
}
