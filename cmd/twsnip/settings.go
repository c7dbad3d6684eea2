package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsnip"
	"github.com/yacobolo/twsnip/internal/console"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or edit the plugin settings",
	Long: `The settings panel. Edits are validated, saved to
<config-dir>/plugins/<plugin-id>/data.yaml and regenerate the snippet.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List every setting with its current value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		settings, err := twsnip.LoadSettings(cmd.Context(), a.vault)
		if err != nil {
			return err
		}

		a.reporter.PrintFields(consoleFields(twsnip.PanelFields(settings)))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Booleans accept true/false, content globs are a
comma separated list and path settings must name an existing file under
the config directory (an empty value clears them).`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var keys []string
		for _, f := range twsnip.PanelFields(twsnip.DefaultSettings()) {
			keys = append(keys, f.Key+"\t"+f.Name)
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		p, err := a.loadPlugin(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		if err := p.Panel().Set(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}

		a.reporter.Success(fmt.Sprintf("Set %s = %q", args[0], args[1]))
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		p, err := a.loadPlugin(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		p.Panel().Reset(cmd.Context())
		a.reporter.Success("Settings reset to defaults")
		return nil
	},
}

// consoleFields converts panel rows for the settings table
func consoleFields(fields []twsnip.Field) []console.Field {
	out := make([]console.Field, len(fields))
	for i, f := range fields {
		out[i] = console.Field{
			Key:         f.Key,
			Value:       f.Value,
			Description: f.Name + ". " + f.Description,
			Disabled:    f.Disabled,
		}
	}
	return out
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}
