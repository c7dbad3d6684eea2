package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "twsnip",
	Short: "Utility-class CSS snippet generator for notes vaults",
	Long: `Scan the notes of a vault for utility classes and regenerate
<configDir>/snippets/tailwind.css from the plugin entry stylesheet.`,
	// Default behavior: run generate when no subcommand is given.
	// We must call loadConfig here because PreRunE of generateCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runGenerate(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	f := rootCmd.PersistentFlags()
	f.String("config", defaultConfigFile, "Config file path")
	f.String("vault", ".", "Vault root directory")
	f.String("config-dir", ".obsidian", "Editor configuration directory inside the vault")
	f.String("plugin-id", "twsnip", "Plugin directory under <config-dir>/plugins")
	f.StringSlice("ignore", nil, "Gitignore-style patterns excluded from notes and content globs")
	f.String("log-level", "info", "Log level: debug|info|warn|error")
	f.String("log-format", "text", "Log format: text|json")
	f.Bool("color", false, "Force color output")
	f.Bool("quiet", false, "Suppress notifications and summaries (errors still print)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
