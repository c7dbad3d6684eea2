package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsnip/internal/assets"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .twsnip.yaml and install the plugin stylesheets",
	Long: `Create a .twsnip.yaml configuration file in the current directory and
install the bundled preflight.css and default tailwind.css entry stylesheet
under <config-dir>/plugins/<plugin-id>/. Existing files are kept unless
--force is given.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		ctx := cmd.Context()

		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		if _, err := os.Stat(defaultConfigFile); err == nil && !force {
			a.reporter.Warn(defaultConfigFile + " already exists (use --force to overwrite)")
		} else {
			if err := os.WriteFile(defaultConfigFile, []byte(defaultConfig), 0o644); err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}
			a.reporter.Success("Created " + defaultConfigFile)
		}

		dir := path.Join(a.vault.ConfigDir(), "plugins", a.vault.PluginID())
		if err := a.vault.Mkdir(ctx, dir); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		for _, name := range assets.Names() {
			rel := path.Join(dir, name)
			exists, err := a.vault.Exists(ctx, rel)
			if err != nil {
				return err
			}
			if exists && !force {
				a.reporter.Warn(rel + " already exists, kept")
				continue
			}

			data, err := assets.Read(name)
			if err != nil {
				return err
			}
			if err := a.vault.Write(ctx, rel, string(data)); err != nil {
				return fmt.Errorf("installing %s: %w", rel, err)
			}
			a.reporter.Success("Installed " + rel)
		}

		return nil
	},
}

const defaultConfig = `# twsnip configuration
# Precedence: flags > TWSNIP_* env vars > this file > defaults

vault: .
config-dir: .obsidian
plugin-id: twsnip

# Gitignore-style patterns excluded from notes and content globs
ignore: []

# Quiet window before note changes trigger a regeneration (watch)
debounce: 300ms

log-level: info   # debug | info | warn | error
log-format: text  # text | json
color: false
quiet: false
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
}
