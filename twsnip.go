// Package twsnip keeps a utility-class CSS snippet in sync with the notes of
// a vault.
//
// A vault owns a set of Markdown documents and a configuration directory
// (".obsidian" by default) whose "snippets" folder is loaded by the editor.
// twsnip scans the documents for class names, runs an entry stylesheet
// through a three stage pipeline (utility compiler, vendor prefixer,
// optional selector prefixer) and overwrites <configDir>/snippets/tailwind.css.
//
// # Usage
//
// Everything goes through a Host, which owns the file system and the
// "documents changed" notification:
//
//	plugin := twsnip.New(host, twsnip.Options{PluginID: "twsnip"})
//	if err := plugin.Load(ctx); err != nil {
//		return err
//	}
//	defer plugin.Close()
//
//	// Manual refresh
//	plugin.Refresh(ctx)
//
//	// Settings edits persist and regenerate
//	err := plugin.Panel().Set(ctx, twsnip.KeyEnablePreflight, "true")
//
// A file system Host lives in internal/vault; the twsnip command wires both
// together.
package twsnip

// Public API:
// - New(host Host, opts Options) *Plugin
// - Regenerate(ctx, host, settings, preflight, opts) (Result, error)
// - LoadSettings / SaveSettings
// - AssemblePipeline(ctx, host, settings, preflight, content, opts) (Pipeline, error)

const (
	// DefaultPluginID names the plugin directory under <configDir>/plugins.
	DefaultPluginID = "twsnip"

	// TailwindVersion is the framework release the base layer is taken from.
	TailwindVersion = "3.4.1"

	// SnippetFile is the generated stylesheet under <configDir>/snippets.
	SnippetFile = "tailwind.css"

	// SnippetsDir is the editor's snippet directory under the config dir.
	SnippetsDir = "snippets"

	// RefreshedMessage is shown after a successful manual refresh.
	RefreshedMessage = "Refreshed tailwind.css snippet."
)
