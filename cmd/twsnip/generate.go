package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsnip"
	"github.com/yacobolo/twsnip/internal/console"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Regenerate the tailwind.css snippet once",
	Long: `Scan the vault notes and content globs, run the entry stylesheet through
the pipeline and overwrite <config-dir>/snippets/tailwind.css.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("output-format", OutputSummary, "Report format: summary|json")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	result, err := twsnip.Generate(cmd.Context(), a.vault, a.opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	format, _ := cmd.Flags().GetString("output-format")
	if determineOutputFormat(format) == OutputJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	printResult(a.reporter, result)
	return nil
}

// printResult prints the summary of one regeneration
func printResult(r *console.Reporter, result twsnip.Result) {
	if result.Skipped {
		r.Warn("Skipped: no notes or content globs to scan")
		return
	}

	r.Success("Generated " + result.Output)
	r.PrintSummary("Summary", []console.Row{
		{Label: "Input", Value: result.Input},
		{Label: "Output", Value: result.Output},
		{Label: "Stages", Value: strings.Join(result.Stages, " → ")},
		{Label: "Content", Value: console.Pluralize(result.ContentPaths, "path", "paths")},
		{Label: "Utilities", Value: console.Pluralize(result.Utilities, "rule", "rules")},
		{Label: "Size", Value: console.Pluralize(result.Bytes, "byte", "bytes")},
		{Label: "Duration", Value: result.Duration.Round(time.Millisecond / 10).String()},
	})
}
