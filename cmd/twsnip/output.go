package main

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yacobolo/twsnip"
)

// Output formats for generate
const (
	OutputSummary = "summary"
	OutputJSON    = "json"
)

// determineOutputFormat selects the output format from the flag value
func determineOutputFormat(formatFlag string) string {
	switch formatFlag {
	case OutputJSON:
		return OutputJSON
	default:
		return OutputSummary
	}
}

// JSONOutput is the machine-readable generate report
type JSONOutput struct {
	Version         string   `json:"version"`
	TailwindVersion string   `json:"tailwind_version"`
	Timestamp       string   `json:"timestamp"`
	Input           string   `json:"input"`
	Output          string   `json:"output"`
	Stages          []string `json:"stages"`
	ContentPaths    int      `json:"content_paths"`
	Utilities       int      `json:"utilities"`
	Bytes           int      `json:"bytes"`
	DurationMS      float64  `json:"duration_ms"`
	Skipped         bool     `json:"skipped"`
}

// writeJSON writes the regeneration result as JSON
func writeJSON(w io.Writer, result twsnip.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(result))
}

func buildJSONOutput(result twsnip.Result) JSONOutput {
	stages := result.Stages
	if stages == nil {
		stages = []string{}
	}
	return JSONOutput{
		Version:         version,
		TailwindVersion: twsnip.TailwindVersion,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Input:           result.Input,
		Output:          result.Output,
		Stages:          stages,
		ContentPaths:    result.ContentPaths,
		Utilities:       result.Utilities,
		Bytes:           result.Bytes,
		DurationMS:      float64(result.Duration.Microseconds()) / 1000,
		Skipped:         result.Skipped,
	}
}
