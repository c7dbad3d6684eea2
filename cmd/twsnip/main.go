// Package main provides the twsnip CLI: one-shot generation, a watch mode
// and the settings panel for a notes vault.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
