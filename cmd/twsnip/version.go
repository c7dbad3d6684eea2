package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsnip"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/twsnip
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of twsnip",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "twsnip %s (tailwindcss %s)\n", version, twsnip.TailwindVersion)
	},
}
