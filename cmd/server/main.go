// Package main is the entry point for the worldstate reconciliation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "worldstate",
	Short: "World-state reconciliation engine",
	Long: `worldstate repairs and settles a narrator-written world document after
each committed turn: room consistency, offstage health, the daily
progression roll, shelter scope, and the mission stage machine.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(settleCmd)
}
