// Package main is the entry point for the traitswap server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "traitswap",
	Short: "Trait swap server",
	Long: `traitswap runs a Dragonfly server in which every player holds one random trait.
Killing another player swaps your trait with theirs.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "store backend: yaml, redis or sqlite (overrides TRAITSWAP_STORE)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(catalogCmd)
}
