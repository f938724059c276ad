package main

import (
	"context"
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/oriumgames/traitswap"
	"github.com/oriumgames/traitswap/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print stored trait assignments",
	Long:  `Print every player's stored trait without starting a server. Unreadable entries are marked.`,
	RunE:  runList,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print all traits",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, t := range traitswap.Catalog() {
			fmt.Fprintf(w, "%s\t%s\n", t, t.DisplayName())
		}
		return w.Flush()
	},
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := cfg.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	snap, err := st.Load(ctx)
	if err != nil {
		return err
	}
	return printSnapshot(cmd, snap)
}

// printSnapshot writes one line per stored player, sorted by player id.
func printSnapshot(cmd *cobra.Command, snap store.Snapshot) error {
	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, id := range ids {
		display := "(unknown trait)"
		if t, err := traitswap.ParseTrait(snap[id]); err == nil {
			display = t.DisplayName()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, snap[id], display)
	}
	return w.Flush()
}
