package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show a random selection of public recipes",
	Args:  cobra.NoArgs,
	RunE:  runTrending,
}

func runTrending(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	svcs, err := resolveServices(ctx)
	if err != nil {
		return err
	}
	defer svcs.Close()

	recipes, err := svcs.Search.Trending(ctx)
	if err != nil {
		return fmt.Errorf("trending: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"recipes": recipes, "total": len(recipes)})
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tAREA")
	for _, r := range recipes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Name, orDash(r.Category), orDash(r.Area))
	}
	return w.Flush()
}
