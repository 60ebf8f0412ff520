package main

import (
	"fmt"
	"strings"

	"recipe-finder/internal/core/recipe"

	"github.com/spf13/cobra"
)

var searchMode string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search all recipe sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchMode, "mode", "dish", "Search mode: dish or ingredient")
}

func runSearch(cmd *cobra.Command, args []string) error {
	mode, ok := recipe.ParseMode(searchMode)
	if !ok {
		return fmt.Errorf("unknown mode %q", searchMode)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	svcs, err := resolveServices(ctx)
	if err != nil {
		return err
	}
	defer svcs.Close()

	result, err := svcs.Search.Search(ctx, strings.Join(args, " "), mode)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), result)
	}

	if len(result.Recipes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recipes found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tNAME\tSOURCE\tKIND")
	for _, l := range result.Recipes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID(), l.Name(), l.Source(), l.Kind())
	}
	w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d recipes (source: %s)\n", len(result.Recipes), result.Source)
	return nil
}
