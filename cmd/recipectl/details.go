package main

import (
	"fmt"

	"recipe-finder/internal/core/recipe"

	"github.com/spf13/cobra"
)

var detailsSource string

var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Show the full recipe for a public API id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetails,
}

func init() {
	detailsCmd.Flags().StringVar(&detailsSource, "source", string(recipe.SourcePublicAPI), "Recipe source")
}

func runDetails(cmd *cobra.Command, args []string) error {
	source, ok := recipe.ParseSource(detailsSource)
	if !ok {
		return fmt.Errorf("unknown source %q", detailsSource)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	svcs, err := resolveServices(ctx)
	if err != nil {
		return err
	}
	defer svcs.Close()

	r, err := svcs.Search.Details(ctx, args[0], source)
	if err != nil {
		return fmt.Errorf("details: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"recipe": r})
	}
	if r == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Recipe not found.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", r.Name, r.ID)
	fmt.Fprintf(out, "Category: %s  Area: %s\n\n", orDash(r.Category), orDash(r.Area))
	fmt.Fprintln(out, "Ingredients:")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(out, "  - %s %s\n", ing.Measure, ing.Name)
	}
	fmt.Fprintln(out, "\nSteps:")
	for i, step := range r.Steps() {
		fmt.Fprintf(out, "  %d. %s\n", i+1, step)
	}
	return nil
}
