package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial query>",
	Short: "Ask the AI to complete a search query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	svcs, err := resolveServices(ctx)
	if err != nil {
		return err
	}
	defer svcs.Close()

	suggestion := svcs.Suggestions.Suggest(ctx, strings.Join(args, " "))
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{"suggestion": suggestion})
	}
	if suggestion == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No suggestion.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), suggestion)
	return nil
}
