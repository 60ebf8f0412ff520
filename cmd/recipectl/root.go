package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"recipe-finder/internal/app"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/infrastructure/database"
	"recipe-finder/internal/pkg/common"

	"github.com/spf13/cobra"
)

var (
	jsonOutput     bool
	verbose        bool
	mealDBOverride string
	memoryDB       bool
	commandTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "recipectl",
	Short:         "recipectl - query the recipe finder sources from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write service logs to stdout and logs/app.log")
	rootCmd.PersistentFlags().StringVar(&mealDBOverride, "mealdb-url", "", "TheMealDB base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&memoryDB, "memory-db", false, "Use an empty in-memory database instead of the configured one")
	rootCmd.PersistentFlags().DurationVar(&commandTimeout, "timeout", 30*time.Second, "Overall command timeout")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(suggestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveServices 載入設定並組裝服務，呼叫端負責 Close
func resolveServices(ctx context.Context) (*app.Services, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if mealDBOverride != "" {
		cfg.MealDB.BaseURL = mealDBOverride
	}
	if verbose {
		if err := common.InitLogger(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	var opts []app.Option
	if memoryDB {
		db, err := database.OpenMemory(fmt.Sprintf("recipectl-%d", time.Now().UnixNano()))
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithDB(db))
	}

	svcs, err := app.New(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return svcs, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, commandTimeout)
}

// printJSON 以縮排 JSON 輸出
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
