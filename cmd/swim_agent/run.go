package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/family-swim-sf/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Refresh every pool's schedule and publish the dataset",
	Long: `Runs the full pipeline for every configured pool: document discovery -> schedule PDF selection -> cache check -> download -> tiered extraction -> publish.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath   string
	runAPIKey       string
	runDatabaseURL  string
	runOutputPath   string
	runForceRefresh bool
	runUseBrowser   bool
	runVerbose      bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().StringVarP(&runOutputPath, "output", "o", "", "Published dataset path")
	runCommand.Flags().BoolVar(&runForceRefresh, "force-refresh", false, "Re-extract every pool even when the cached schedule is current")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Allow headless browser fallback for facility pages (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputPath = runOutputPath
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	gemini, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = gemini.Close() }()

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	runner := pipeline.NewRunner(gemini, gemini, store, cfg)
	results, err := runner.RunAll(ctx, pipeline.RunOptions{
		ForceRefresh: runForceRefresh,
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pools failed", failed, len(results))
	}
	return nil
}
