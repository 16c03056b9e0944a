package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/family-swim-sf/internal/config"
	"github.com/jonathan/family-swim-sf/internal/extraction"
	"github.com/jonathan/family-swim-sf/internal/observability"
	"github.com/jonathan/family-swim-sf/internal/pipeline"
	"github.com/jonathan/family-swim-sf/internal/schedule"
)

var extractCommand = &cobra.Command{
	Use:   "extract",
	Short: "Extract one pool's weekly schedule",
	Long: `Runs the tiered extraction for a single pool and prints the resulting week as JSON.

With --pdf the discovery and selection steps are skipped and the given file is extracted directly; nothing is cached in that mode.`,
	RunE: runExtractCmd,
}

var (
	extractConfigPath   string
	extractPool         string
	extractPDFPath      string
	extractAPIKey       string
	extractForceRefresh bool
	extractVerbose      bool
)

func init() {
	extractCommand.Flags().StringVar(&extractConfigPath, "config", "", "Path to config.json file")
	extractCommand.Flags().StringVarP(&extractPool, "pool", "p", "", "Pool name, e.g. \"Balboa Pool\" (required)")
	extractCommand.Flags().StringVar(&extractPDFPath, "pdf", "", "Extract this local PDF instead of discovering one")
	extractCommand.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	extractCommand.Flags().BoolVar(&extractForceRefresh, "force-refresh", false, "Re-extract even when the cached schedule is current")
	extractCommand.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = extractCommand.MarkFlagRequired("pool")

	rootCmd.AddCommand(extractCommand)
}

func runExtractCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(extractConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = extractAPIKey
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = extractVerbose
	}

	var poolCfg *config.Pool
	for i := range cfg.Pools {
		if cfg.Pools[i].Name == extractPool {
			poolCfg = &cfg.Pools[i]
			break
		}
	}
	if poolCfg == nil {
		return fmt.Errorf("unknown pool %q; configured pools: %v", extractPool, cfg.PoolNames())
	}

	gemini, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = gemini.Close() }()

	var week schedule.WeekSchedule
	if extractPDFPath != "" {
		controller := extraction.NewController(gemini, extraction.WithVerbose(cfg.Verbose))
		result, report, err := controller.ExtractWeek(ctx, extraction.PoolRequest{
			Pool:           poolCfg.Name,
			PDFPath:        extractPDFPath,
			SecretSwimNote: schedule.NoteKind(poolCfg.SecretSwimNote),
		})
		if cfg.Verbose {
			observability.NewPrinter(os.Stdout).PrintExtractionReport(report)
		}
		if err != nil {
			return err
		}
		week = result
	} else {
		store, closeStore, err := newStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		runner := pipeline.NewRunner(gemini, gemini, store, cfg)
		result := runner.RunPool(ctx, *poolCfg, timeNow(cfg), extractForceRefresh)
		if result.Err != nil {
			return result.Err
		}
		week = result.Week
	}

	encoded, err := json.MarshalIndent(week, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
