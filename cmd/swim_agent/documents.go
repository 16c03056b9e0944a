package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/family-swim-sf/internal/documents"
	"github.com/jonathan/family-swim-sf/internal/observability"
)

var documentsCommand = &cobra.Command{
	Use:   "documents",
	Short: "List the documents discovered on a pool's facility page",
	Long:  "Fetches a pool's facility page, lists every document it links, and marks which one the selector would pick for today.",
	RunE:  runDocumentsCmd,
}

var (
	documentsConfigPath string
	documentsPool       string
	documentsVerbose    bool
)

func init() {
	documentsCommand.Flags().StringVar(&documentsConfigPath, "config", "", "Path to config.json file")
	documentsCommand.Flags().StringVarP(&documentsPool, "pool", "p", "", "Pool name, e.g. \"Balboa Pool\" (required)")
	documentsCommand.Flags().BoolVarP(&documentsVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = documentsCommand.MarkFlagRequired("pool")

	rootCmd.AddCommand(documentsCommand)
}

func runDocumentsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(documentsConfigPath)
	if err != nil {
		return err
	}

	var facilityURL string
	for _, pool := range cfg.Pools {
		if pool.Name == documentsPool {
			facilityURL = pool.FacilityURL
			break
		}
	}
	if facilityURL == "" {
		return fmt.Errorf("unknown pool %q; configured pools: %v", documentsPool, cfg.PoolNames())
	}

	docs, err := documents.Discover(ctx, facilityURL, cfg.UseBrowser, documentsVerbose)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintDocuments(documentsPool, docs)

	selected, err := documents.Select(ctx, docs, documentsPool, cfg.PoolNames(), timeNow(cfg), nil)
	if err != nil {
		fmt.Printf("No schedule PDF selected: %v\n", err)
		return nil
	}
	fmt.Printf("Selected: %s\n  %s\n  identity %s\n", selected.Name, selected.URL, selected.Identity())
	return nil
}
