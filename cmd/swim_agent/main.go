// Package main provides the entry point for the family swim schedule agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swim_agent",
	Short: "Family swim schedule extraction agent",
	Long:  "swim_agent reads each city pool's published schedule PDF, extracts the family swim windows with a vision model, and publishes the weekly dataset the map frontend consumes.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
