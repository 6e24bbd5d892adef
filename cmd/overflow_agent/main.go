// Package main provides the entry point for the overflow checker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "overflow_agent",
	Short: "Slide layout overflow checker",
	Long:  "Overflow checker drives a slide presentation in a headless browser, records layout violations reported by the in-page instrumentation, and writes an enhanced remediation report.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
