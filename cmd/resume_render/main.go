// Package main provides the entry point for the Resume Preview service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_render",
	Short: "Resume Preview rendering service",
	Long:  "Resume Preview renders résumé documents to paginated, print-faithful PDFs, either as a one-shot CLI or as a REST API with live-edit preview sessions.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
