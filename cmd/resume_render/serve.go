package main

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-preview/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveConfig  string
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes preview sessions: live-edit updates, debounced regeneration, and one-shot PDF downloads.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Path to JSON config file")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(serveConfig)
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = cfg.Port
	}

	srv, err := server.New(server.Config{
		Port:     port,
		Debounce: time.Duration(cfg.DebounceMS) * time.Millisecond,
		Raster:   rasterOptions(cfg),
		Verbose:  serveVerbose || cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
