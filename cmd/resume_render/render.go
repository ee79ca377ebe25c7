package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-preview/internal/download"
	"github.com/jonathan/resume-preview/internal/pipeline"
	"github.com/jonathan/resume-preview/internal/raster"
	"github.com/jonathan/resume-preview/internal/schemas"
	"github.com/jonathan/resume-preview/internal/types"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a résumé JSON file to a PDF",
	Long:  "Runs the full pipeline once: renders the résumé to HTML, captures it in a headless browser, paginates to Letter pages, and writes the assembled PDF.",
	RunE:  runRender,
}

var (
	renderInputFile  string
	renderOutputFile string
	renderTemplate   string
	renderFontSize   int
	renderAccent     string
	renderConfigFile string
	renderVerbose    bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to résumé JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output PDF (default: derived from the résumé name)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template ID override")
	renderCmd.Flags().IntVar(&renderFontSize, "font-size", 0, "Base font size in points")
	renderCmd.Flags().StringVar(&renderAccent, "accent", "", "Accent color (hex)")
	renderCmd.Flags().StringVarP(&renderConfigFile, "config", "c", "", "Path to JSON config file")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = renderCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(renderConfigFile)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(renderInputFile)
	if err != nil {
		return fmt.Errorf("failed to read résumé file: %w", err)
	}
	if err := schemas.ValidateResumeJSON(raw); err != nil {
		return fmt.Errorf("invalid résumé: %w", err)
	}

	var content types.ResumeContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return fmt.Errorf("failed to unmarshal résumé JSON: %w", err)
	}
	if renderTemplate != "" {
		content.TemplateID = renderTemplate
	}

	settings := types.DefaultRenderSettings()
	if renderFontSize > 0 {
		settings.FontSize = renderFontSize
	}
	if renderAccent != "" {
		settings.AccentColor = renderAccent
	}

	opts := rasterOptions(cfg)
	verbose := renderVerbose || cfg.Verbose
	gen := pipeline.New(raster.NewChromeCapturer(opts), opts, pipeline.WithVerbose(verbose))

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	blob, pages, err := gen.Generate(ctx, &content, settings)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	outputFile := renderOutputFile
	if outputFile == "" {
		outputFile = download.Filename(&content)
	}
	if err := os.WriteFile(outputFile, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fmt.Printf("Wrote %s (%d page(s), %d bytes)\n", outputFile, pages, len(blob))
	return nil
}
