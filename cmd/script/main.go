package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"themeradar/internal/logger"
	"themeradar/internal/serialize"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "screener",
	Short:         "Detect market themes among the day's movers",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath   string
	outputFormat string
	outputPath   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "screener config yaml (default $RADAR_CONFIG or config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", serialize.FormatJSON, "output format: json, csv or markdown")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "out", "o", "", "write the report to a file instead of stdout")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(fetchCmd)
}

func renderReport(report serialize.ReportJSON, format string) ([]byte, error) {
	switch format {
	case serialize.FormatJSON:
		return serialize.MarshalJSON(report)
	case serialize.FormatCsv:
		return serialize.MarshalCsv(report)
	case serialize.FormatMarkdown:
		return serialize.MarshalMarkdown(report), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func writeReport(stdout io.Writer, report serialize.ReportJSON) error {
	out, err := renderReport(report, outputFormat)
	if err != nil {
		return err
	}
	if outputPath == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}

func readJsonFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.FromContext(context.Background()).Fatal(err)
	}
}
