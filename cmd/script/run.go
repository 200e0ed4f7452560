package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"themeradar/internal/domain"
	"themeradar/internal/repository"
	"themeradar/internal/serialize"
	l3_service "themeradar/internal/service/l3"
	"themeradar/internal/util"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Screen a saved snapshot and news file",
	Long:  `Runs the screener once over a snapshot (csv or json) and a news json file. Nothing is stored or sent.`,
	Args:  cobra.NoArgs,
	RunE:  runScreen,
}

var (
	snapshotPath   string
	newsPath       string
	generatedAtArg string
)

func init() {
	runCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot rows, .csv or .json")
	runCmd.Flags().StringVar(&newsPath, "news", "", "news items json")
	runCmd.Flags().StringVar(&generatedAtArg, "generated-at", "", "report timestamp, RFC3339 (default now)")
	runCmd.MarkFlagRequired("snapshot")
}

func loadSnapshot(path string) ([]domain.SnapshotRow, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		rows := []serialize.SnapshotRowJSON{}
		if err := readJsonFile(path, &rows); err != nil {
			return nil, err
		}
		return serialize.RowsToDomain(rows), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()
	return serialize.DecodeSnapshotCsv(f)
}

func screenerConfig() (domain.ScreenerConfig, error) {
	path := configPath
	if path == "" {
		path = util.ConfigPath()
	}
	return util.LoadScreenerConfig(path)
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := screenerConfig()
	if err != nil {
		return err
	}

	generatedAt := time.Now().UTC()
	if generatedAtArg != "" {
		generatedAt, err = time.Parse(time.RFC3339, generatedAtArg)
		if err != nil {
			return fmt.Errorf("invalid --generated-at: %w", err)
		}
	}

	rows, err := loadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	news := []domain.RawNewsItem{}
	if newsPath != "" {
		news, err = repository.LoadNewsFile(newsPath)
		if err != nil {
			return err
		}
	}

	report, err := l3_service.NewScreeningService().Screen(cmd.Context(), l3_service.ScreenInput{
		Rows:        rows,
		News:        news,
		Config:      cfg,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), serialize.FromReport(report, cfg.RoleLocale))
}
