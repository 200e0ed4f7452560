package l3_service

import (
	"testing"

	"themeradar/internal/domain"
	l2_service "themeradar/internal/service/l2"

	"github.com/stretchr/testify/require"
)

func mover(symbol string, change float64, theme string) *domain.StockMove {
	label := domain.UncategorizedLabel()
	if theme != "" {
		label = domain.ThemeLabel{Name: theme, Confidence: 1}
	}
	return &domain.StockMove{
		Symbol:    symbol,
		ChangePct: change,
		Volume:    100,
		Labels:    []domain.ThemeLabel{label},
	}
}

func TestAssembleReport(t *testing.T) {
	a := mover("A", 25, "AI")
	b := mover("B", 22, "AI")
	c := mover("C", 40, "space")
	d := mover("D", 25, "")
	d.LimitUp = true

	movers := []*domain.StockMove{a, b, c, d}
	groups := l2_service.GroupByTheme(movers, 2)
	l2_service.RankClusters(groups.Clusters, domain.DefaultRankerWeights())

	cfg := domain.DefaultScreenerConfig()
	cfg.TopGainerCount = 3
	cfg.TopThemeCount = 1

	report := AssembleReport(AssembleInput{
		GeneratedAt: generatedAt,
		Movers:      movers,
		Groups:      groups,
		Skipped: []domain.SkippedRecord{
			{Stage: domain.StageMoverFilter, Symbol: "X", Reason: "duplicate symbol"},
		},
		Config: cfg,
	})

	t.Run("top gainers break ties by symbol and are capped", func(t *testing.T) {
		require.Len(t, report.TopGainers, 3)
		require.Equal(t, "C", report.TopGainers[0].Symbol)
		require.Equal(t, "A", report.TopGainers[1].Symbol)
		require.Equal(t, "D", report.TopGainers[2].Symbol)
	})

	t.Run("watchlist keeps mover order with reasons", func(t *testing.T) {
		require.Len(t, report.Watchlist, 2)

		require.Equal(t, "C", report.Watchlist[0].Stock.Symbol)
		require.Equal(t, domain.WatchlistBelowMinClusterSize, report.Watchlist[0].Reason)
		require.NotNil(t, report.Watchlist[0].Theme)
		require.Equal(t, "space", *report.Watchlist[0].Theme)

		require.Equal(t, "D", report.Watchlist[1].Stock.Symbol)
		require.Equal(t, domain.WatchlistUncategorized, report.Watchlist[1].Reason)
		require.Nil(t, report.Watchlist[1].Theme)
	})

	t.Run("summary", func(t *testing.T) {
		require.Equal(t, domain.ReportSummary{
			TotalMovers:        4,
			ThemesDetected:     1,
			TopThemeNames:      []string{"AI"},
			LimitUpCount:       1,
			SkippedRecords:     1,
			UncategorizedCount: 1,
		}, report.Summary)
		require.Equal(t, cfg.NewsPerStockInReport, report.NewsPerStock)
	})
}
