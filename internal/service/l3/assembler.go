package l3_service

import (
	"sort"
	"time"

	"themeradar/internal/domain"
	l2_service "themeradar/internal/service/l2"
)

type AssembleInput struct {
	GeneratedAt time.Time
	Movers      []*domain.StockMove
	Groups      l2_service.GroupResult
	Skipped     []domain.SkippedRecord
	Config      domain.ScreenerConfig
}

// AssembleReport is a pure reshaping step. Cluster order and member
// order are copied through untouched.
func AssembleReport(in AssembleInput) *domain.Report {
	clusters := make([]domain.ThemeCluster, len(in.Groups.Clusters))
	copy(clusters, in.Groups.Clusters)

	topThemes := []string{}
	for i := 0; i < len(clusters) && i < in.Config.TopThemeCount; i++ {
		topThemes = append(topThemes, clusters[i].Label)
	}

	limitUpCount := 0
	for _, m := range in.Movers {
		if m.LimitUp {
			limitUpCount++
		}
	}

	skipped := make([]domain.SkippedRecord, len(in.Skipped))
	copy(skipped, in.Skipped)

	return &domain.Report{
		GeneratedAt: in.GeneratedAt.UTC(),
		Summary: domain.ReportSummary{
			TotalMovers:        len(in.Movers),
			ThemesDetected:     len(clusters),
			TopThemeNames:      topThemes,
			LimitUpCount:       limitUpCount,
			SkippedRecords:     len(skipped),
			UncategorizedCount: len(in.Groups.Uncategorized),
		},
		TopGainers:   topGainers(in.Movers, in.Config.TopGainerCount),
		Themes:       clusters,
		Watchlist:    buildWatchlist(in.Movers, in.Groups),
		Skipped:      skipped,
		NewsPerStock: in.Config.NewsPerStockInReport,
	}
}

func topGainers(movers []*domain.StockMove, n int) []*domain.StockMove {
	sorted := make([]*domain.StockMove, len(movers))
	copy(sorted, movers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ChangePct != sorted[j].ChangePct {
			return sorted[i].ChangePct > sorted[j].ChangePct
		}
		return sorted[i].Symbol < sorted[j].Symbol
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// buildWatchlist lists every mover that is not in an emitted cluster, in
// mover order
func buildWatchlist(movers []*domain.StockMove, groups l2_service.GroupResult) []domain.WatchlistEntry {
	reasons := map[*domain.StockMove]domain.WatchlistReason{}
	for _, s := range groups.Uncategorized {
		reasons[s] = domain.WatchlistUncategorized
	}
	for _, s := range groups.Undersized {
		reasons[s] = domain.WatchlistBelowMinClusterSize
	}

	out := []domain.WatchlistEntry{}
	for _, m := range movers {
		reason, ok := reasons[m]
		if !ok {
			continue
		}
		entry := domain.WatchlistEntry{
			Stock:  m,
			Reason: reason,
		}
		if reason == domain.WatchlistBelowMinClusterSize {
			theme := m.DominantLabel().Name
			entry.Theme = &theme
		}
		out = append(out, entry)
	}
	return out
}
