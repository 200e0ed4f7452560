package domain

import "time"

type WatchlistReason string

const (
	WatchlistUncategorized       WatchlistReason = "uncategorized"
	WatchlistBelowMinClusterSize WatchlistReason = "below_min_cluster_size"
)

type WatchlistEntry struct {
	Stock  *StockMove
	Reason WatchlistReason
	// Theme is set when the stock had a label but its cluster was too
	// small to emit
	Theme *string
}

type ReportSummary struct {
	TotalMovers        int
	ThemesDetected     int
	TopThemeNames      []string
	LimitUpCount       int
	SkippedRecords     int
	UncategorizedCount int
}

// Report is the output of one screening pass. Clusters are already in
// presentation order and members in rank order.
type Report struct {
	GeneratedAt time.Time
	Summary     ReportSummary
	TopGainers  []*StockMove
	Themes      []ThemeCluster
	Watchlist   []WatchlistEntry
	Skipped     []SkippedRecord

	// NewsPerStock caps the news shown per stock when rendered
	NewsPerStock int
}
