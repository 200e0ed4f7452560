package l3_service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"themeradar/internal/domain"
	"themeradar/internal/logger"
	"themeradar/internal/serialize"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var generatedAt = time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

func row(symbol string, prev, cur int64, volume int64) domain.SnapshotRow {
	return domain.SnapshotRow{
		Symbol:        symbol,
		Name:          symbol + " Corp",
		PreviousClose: decimal.NewFromInt(prev),
		CurrentPrice:  decimal.NewFromInt(cur),
		Volume:        volume,
	}
}

func rawNews(symbol, headline string, minute int) domain.RawNewsItem {
	return domain.RawNewsItem{
		Symbol:      symbol,
		Source:      "yahoo",
		Headline:    headline,
		PublishedAt: time.Date(2026, 3, 2, 9, minute, 0, 0, time.UTC),
	}
}

func scenarioInput() ScreenInput {
	return ScreenInput{
		Rows: []domain.SnapshotRow{
			row("A", 100, 125, 1_000_000),
			row("B", 100, 122, 300_000),
			row("C", 1000, 1199, 5_000_000),
			row("D", 100, 130, 50_000),
		},
		News: []domain.RawNewsItem{
			rawNews("A", "AI demand surges", 1),
			rawNews("A", "Company expands machine learning unit", 2),
			rawNews("A", "生成AI partnership announced", 3),
			rawNews("B", "AI software deal signed", 4),
			rawNews("C", "AI headline on a stock that did not move enough", 5),
			rawNews("D", "Company announces dividend", 6),
		},
		Config:      domain.DefaultScreenerConfig(),
		GeneratedAt: generatedAt,
	}
}

func TestScreeningService_Screen(t *testing.T) {
	ctx := context.Background()
	service := NewScreeningService()

	t.Run("leader and follower in one theme", func(t *testing.T) {
		report, err := service.Screen(ctx, scenarioInput())
		require.NoError(t, err)

		require.Len(t, report.Themes, 1)
		theme := report.Themes[0]
		require.Equal(t, "AI", theme.Label)
		require.Equal(t, 2, theme.MemberCount())
		require.Equal(t, int64(1_300_000), theme.TotalVolume)

		leader := theme.Members[0]
		require.Equal(t, "A", leader.Stock.Symbol)
		require.Equal(t, domain.RoleLeader, leader.Role)
		require.Equal(t, 1, leader.Rank)
		require.InDelta(t, 0.8, leader.Score, 1e-9)

		follower := theme.Members[1]
		require.Equal(t, "B", follower.Stock.Symbol)
		require.Equal(t, domain.RoleFollower, follower.Role)
		require.Equal(t, 2, follower.Rank)
		require.InDelta(t, 0.12+0.176+0.2/3, follower.Score, 1e-9)
	})

	t.Run("stock below the threshold is excluded everywhere", func(t *testing.T) {
		report, err := service.Screen(ctx, scenarioInput())
		require.NoError(t, err)

		// C moved 19.9%
		require.Equal(t, 3, report.Summary.TotalMovers)
		for _, g := range report.TopGainers {
			require.NotEqual(t, "C", g.Symbol)
		}
		for _, w := range report.Watchlist {
			require.NotEqual(t, "C", w.Stock.Symbol)
		}
	})

	t.Run("unmatched headline goes to the watchlist only", func(t *testing.T) {
		report, err := service.Screen(ctx, scenarioInput())
		require.NoError(t, err)

		require.Len(t, report.Watchlist, 1)
		require.Equal(t, "D", report.Watchlist[0].Stock.Symbol)
		require.Equal(t, domain.WatchlistUncategorized, report.Watchlist[0].Reason)
		require.Nil(t, report.Watchlist[0].Theme)
		require.Equal(t, 1, report.Summary.UncategorizedCount)
	})

	t.Run("summary", func(t *testing.T) {
		report, err := service.Screen(ctx, scenarioInput())
		require.NoError(t, err)

		require.Equal(t, generatedAt, report.GeneratedAt)
		require.Equal(t, 1, report.Summary.ThemesDetected)
		require.Equal(t, []string{"AI"}, report.Summary.TopThemeNames)
		// A (25%) and D (30%) are over the 23% default ceiling
		require.Equal(t, 2, report.Summary.LimitUpCount)
		require.Equal(t, 0, report.Summary.SkippedRecords)
		require.Equal(t, []string{"D", "A", "B"}, []string{
			report.TopGainers[0].Symbol,
			report.TopGainers[1].Symbol,
			report.TopGainers[2].Symbol,
		})
	})

	t.Run("weights that do not sum to one fail before processing", func(t *testing.T) {
		in := scenarioInput()
		in.Config.RankerWeights = domain.RankerWeights{
			Volume: 0.4,
			Cap:    0.2,
			Change: 0.2,
			News:   0.19,
		}

		core, logs := observer.New(zap.DebugLevel)
		report, err := service.Screen(logger.WithLogger(ctx, zap.New(core).Sugar()), in)
		require.Error(t, err)
		require.True(t, domain.IsConfigError(err))
		require.Nil(t, report)
		require.Equal(t, 0, logs.Len())
	})

	t.Run("skipped records are logged and counted", func(t *testing.T) {
		in := scenarioInput()
		in.Rows = append(in.Rows, row("BAD", 0, 100, 10))
		in.News = append(in.News, domain.RawNewsItem{
			Symbol:      "A",
			Source:      "kabutan",
			Headline:    "   ",
			PublishedAt: generatedAt,
		})

		core, logs := observer.New(zap.InfoLevel)
		report, err := service.Screen(logger.WithLogger(ctx, zap.New(core).Sugar()), in)
		require.NoError(t, err)

		require.Equal(t, 2, report.Summary.SkippedRecords)
		require.Len(t, report.Skipped, 2)
		require.Equal(t, domain.StageMoverFilter, report.Skipped[0].Stage)
		require.Equal(t, "BAD", report.Skipped[0].Symbol)
		require.Equal(t, domain.StageNewsAggregator, report.Skipped[1].Stage)

		require.Equal(t, 2, logs.FilterMessage("skipped record").Len())
		require.Equal(t, 1, logs.FilterMessage("screening complete").Len())

		// the bad news item did not reach A
		require.Len(t, report.Themes[0].Members[0].Stock.News, 3)
	})

	t.Run("same input gives the same report", func(t *testing.T) {
		first, err := service.Screen(ctx, scenarioInput())
		require.NoError(t, err)
		second, err := service.Screen(ctx, scenarioInput())
		require.NoError(t, err)

		a, err := json.Marshal(serialize.FromReport(first, "en"))
		require.NoError(t, err)
		b, err := json.Marshal(serialize.FromReport(second, "en"))
		require.NoError(t, err)
		require.JSONEq(t, string(a), string(b))
	})

	t.Run("no movers gives an empty report", func(t *testing.T) {
		in := scenarioInput()
		in.Rows = []domain.SnapshotRow{row("C", 1000, 1199, 10)}

		report, err := service.Screen(ctx, in)
		require.NoError(t, err)
		require.Empty(t, report.Themes)
		require.Empty(t, report.Watchlist)
		require.Empty(t, report.TopGainers)
		require.Equal(t, 0, report.Summary.TotalMovers)
	})
}

func TestScreeningService_Partition(t *testing.T) {
	in := ScreenInput{
		Rows: []domain.SnapshotRow{
			row("A", 100, 125, 1_000_000),
			row("B", 100, 122, 300_000),
			row("E", 100, 140, 90_000),
			row("F", 100, 121, 80_000),
			row("G", 100, 150, 70_000),
			row("H", 100, 120, 60_000),
			row("I", 100, 135, 10_000),
		},
		News: []domain.RawNewsItem{
			rawNews("A", "AI demand surges", 1),
			rawNews("B", "半導体 shortage eases", 2),
			rawNews("E", "ロケット launch success", 3),
			rawNews("F", "New satellite contract", 4),
			rawNews("G", "Chip maker raises guidance", 5),
			rawNews("H", "防衛費 boost", 6),
		},
		Config:      domain.DefaultScreenerConfig(),
		GeneratedAt: generatedAt,
	}

	report, err := NewScreeningService().Screen(context.Background(), in)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, c := range report.Themes {
		require.GreaterOrEqual(t, c.MemberCount(), 2)
		leaders := 0
		for i, m := range c.Members {
			seen[m.Stock.Symbol]++
			require.Equal(t, i+1, m.Rank)
			if m.Role == domain.RoleLeader {
				leaders++
			}
			if i > 0 {
				require.GreaterOrEqual(t, c.Members[i-1].Score, m.Score)
			}
		}
		require.Equal(t, 1, leaders)
		require.Equal(t, domain.RoleLeader, c.Members[0].Role)
	}
	for _, w := range report.Watchlist {
		seen[w.Stock.Symbol]++
	}

	require.Len(t, seen, report.Summary.TotalMovers)
	for symbol, count := range seen {
		require.Equal(t, 1, count, symbol)
	}

	// space (E, F) and semiconductors (B, G) form clusters, A and H are alone
	labels := []string{}
	for _, c := range report.Themes {
		labels = append(labels, c.Label)
	}
	require.ElementsMatch(t, []string{"space", "semiconductors"}, labels)

	reasons := map[string]domain.WatchlistReason{}
	for _, w := range report.Watchlist {
		reasons[w.Stock.Symbol] = w.Reason
	}
	require.Equal(t, map[string]domain.WatchlistReason{
		"A": domain.WatchlistBelowMinClusterSize,
		"H": domain.WatchlistBelowMinClusterSize,
		"I": domain.WatchlistUncategorized,
	}, reasons)
}
