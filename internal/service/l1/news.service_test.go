package l1_service

import (
	"testing"
	"time"

	"themeradar/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestAggregateNews(t *testing.T) {
	t1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	t.Run("dedupes, orders newest first and caps", func(t *testing.T) {
		mover := &domain.StockMove{Symbol: "AAA"}
		skipped := AggregateNews(
			[]*domain.StockMove{mover},
			[]domain.RawNewsItem{
				{Symbol: "AAA", Source: "kabutan", Headline: "AI  chip deal", PublishedAt: t1},
				{Symbol: "AAA", Source: "yahoo", Headline: "ai chip DEAL", PublishedAt: t1},
				{Symbol: "AAA", Source: "yahoo", Headline: "Earnings beat", PublishedAt: t2},
				{Symbol: "AAA", Source: "somewhere", Headline: "Old news", PublishedAt: t1.Add(-time.Hour), RawCategory: strPtr(" tech ")},
			},
			2,
		)
		require.Empty(t, skipped)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.NewsItem{
					{Source: domain.NewsSourceYahoo, Headline: "Earnings beat", PublishedAt: t2},
					{Source: domain.NewsSourceYahoo, Headline: "ai chip DEAL", PublishedAt: t1},
				},
				mover.News,
			),
		)
	})

	t.Run("unknown source maps to other and keeps category", func(t *testing.T) {
		mover := &domain.StockMove{Symbol: "AAA"}
		AggregateNews(
			[]*domain.StockMove{mover},
			[]domain.RawNewsItem{
				{Symbol: "AAA", Source: "nikkei", Headline: "Defense budget", PublishedAt: t1, RawCategory: strPtr(" politics ")},
			},
			10,
		)
		require.Len(t, mover.News, 1)
		require.Equal(t, domain.NewsSourceOther, mover.News[0].Source)
		require.Equal(t, "politics", *mover.News[0].RawCategory)
	})

	t.Run("malformed items are skipped, non movers ignored", func(t *testing.T) {
		mover := &domain.StockMove{Symbol: "AAA"}
		skipped := AggregateNews(
			[]*domain.StockMove{mover},
			[]domain.RawNewsItem{
				{Symbol: "AAA", Source: "", Headline: "no source", PublishedAt: t1},
				{Symbol: "AAA", Source: "yahoo", Headline: "   ", PublishedAt: t1},
				{Symbol: "AAA", Source: "yahoo", Headline: "no time"},
				{Symbol: "", Source: "yahoo", Headline: "no symbol", PublishedAt: t1},
				{Symbol: "ZZZ", Source: "yahoo", Headline: "not a mover", PublishedAt: t1},
			},
			10,
		)
		require.Empty(t, mover.News)
		require.NotNil(t, mover.News)
		require.Len(t, skipped, 4)
		for _, s := range skipped {
			require.Equal(t, domain.StageNewsAggregator, s.Stage)
		}
	})

	t.Run("an item that failed to decode drops alone", func(t *testing.T) {
		mover := &domain.StockMove{Symbol: "AAA"}
		skipped := AggregateNews(
			[]*domain.StockMove{mover},
			[]domain.RawNewsItem{
				{Symbol: "AAA", Source: "yahoo", Headline: "AI demand", Malformed: "malformed published_at: bad time"},
				{Symbol: "AAA", Source: "yahoo", Headline: "AI order", PublishedAt: t1},
			},
			10,
		)
		require.Len(t, mover.News, 1)
		require.Equal(t, "AI order", mover.News[0].Headline)
		require.Equal(t, []domain.SkippedRecord{{
			Stage:  domain.StageNewsAggregator,
			Symbol: "AAA",
			Reason: "malformed published_at: bad time",
		}}, skipped)
	})
}
