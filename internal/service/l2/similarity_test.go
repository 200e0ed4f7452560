package l2_service

import (
	"testing"

	"themeradar/internal/domain"

	"github.com/stretchr/testify/require"
)

func Test_tokenize(t *testing.T) {
	require.Equal(
		t,
		[]string{"merger", "talks", "with", "foo", "2026"},
		tokenize("Merger talks, with FOO! 2026"),
	)
}

func Test_tfidfVectors(t *testing.T) {
	vectors := tfidfVectors([][]string{
		{"merger", "talks"},
		{"merger", "talks"},
		{"earnings", "beat"},
	})
	require.InDelta(t, 1.0, vectors[0].dot(vectors[1]), 1e-9)
	require.InDelta(t, 0.0, vectors[0].dot(vectors[2]), 1e-9)
	require.InDelta(t, 1.0, vectors[2].dot(vectors[2]), 1e-9)
}

func TestApplySimilarityFallback(t *testing.T) {
	cfg := domain.SimilarityConfig{
		Enabled:       true,
		MinSimilarity: 0.7,
		MinSamples:    2,
	}

	t.Run("similar stocks cluster, outliers stay uncategorized", func(t *testing.T) {
		stocks := []*domain.StockMove{
			{Symbol: "X", News: news("Record order backlog for shipbuilder")},
			{Symbol: "A", News: news("Tender offer by Foo Holdings")},
			{Symbol: "B", News: news("Tender offer by Foo Holdings")},
			{Symbol: "C", News: news("Shipbuilder order backlog record")},
			{Symbol: "D", News: news("New CFO appointed")},
		}
		for _, s := range stocks {
			s.Labels = []domain.ThemeLabel{domain.UncategorizedLabel()}
		}

		ApplySimilarityFallback(stocks, cfg, 14)

		require.Equal(t, "cluster_1", stocks[0].DominantLabel().Name)
		require.Equal(t, "cluster_2", stocks[1].DominantLabel().Name)
		require.Equal(t, "cluster_2", stocks[2].DominantLabel().Name)
		require.Equal(t, "cluster_1", stocks[3].DominantLabel().Name)
		require.True(t, stocks[4].IsUncategorized())

		require.Equal(t, 14, stocks[0].DominantLabel().RuleIndex)
		require.Equal(t, 15, stocks[1].DominantLabel().RuleIndex)
		require.InDelta(t, 1.0, stocks[1].DominantLabel().Confidence, 1e-9)
	})

	t.Run("fewer stocks than min samples is a no-op", func(t *testing.T) {
		stock := &domain.StockMove{Symbol: "A", News: news("Tender offer")}
		stock.Labels = []domain.ThemeLabel{domain.UncategorizedLabel()}
		ApplySimilarityFallback([]*domain.StockMove{stock}, cfg, 14)
		require.True(t, stock.IsUncategorized())
	})
}
