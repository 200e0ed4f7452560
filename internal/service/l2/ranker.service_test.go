package l2_service

import (
	"testing"

	"themeradar/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func withEvidence(s *domain.StockMove, count int) *domain.StockMove {
	s.Labels[0].Evidence = make([]domain.NewsItem, count)
	return s
}

func withCap(s *domain.StockMove, c int64) *domain.StockMove {
	d := decimal.NewFromInt(c)
	s.MarketCap = &d
	return s
}

func clusterFor(label string, stocks ...*domain.StockMove) domain.ThemeCluster {
	c := domain.ThemeCluster{Label: label}
	for _, s := range stocks {
		c.Members = append(c.Members, domain.RankedEntry{Stock: s})
	}
	return c
}

func TestRankCluster(t *testing.T) {
	weights := domain.DefaultRankerWeights()

	t.Run("volume and news heavy stock leads", func(t *testing.T) {
		a := withEvidence(labeled("A", 1_000_000, 25, "AI"), 3)
		b := withEvidence(labeled("B", 300_000, 22, "AI"), 1)
		cluster := clusterFor("AI", b, a)

		RankCluster(&cluster, weights)

		require.Equal(t, []string{"A", "B"}, symbolsOf(cluster.Members))
		require.Equal(t, domain.RoleLeader, cluster.Members[0].Role)
		require.Equal(t, 1, cluster.Members[0].Rank)
		require.Equal(t, domain.RoleFollower, cluster.Members[1].Role)
		require.Equal(t, 2, cluster.Members[1].Rank)
		require.InDelta(t, 0.8, cluster.Members[0].Score, 1e-9)
		require.InDelta(t, 0.12+0.176+0.2/3, cluster.Members[1].Score, 1e-9)
	})

	t.Run("normalization is relative to the cluster", func(t *testing.T) {
		a := withCap(withEvidence(labeled("A", 500, 30, "AI"), 1), 1_000)
		b := withEvidence(labeled("B", 1_000, 20, "AI"), 1)
		c := withCap(withEvidence(labeled("C", 250, 40, "AI"), 2), 4_000)
		cluster := clusterFor("AI", a, b, c)

		RankCluster(&cluster, weights)

		bySymbol := map[string]domain.RankedEntry{}
		for _, m := range cluster.Members {
			bySymbol[m.Stock.Symbol] = m
		}
		require.Equal(t, 1.0, bySymbol["B"].SubScores.VolumeNorm)
		require.Equal(t, 0.0, bySymbol["B"].SubScores.CapNorm)
		require.Equal(t, 1.0, bySymbol["C"].SubScores.CapNorm)
		require.InDelta(t, 0.25, bySymbol["A"].SubScores.CapNorm, 1e-9)
		require.Equal(t, 1.0, bySymbol["C"].SubScores.ChangeNorm)
		require.Equal(t, 1.0, bySymbol["C"].SubScores.NewsNorm)
		require.InDelta(t, 0.5, bySymbol["A"].SubScores.NewsNorm, 1e-9)
	})

	t.Run("ties break by volume then symbol", func(t *testing.T) {
		weights := domain.RankerWeights{Change: 1}
		cluster := clusterFor(
			"AI",
			labeled("C", 100, 25, "AI"),
			labeled("B", 200, 25, "AI"),
			labeled("A", 100, 25, "AI"),
		)
		RankCluster(&cluster, weights)
		require.Equal(t, []string{"B", "A", "C"}, symbolsOf(cluster.Members))
	})

	t.Run("leader outscores every follower and exactly one leader", func(t *testing.T) {
		cluster := clusterFor(
			"AI",
			withEvidence(labeled("A", 10, 21, "AI"), 1),
			withEvidence(labeled("B", 30, 35, "AI"), 2),
			withEvidence(labeled("C", 20, 28, "AI"), 5),
			withEvidence(labeled("D", 0, 20, "AI"), 0),
		)
		RankCluster(&cluster, weights)

		leaders := 0
		for i, m := range cluster.Members {
			if m.Role == domain.RoleLeader {
				leaders++
			}
			require.Equal(t, i+1, m.Rank)
			require.GreaterOrEqual(t, cluster.Members[0].Score, m.Score)
			if i > 0 {
				require.GreaterOrEqual(t, cluster.Members[i-1].Score, m.Score)
			}
		}
		require.Equal(t, 1, leaders)
	})

	t.Run("all zero inputs still produce a deterministic order", func(t *testing.T) {
		cluster := clusterFor(
			"AI",
			labeled("B", 0, 0, "AI"),
			labeled("A", 0, 0, "AI"),
		)
		RankCluster(&cluster, weights)
		require.Equal(t, []string{"A", "B"}, symbolsOf(cluster.Members))
		require.Equal(t, 0.0, cluster.Members[0].Score)
	})
}
