package l2_service

import (
	"testing"

	"themeradar/internal/domain"

	"github.com/stretchr/testify/require"
)

func labeled(symbol string, volume int64, change float64, theme string) *domain.StockMove {
	s := &domain.StockMove{
		Symbol:    symbol,
		Volume:    volume,
		ChangePct: change,
	}
	if theme == "" {
		s.Labels = []domain.ThemeLabel{domain.UncategorizedLabel()}
	} else {
		s.Labels = []domain.ThemeLabel{{Name: theme, Confidence: 1}}
	}
	return s
}

func symbolsOf(entries []domain.RankedEntry) []string {
	out := []string{}
	for _, e := range entries {
		out = append(out, e.Stock.Symbol)
	}
	return out
}

func TestGroupByTheme(t *testing.T) {
	t.Run("every stock lands in exactly one bucket", func(t *testing.T) {
		movers := []*domain.StockMove{
			labeled("A", 100, 25, "AI"),
			labeled("B", 50, 22, "AI"),
			labeled("C", 10, 30, "defense"),
			labeled("D", 10, 30, ""),
			labeled("E", 500, 21, "space"),
			labeled("F", 400, 40, "space"),
		}
		result := GroupByTheme(movers, 2)

		require.Len(t, result.Clusters, 2)
		require.Equal(t, "space", result.Clusters[0].Label)
		require.Equal(t, "AI", result.Clusters[1].Label)
		require.Equal(t, []string{"A", "B"}, symbolsOf(result.Clusters[1].Members))
		require.Equal(t, int64(150), result.Clusters[1].TotalVolume)
		require.InDelta(t, 23.5, result.Clusters[1].AvgChangePct, 1e-9)

		require.Len(t, result.Undersized, 1)
		require.Equal(t, "C", result.Undersized[0].Symbol)
		require.Len(t, result.Uncategorized, 1)
		require.Equal(t, "D", result.Uncategorized[0].Symbol)

		seen := map[string]int{}
		for _, c := range result.Clusters {
			require.GreaterOrEqual(t, c.MemberCount(), 2)
			for _, m := range c.Members {
				seen[m.Stock.Symbol]++
			}
		}
		for _, s := range result.Undersized {
			seen[s.Symbol]++
		}
		for _, s := range result.Uncategorized {
			seen[s.Symbol]++
		}
		for _, m := range movers {
			require.Equal(t, 1, seen[m.Symbol], m.Symbol)
		}
	})

	t.Run("only the dominant label counts", func(t *testing.T) {
		a := labeled("A", 10, 25, "AI")
		a.Labels = append(a.Labels, domain.ThemeLabel{Name: "defense", Confidence: 0.5})
		b := labeled("B", 10, 25, "defense")
		result := GroupByTheme([]*domain.StockMove{a, b}, 2)
		require.Empty(t, result.Clusters)
		require.Len(t, result.Undersized, 2)
	})

	t.Run("min cluster size is respected", func(t *testing.T) {
		movers := []*domain.StockMove{
			labeled("A", 10, 25, "AI"),
			labeled("B", 10, 25, "AI"),
		}
		require.Empty(t, GroupByTheme(movers, 3).Clusters)
		require.Len(t, GroupByTheme(movers, 2).Clusters, 1)
	})
}

func TestSortClusters(t *testing.T) {
	clusterOf := func(label string, volume int64, size int) domain.ThemeCluster {
		return domain.ThemeCluster{
			Label:       label,
			TotalVolume: volume,
			Members:     make([]domain.RankedEntry, size),
		}
	}
	clusters := []domain.ThemeCluster{
		clusterOf("b", 100, 2),
		clusterOf("a", 100, 2),
		clusterOf("c", 100, 3),
		clusterOf("d", 200, 2),
	}
	SortClusters(clusters)

	labels := []string{}
	for _, c := range clusters {
		labels = append(labels, c.Label)
	}
	require.Equal(t, []string{"d", "c", "a", "b"}, labels)
}
