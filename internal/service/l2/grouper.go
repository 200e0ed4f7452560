package l2_service

import (
	"sort"

	"themeradar/internal/domain"

	"github.com/montanaflynn/stats"
)

type GroupResult struct {
	Clusters []domain.ThemeCluster
	// Undersized holds labeled stocks whose cluster fell below the
	// minimum size, in input order
	Undersized []*domain.StockMove
	// Uncategorized holds stocks with no theme, in input order
	Uncategorized []*domain.StockMove
}

// GroupByTheme collapses each stock to its dominant label and builds one
// cluster per label. Each stock lands in exactly one of Clusters,
// Undersized or Uncategorized.
func GroupByTheme(movers []*domain.StockMove, minClusterSize int) GroupResult {
	result := GroupResult{
		Clusters:      []domain.ThemeCluster{},
		Undersized:    []*domain.StockMove{},
		Uncategorized: []*domain.StockMove{},
	}

	order := []string{}
	byLabel := map[string][]*domain.StockMove{}
	for _, m := range movers {
		label := m.DominantLabel()
		if label.IsUncategorized() {
			result.Uncategorized = append(result.Uncategorized, m)
			continue
		}
		if _, ok := byLabel[label.Name]; !ok {
			order = append(order, label.Name)
		}
		byLabel[label.Name] = append(byLabel[label.Name], m)
	}

	undersized := map[*domain.StockMove]bool{}
	for _, name := range order {
		members := byLabel[name]
		if len(members) < minClusterSize {
			for _, m := range members {
				undersized[m] = true
			}
			continue
		}
		result.Clusters = append(result.Clusters, newCluster(name, members))
	}
	for _, m := range movers {
		if undersized[m] {
			result.Undersized = append(result.Undersized, m)
		}
	}

	SortClusters(result.Clusters)
	return result
}

func newCluster(label string, members []*domain.StockMove) domain.ThemeCluster {
	entries := make([]domain.RankedEntry, 0, len(members))
	changes := make([]float64, 0, len(members))
	var totalVolume int64
	for _, m := range members {
		entries = append(entries, domain.RankedEntry{Stock: m})
		changes = append(changes, m.ChangePct)
		totalVolume += m.Volume
	}

	// members is never empty here so Mean cannot fail
	avg, _ := stats.Mean(changes)

	return domain.ThemeCluster{
		Label:        label,
		Members:      entries,
		TotalVolume:  totalVolume,
		AvgChangePct: avg,
	}
}

// SortClusters orders clusters for presentation: total volume desc, then
// member count desc, then label
func SortClusters(clusters []domain.ThemeCluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].TotalVolume != clusters[j].TotalVolume {
			return clusters[i].TotalVolume > clusters[j].TotalVolume
		}
		if clusters[i].MemberCount() != clusters[j].MemberCount() {
			return clusters[i].MemberCount() > clusters[j].MemberCount()
		}
		return clusters[i].Label < clusters[j].Label
	})
}
