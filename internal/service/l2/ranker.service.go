package l2_service

import (
	"sort"

	"themeradar/internal/domain"

	"github.com/montanaflynn/stats"
)

// maxNormalizer scales values against the largest one in the set, the
// way every sub-score is scaled within its own cluster
type maxNormalizer struct {
	max float64
}

func newMaxNormalizer(values []float64) maxNormalizer {
	if len(values) == 0 {
		return maxNormalizer{}
	}
	m, err := stats.Max(values)
	if err != nil || m <= 0 {
		return maxNormalizer{}
	}
	return maxNormalizer{max: m}
}

func (n maxNormalizer) norm(v float64) float64 {
	if n.max <= 0 || v <= 0 {
		return 0
	}
	return v / n.max
}

// matchedNewsCount is how many of the stock's news items back the
// cluster's theme
func matchedNewsCount(stock *domain.StockMove, theme string) int {
	for _, l := range stock.Labels {
		if l.Name == theme {
			return len(l.Evidence)
		}
	}
	return 0
}

func scoreMembers(cluster *domain.ThemeCluster, weights domain.RankerWeights) {
	volumes := []float64{}
	caps := []float64{}
	changes := []float64{}
	newsCounts := []float64{}
	totalNews := 0.0
	for _, entry := range cluster.Members {
		volumes = append(volumes, float64(entry.Stock.Volume))
		if c, ok := entry.Stock.MarketCapFloat(); ok {
			caps = append(caps, c)
		}
		changes = append(changes, entry.Stock.ChangePct)
		count := float64(matchedNewsCount(entry.Stock, cluster.Label))
		newsCounts = append(newsCounts, count)
		totalNews += count
	}

	centrality := make([]float64, len(newsCounts))
	for i, c := range newsCounts {
		if totalNews > 0 {
			centrality[i] = c / totalNews
		}
	}

	volumeNorm := newMaxNormalizer(volumes)
	capNorm := newMaxNormalizer(caps)
	changeNorm := newMaxNormalizer(changes)
	newsNorm := newMaxNormalizer(centrality)

	for i := range cluster.Members {
		entry := &cluster.Members[i]
		sub := domain.SubScores{
			VolumeNorm: volumeNorm.norm(volumes[i]),
			ChangeNorm: changeNorm.norm(changes[i]),
			NewsNorm:   newsNorm.norm(centrality[i]),
		}
		// missing market cap scores zero, never imputed
		if c, ok := entry.Stock.MarketCapFloat(); ok {
			sub.CapNorm = capNorm.norm(c)
		}
		entry.SubScores = sub
		entry.Score = weights.Volume*sub.VolumeNorm +
			weights.Cap*sub.CapNorm +
			weights.Change*sub.ChangeNorm +
			weights.News*sub.NewsNorm
	}
}

// RankCluster scores and reorders members in place. Ties on score break
// by volume desc, then symbol, so there is always a single leader.
func RankCluster(cluster *domain.ThemeCluster, weights domain.RankerWeights) {
	if len(cluster.Members) == 0 {
		return
	}
	scoreMembers(cluster, weights)

	sort.SliceStable(cluster.Members, func(i, j int) bool {
		a, b := cluster.Members[i], cluster.Members[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Stock.Volume != b.Stock.Volume {
			return a.Stock.Volume > b.Stock.Volume
		}
		return a.Stock.Symbol < b.Stock.Symbol
	})

	for i := range cluster.Members {
		cluster.Members[i].Rank = i + 1
		cluster.Members[i].Role = domain.RoleFollower
		if i == 0 {
			cluster.Members[i].Role = domain.RoleLeader
		}
	}
}

func RankClusters(clusters []domain.ThemeCluster, weights domain.RankerWeights) {
	for i := range clusters {
		RankCluster(&clusters[i], weights)
	}
}
