package l2_service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"themeradar/internal/domain"

	"github.com/blevesearch/segment"
)

// tokenize splits text into lowercased word, number, kana and ideograph
// tokens. Punctuation and whitespace segments are dropped.
func tokenize(text string) []string {
	tokens := []string{}
	seg := segment.NewWordSegmenter(strings.NewReader(text))
	for seg.Segment() {
		if seg.Type() == segment.None {
			continue
		}
		tokens = append(tokens, strings.ToLower(seg.Text()))
	}
	// a reader over a string cannot fail, a partial token list is fine
	return tokens
}

type sparseVector map[string]float64

func (v sparseVector) dot(o sparseVector) float64 {
	if len(o) < len(v) {
		v, o = o, v
	}
	sum := 0.0
	for term, w := range v {
		sum += w * o[term]
	}
	return sum
}

// tfidfVectors builds L2 normalized tf-idf vectors with smoothed idf,
// ln((1+n)/(1+df)) + 1
func tfidfVectors(docs [][]string) []sparseVector {
	df := map[string]int{}
	for _, doc := range docs {
		seen := map[string]bool{}
		for _, term := range doc {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}

	n := float64(len(docs))
	vectors := make([]sparseVector, len(docs))
	for i, doc := range docs {
		tf := map[string]float64{}
		for _, term := range doc {
			tf[term]++
		}
		terms := make([]string, 0, len(tf))
		for term := range tf {
			terms = append(terms, term)
		}
		sort.Strings(terms)

		v := sparseVector{}
		norm := 0.0
		for _, term := range terms {
			w := tf[term] * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			v[term] = w
			norm += w * w
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for term := range v {
				v[term] /= norm
			}
		}
		vectors[i] = v
	}
	return vectors
}

// ApplySimilarityFallback clusters stocks by headline similarity,
// DBSCAN style: a core stock has at least MinSamples neighbours (itself
// included) at MinSimilarity or above. Clusters are numbered in discovery
// order and labeled cluster_N. Noise keeps the uncategorized label.
func ApplySimilarityFallback(stocks []*domain.StockMove, cfg domain.SimilarityConfig, ruleCount int) {
	if len(stocks) < cfg.MinSamples {
		return
	}

	docs := make([][]string, len(stocks))
	for i, s := range stocks {
		headlines := make([]string, 0, len(s.News))
		for _, item := range s.News {
			headlines = append(headlines, item.Headline)
		}
		docs[i] = tokenize(strings.Join(headlines, " "))
	}
	vectors := tfidfVectors(docs)

	sim := make([][]float64, len(stocks))
	neighbours := make([][]int, len(stocks))
	for i := range stocks {
		sim[i] = make([]float64, len(stocks))
		for j := range stocks {
			if i == j {
				sim[i][j] = 1
			} else {
				sim[i][j] = vectors[i].dot(vectors[j])
			}
			if len(vectors[i]) > 0 && sim[i][j] >= cfg.MinSimilarity {
				neighbours[i] = append(neighbours[i], j)
			}
		}
	}

	isCore := func(i int) bool {
		return len(neighbours[i]) >= cfg.MinSamples
	}

	const unassigned = -1
	assignment := make([]int, len(stocks))
	for i := range assignment {
		assignment[i] = unassigned
	}

	numClusters := 0
	for i := range stocks {
		if assignment[i] != unassigned || !isCore(i) {
			continue
		}
		cluster := numClusters
		numClusters++
		assignment[i] = cluster
		queue := append([]int{}, neighbours[i]...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if assignment[j] != unassigned {
				continue
			}
			assignment[j] = cluster
			if isCore(j) {
				queue = append(queue, neighbours[j]...)
			}
		}
	}

	for i, s := range stocks {
		cluster := assignment[i]
		if cluster == unassigned {
			continue
		}
		best := 0.0
		for j := range stocks {
			if j != i && assignment[j] == cluster && sim[i][j] > best {
				best = sim[i][j]
			}
		}
		s.Labels = []domain.ThemeLabel{{
			Name:       fmt.Sprintf("%s%d", domain.FallbackThemePrefix, cluster+1),
			Confidence: math.Min(best, 1),
			RuleIndex:  ruleCount + cluster,
			Evidence:   s.News,
		}}
	}
}
