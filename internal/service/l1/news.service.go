package l1_service

import (
	"sort"
	"strings"

	"themeradar/internal/domain"
)

// AggregateNews normalizes raw news from every source and attaches it to
// the matching movers. News for symbols that are not movers is ignored.
func AggregateNews(movers []*domain.StockMove, raw []domain.RawNewsItem, maxPerStock int) []domain.SkippedRecord {
	skipped := []domain.SkippedRecord{}
	bySymbol := map[string]*domain.StockMove{}
	for _, m := range movers {
		bySymbol[m.Symbol] = m
	}

	candidates := map[string][]domain.NewsItem{}
	for _, m := range movers {
		candidates[m.Symbol] = append(candidates[m.Symbol], m.News...)
	}

	for _, r := range raw {
		symbol := strings.TrimSpace(r.Symbol)
		if _, ok := bySymbol[symbol]; !ok {
			if symbol == "" {
				skipped = append(skipped, newsSkip(symbol, "missing symbol"))
			}
			continue
		}
		item, reason := normalizeNewsItem(r)
		if reason != "" {
			skipped = append(skipped, newsSkip(symbol, reason))
			continue
		}
		candidates[symbol] = append(candidates[symbol], item)
	}

	for _, m := range movers {
		m.News = mergeNews(candidates[m.Symbol], maxPerStock)
	}

	return skipped
}

func newsSkip(symbol, reason string) domain.SkippedRecord {
	return domain.SkippedRecord{
		Stage:  domain.StageNewsAggregator,
		Symbol: symbol,
		Reason: reason,
	}
}

func normalizeNewsItem(r domain.RawNewsItem) (domain.NewsItem, string) {
	if r.Malformed != "" {
		return domain.NewsItem{}, r.Malformed
	}
	source, ok := domain.ParseNewsSource(r.Source)
	if !ok {
		return domain.NewsItem{}, "missing news source"
	}
	headline := strings.Join(strings.Fields(r.Headline), " ")
	if headline == "" {
		return domain.NewsItem{}, "empty headline"
	}
	if r.PublishedAt.IsZero() {
		return domain.NewsItem{}, "missing published timestamp"
	}

	var category *string
	if r.RawCategory != nil {
		c := strings.TrimSpace(*r.RawCategory)
		if c != "" {
			category = &c
		}
	}

	return domain.NewsItem{
		Source:      source,
		Headline:    headline,
		PublishedAt: r.PublishedAt.UTC(),
		RawCategory: category,
	}, ""
}

func headlineKey(headline string) string {
	return strings.ToLower(strings.Join(strings.Fields(headline), " "))
}

// mergeNews drops duplicate headlines, keeping the copy from the higher
// priority source (first seen on a tie), then orders newest first
func mergeNews(items []domain.NewsItem, maxPerStock int) []domain.NewsItem {
	kept := map[string]int{}
	out := []domain.NewsItem{}
	for _, item := range items {
		key := headlineKey(item.Headline)
		if idx, ok := kept[key]; ok {
			if item.Source.Priority() < out[idx].Source.Priority() {
				out[idx] = item
			}
			continue
		}
		kept[key] = len(out)
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		if out[i].Source.Priority() != out[j].Source.Priority() {
			return out[i].Source.Priority() < out[j].Source.Priority()
		}
		return out[i].Headline < out[j].Headline
	})

	if maxPerStock > 0 && len(out) > maxPerStock {
		out = out[:maxPerStock]
	}
	return out
}
