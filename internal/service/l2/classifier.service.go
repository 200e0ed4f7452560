package l2_service

import (
	"sort"
	"strings"

	"themeradar/internal/domain"
)

type compiledKeyword struct {
	text  string
	ascii bool
}

type compiledRule struct {
	theme    string
	keywords []compiledKeyword
}

// RuleTable is the keyword table prepared for matching. Rule order is
// preserved exactly since it is the tie-break for ambiguous headlines.
type RuleTable struct {
	rules []compiledRule
}

func NewRuleTable(rules []domain.KeywordRule) RuleTable {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{theme: strings.TrimSpace(r.Theme)}
		for _, kw := range r.Keywords {
			text := strings.ToLower(strings.TrimSpace(kw))
			if text == "" {
				continue
			}
			cr.keywords = append(cr.keywords, compiledKeyword{
				text:  text,
				ascii: isASCII(text),
			})
		}
		compiled = append(compiled, cr)
	}
	return RuleTable{rules: compiled}
}

func (t RuleTable) Len() int {
	return len(t.rules)
}

// Match returns the index of the first rule with a keyword in the
// headline or the source's category tag
func (t RuleTable) Match(item domain.NewsItem) (int, bool) {
	texts := []string{strings.ToLower(item.Headline)}
	if item.RawCategory != nil {
		texts = append(texts, strings.ToLower(*item.RawCategory))
	}
	for i, rule := range t.rules {
		for _, kw := range rule.keywords {
			for _, text := range texts {
				if containsKeyword(text, kw) {
					return i, true
				}
			}
		}
	}
	return -1, false
}

// ClassifyStock tallies rule matches across the stock's news. Labels come
// back sorted by confidence desc, then rule index, so the first one is
// dominant. No match at all yields only the uncategorized label.
func ClassifyStock(stock *domain.StockMove, table RuleTable) []domain.ThemeLabel {
	if len(stock.News) == 0 {
		return []domain.ThemeLabel{domain.UncategorizedLabel()}
	}

	counts := map[int]int{}
	evidence := map[int][]domain.NewsItem{}
	for _, item := range stock.News {
		idx, ok := table.Match(item)
		if !ok {
			continue
		}
		counts[idx]++
		evidence[idx] = append(evidence[idx], item)
	}
	if len(counts) == 0 {
		return []domain.ThemeLabel{domain.UncategorizedLabel()}
	}

	total := float64(len(stock.News))
	labels := make([]domain.ThemeLabel, 0, len(counts))
	for idx, count := range counts {
		labels = append(labels, domain.ThemeLabel{
			Name:       table.rules[idx].theme,
			Confidence: float64(count) / total,
			RuleIndex:  idx,
			Evidence:   evidence[idx],
		})
	}
	sort.Slice(labels, func(i, j int) bool {
		ci, cj := counts[labels[i].RuleIndex], counts[labels[j].RuleIndex]
		if ci != cj {
			return ci > cj
		}
		return labels[i].RuleIndex < labels[j].RuleIndex
	})
	return labels
}

// ClassifyAll attaches labels to every mover, then gives uncategorized
// movers a second chance through similarity clustering when enabled
func ClassifyAll(movers []*domain.StockMove, cfg domain.ScreenerConfig) {
	table := NewRuleTable(cfg.KeywordRules)
	for _, m := range movers {
		m.Labels = ClassifyStock(m, table)
	}

	if cfg.SimilarityFallback.Enabled {
		uncategorized := []*domain.StockMove{}
		for _, m := range movers {
			if m.IsUncategorized() && len(m.News) > 0 {
				uncategorized = append(uncategorized, m)
			}
		}
		ApplySimilarityFallback(uncategorized, cfg.SimilarityFallback, table.Len())
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isASCIIAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// containsKeyword does a substring search. ASCII keywords must also sit
// on token boundaries so "ai" does not fire inside "said".
func containsKeyword(text string, kw compiledKeyword) bool {
	if !kw.ascii {
		return strings.Contains(text, kw.text)
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], kw.text)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(kw.text)
		leftOk := start == 0 || !isASCIIAlnum(text[start-1])
		rightOk := end == len(text) || !isASCIIAlnum(text[end])
		if leftOk && rightOk {
			return true
		}
		offset = start + 1
	}
}
