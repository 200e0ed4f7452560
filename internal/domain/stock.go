package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotRow is one raw per-stock row as delivered by the market data
// feed. Nothing in it is trusted until the mover filter has checked it.
type SnapshotRow struct {
	Symbol        string
	Name          string
	PreviousClose decimal.Decimal
	CurrentPrice  decimal.Decimal
	Volume        int64
	MarketCap     *decimal.Decimal
	// Malformed is set when a field failed to decode at the input
	// boundary. The mover filter skips the row with this reason.
	Malformed string
}

type NewsSource string

const (
	NewsSourceYahoo   NewsSource = "yahoo"
	NewsSourceKabutan NewsSource = "kabutan"
	NewsSourceOther   NewsSource = "other"
)

// newsSourceOrder is the merge priority used when the same headline
// arrives from several portals
var newsSourceOrder = []NewsSource{
	NewsSourceYahoo,
	NewsSourceKabutan,
	NewsSourceOther,
}

func ParseNewsSource(s string) (NewsSource, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return "", false
	}
	for _, src := range newsSourceOrder {
		if string(src) == trimmed {
			return src, true
		}
	}
	return NewsSourceOther, true
}

// Priority returns the merge position of the source, lower wins
func (s NewsSource) Priority() int {
	for i, src := range newsSourceOrder {
		if src == s {
			return i
		}
	}
	return len(newsSourceOrder)
}

type NewsItem struct {
	Source      NewsSource
	Headline    string
	PublishedAt time.Time
	RawCategory *string
}

// RawNewsItem is a news record before normalization. Any field may be
// missing or malformed.
type RawNewsItem struct {
	Symbol      string
	Source      string
	Headline    string
	PublishedAt time.Time
	RawCategory *string
	Malformed   string
}

// StockMove is one equity's observed state for a single run. It is
// created by the mover filter; later stages only attach news and
// theme labels.
type StockMove struct {
	Symbol        string
	Name          string
	PreviousClose decimal.Decimal
	CurrentPrice  decimal.Decimal
	ChangePct     float64
	Volume        int64
	MarketCap     *decimal.Decimal
	LimitUp       bool

	News   []NewsItem
	Labels []ThemeLabel
}

// DominantLabel is the first attached label. Labels are kept sorted by
// confidence desc, then rule priority, so index 0 is the winner.
func (s StockMove) DominantLabel() ThemeLabel {
	if len(s.Labels) == 0 {
		return UncategorizedLabel()
	}
	return s.Labels[0]
}

func (s StockMove) IsUncategorized() bool {
	return s.DominantLabel().IsUncategorized()
}

// MarketCapFloat returns the market cap as a float, with ok=false when
// the feed did not provide one
func (s StockMove) MarketCapFloat() (float64, bool) {
	if s.MarketCap == nil {
		return 0, false
	}
	return s.MarketCap.InexactFloat64(), true
}
