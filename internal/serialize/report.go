package serialize

import (
	"math"
	"time"

	"themeradar/internal/domain"
)

type SummaryJSON struct {
	TotalMovers        int      `json:"total_movers"`
	ThemesDetected     int      `json:"themes_detected"`
	TopThemeNames      []string `json:"top_theme_names"`
	LimitUpCount       int      `json:"limit_up_count"`
	SkippedRecords     int      `json:"skipped_records"`
	UncategorizedCount int      `json:"uncategorized_count"`
}

type NewsJSON struct {
	Headline    string    `json:"headline"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

type RankedStockJSON struct {
	Rank      int        `json:"rank"`
	Symbol    string     `json:"symbol"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Score     float64    `json:"score"`
	ChangePct float64    `json:"change_pct"`
	Volume    int64      `json:"volume"`
	MarketCap *float64   `json:"market_cap"`
	LimitUp   bool       `json:"limit_up"`
	News      []NewsJSON `json:"news"`
}

type ThemeJSON struct {
	Name         string            `json:"name"`
	StockCount   int               `json:"stock_count"`
	TotalVolume  int64             `json:"total_volume"`
	AvgChangePct float64           `json:"avg_change_pct"`
	Stocks       []RankedStockJSON `json:"stocks"`
}

type GainerJSON struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"`
	LimitUp   bool    `json:"limit_up"`
}

type WatchlistJSON struct {
	Symbol    string     `json:"symbol"`
	Name      string     `json:"name"`
	ChangePct float64    `json:"change_pct"`
	Volume    int64      `json:"volume"`
	LimitUp   bool       `json:"limit_up"`
	Reason    string     `json:"reason"`
	Theme     *string    `json:"theme"`
	News      []NewsJSON `json:"news"`
}

type ReportJSON struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     SummaryJSON     `json:"summary"`
	TopGainers  []GainerJSON    `json:"top_gainers"`
	Themes      []ThemeJSON     `json:"themes"`
	Watchlist   []WatchlistJSON `json:"watchlist"`
}

const (
	LocaleEnglish  = "en"
	LocaleJapanese = "ja"
)

// RoleString is the only place a role becomes text
func RoleString(role domain.Role, locale string) string {
	if locale == LocaleJapanese {
		if role == domain.RoleLeader {
			return "リーダー"
		}
		return "フォロワー"
	}
	return role.String()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func newsJSON(items []domain.NewsItem, limit int) []NewsJSON {
	out := []NewsJSON{}
	for i, item := range items {
		if i >= limit {
			break
		}
		out = append(out, NewsJSON{
			Headline:    item.Headline,
			Source:      string(item.Source),
			PublishedAt: item.PublishedAt.UTC(),
		})
	}
	return out
}

func FromReport(r *domain.Report, locale string) ReportJSON {
	topThemes := append([]string{}, r.Summary.TopThemeNames...)
	out := ReportJSON{
		GeneratedAt: r.GeneratedAt.UTC(),
		Summary: SummaryJSON{
			TotalMovers:        r.Summary.TotalMovers,
			ThemesDetected:     r.Summary.ThemesDetected,
			TopThemeNames:      topThemes,
			LimitUpCount:       r.Summary.LimitUpCount,
			SkippedRecords:     r.Summary.SkippedRecords,
			UncategorizedCount: r.Summary.UncategorizedCount,
		},
		TopGainers: []GainerJSON{},
		Themes:     []ThemeJSON{},
		Watchlist:  []WatchlistJSON{},
	}

	for _, s := range r.TopGainers {
		out.TopGainers = append(out.TopGainers, GainerJSON{
			Symbol:    s.Symbol,
			Name:      s.Name,
			ChangePct: round(s.ChangePct, 2),
			Volume:    s.Volume,
			LimitUp:   s.LimitUp,
		})
	}

	for _, c := range r.Themes {
		theme := ThemeJSON{
			Name:         c.Label,
			StockCount:   c.MemberCount(),
			TotalVolume:  c.TotalVolume,
			AvgChangePct: round(c.AvgChangePct, 2),
			Stocks:       []RankedStockJSON{},
		}
		for _, m := range c.Members {
			var marketCap *float64
			if v, ok := m.Stock.MarketCapFloat(); ok {
				marketCap = &v
			}
			theme.Stocks = append(theme.Stocks, RankedStockJSON{
				Rank:      m.Rank,
				Symbol:    m.Stock.Symbol,
				Name:      m.Stock.Name,
				Role:      RoleString(m.Role, locale),
				Score:     round(m.Score, 4),
				ChangePct: round(m.Stock.ChangePct, 2),
				Volume:    m.Stock.Volume,
				MarketCap: marketCap,
				LimitUp:   m.Stock.LimitUp,
				News:      newsJSON(m.Stock.News, r.NewsPerStock),
			})
		}
		out.Themes = append(out.Themes, theme)
	}

	for _, w := range r.Watchlist {
		var theme *string
		if w.Theme != nil {
			t := *w.Theme
			theme = &t
		}
		out.Watchlist = append(out.Watchlist, WatchlistJSON{
			Symbol:    w.Stock.Symbol,
			Name:      w.Stock.Name,
			ChangePct: round(w.Stock.ChangePct, 2),
			Volume:    w.Stock.Volume,
			LimitUp:   w.Stock.LimitUp,
			Reason:    string(w.Reason),
			Theme:     theme,
			News:      newsJSON(w.Stock.News, r.NewsPerStock),
		})
	}

	return out
}
