package serialize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

const (
	FormatJSON     = "json"
	FormatCsv      = "csv"
	FormatMarkdown = "markdown"
)

// reportCsvRow is one line per clustered or watchlisted stock
type reportCsvRow struct {
	Theme     string  `csv:"theme"`
	Rank      int     `csv:"rank"`
	Role      string  `csv:"role"`
	Symbol    string  `csv:"symbol"`
	Name      string  `csv:"name"`
	Score     float64 `csv:"score"`
	ChangePct float64 `csv:"change_pct"`
	Volume    int64   `csv:"volume"`
	LimitUp   bool    `csv:"limit_up"`
	Reason    string  `csv:"watchlist_reason"`
	Headline  string  `csv:"top_headline"`
}

func MarshalJSON(r ReportJSON) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return out, nil
}

func MarshalCsv(r ReportJSON) ([]byte, error) {
	rows := []reportCsvRow{}
	for _, theme := range r.Themes {
		for _, s := range theme.Stocks {
			row := reportCsvRow{
				Theme:     theme.Name,
				Rank:      s.Rank,
				Role:      s.Role,
				Symbol:    s.Symbol,
				Name:      s.Name,
				Score:     s.Score,
				ChangePct: s.ChangePct,
				Volume:    s.Volume,
				LimitUp:   s.LimitUp,
			}
			if len(s.News) > 0 {
				row.Headline = s.News[0].Headline
			}
			rows = append(rows, row)
		}
	}
	for _, w := range r.Watchlist {
		row := reportCsvRow{
			Symbol:    w.Symbol,
			Name:      w.Name,
			ChangePct: w.ChangePct,
			Volume:    w.Volume,
			LimitUp:   w.LimitUp,
			Reason:    w.Reason,
		}
		if w.Theme != nil {
			row.Theme = *w.Theme
		}
		if len(w.News) > 0 {
			row.Headline = w.News[0].Headline
		}
		rows = append(rows, row)
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report csv: %w", err)
	}
	return out, nil
}

func limitUpMark(limitUp bool) string {
	if limitUp {
		return " (limit up)"
	}
	return ""
}

// MarshalMarkdown renders the human readable digest that is also used as
// the email body source
func MarshalMarkdown(r ReportJSON) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Theme report %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "- movers: %d\n", r.Summary.TotalMovers)
	fmt.Fprintf(&b, "- themes detected: %d\n", r.Summary.ThemesDetected)
	fmt.Fprintf(&b, "- limit up: %d\n", r.Summary.LimitUpCount)
	if len(r.Summary.TopThemeNames) > 0 {
		fmt.Fprintf(&b, "- top themes: %s\n", strings.Join(r.Summary.TopThemeNames, ", "))
	}
	b.WriteString("\n")

	if len(r.TopGainers) > 0 {
		b.WriteString("## Top gainers\n\n")
		b.WriteString("| symbol | name | change % | volume |\n")
		b.WriteString("|---|---|---:|---:|\n")
		for _, g := range r.TopGainers {
			fmt.Fprintf(&b, "| %s | %s%s | %.2f | %d |\n", g.Symbol, escapeCell(g.Name), limitUpMark(g.LimitUp), g.ChangePct, g.Volume)
		}
		b.WriteString("\n")
	}

	for _, theme := range r.Themes {
		fmt.Fprintf(&b, "## %s\n\n", theme.Name)
		fmt.Fprintf(&b, "%d stocks, total volume %d, avg change %.2f%%\n\n", theme.StockCount, theme.TotalVolume, theme.AvgChangePct)
		b.WriteString("| rank | role | symbol | name | score | change % | volume |\n")
		b.WriteString("|---:|---|---|---|---:|---:|---:|\n")
		for _, s := range theme.Stocks {
			fmt.Fprintf(&b, "| %d | %s | %s | %s%s | %.4f | %.2f | %d |\n",
				s.Rank, s.Role, s.Symbol, escapeCell(s.Name), limitUpMark(s.LimitUp), s.Score, s.ChangePct, s.Volume)
		}
		b.WriteString("\n")
		for _, s := range theme.Stocks {
			for _, n := range s.News {
				fmt.Fprintf(&b, "- %s: %s (%s)\n", s.Symbol, n.Headline, n.Source)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Watchlist) > 0 {
		b.WriteString("## Watchlist\n\n")
		for _, w := range r.Watchlist {
			reason := w.Reason
			if w.Theme != nil {
				reason = fmt.Sprintf("%s, %s", reason, *w.Theme)
			}
			fmt.Fprintf(&b, "- %s %s%s %.2f%% [%s]\n", w.Symbol, w.Name, limitUpMark(w.LimitUp), w.ChangePct, reason)
		}
	}

	return b.Bytes()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
