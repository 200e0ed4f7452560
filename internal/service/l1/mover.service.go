package l1_service

import (
	"fmt"
	"strings"

	"themeradar/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentChange is (current - previous) / previous * 100, always
// recomputed from prices rather than taken from the feed
func PercentChange(previousClose, current decimal.Decimal) float64 {
	return current.Sub(previousClose).
		Div(previousClose).
		Mul(hundred).
		InexactFloat64()
}

// FilterMovers keeps rows whose change is at least MinGainPct or that
// closed limit up. Malformed rows are dropped and reported, never fatal.
// Output keeps input order.
func FilterMovers(rows []domain.SnapshotRow, cfg domain.ScreenerConfig) ([]*domain.StockMove, []domain.SkippedRecord) {
	movers := []*domain.StockMove{}
	skipped := []domain.SkippedRecord{}
	seen := map[string]bool{}

	skip := func(symbol, reason string) {
		skipped = append(skipped, domain.SkippedRecord{
			Stage:  domain.StageMoverFilter,
			Symbol: symbol,
			Reason: reason,
		})
	}

	for _, row := range rows {
		symbol := strings.TrimSpace(row.Symbol)
		if reason := validateRow(symbol, row); reason != "" {
			skip(symbol, reason)
			continue
		}
		if seen[symbol] {
			skip(symbol, "duplicate symbol")
			continue
		}
		seen[symbol] = true

		changePct := PercentChange(row.PreviousClose, row.CurrentPrice)
		limitUp := isLimitUp(
			symbol,
			row.PreviousClose,
			row.CurrentPrice,
			changePct,
			cfg.LimitUp.DefaultCeilingPct,
			cfg.LimitUp.UseTsePriceLimits,
		)
		if changePct < cfg.MinGainPct && !limitUp {
			continue
		}

		name := strings.TrimSpace(row.Name)
		if name == "" {
			name = symbol
		}

		var marketCap *decimal.Decimal
		if row.MarketCap != nil {
			c := *row.MarketCap
			marketCap = &c
		}

		movers = append(movers, &domain.StockMove{
			Symbol:        symbol,
			Name:          name,
			PreviousClose: row.PreviousClose,
			CurrentPrice:  row.CurrentPrice,
			ChangePct:     changePct,
			Volume:        row.Volume,
			MarketCap:     marketCap,
			LimitUp:       limitUp,
			News:          []domain.NewsItem{},
		})
	}

	return movers, skipped
}

func validateRow(symbol string, row domain.SnapshotRow) string {
	if row.Malformed != "" {
		return row.Malformed
	}
	if symbol == "" {
		return "missing symbol"
	}
	if !row.PreviousClose.IsPositive() {
		return fmt.Sprintf("non-positive previous close %s", row.PreviousClose.String())
	}
	if row.CurrentPrice.IsNegative() {
		return fmt.Sprintf("negative current price %s", row.CurrentPrice.String())
	}
	if row.Volume < 0 {
		return fmt.Sprintf("negative volume %d", row.Volume)
	}
	if row.MarketCap != nil && row.MarketCap.IsNegative() {
		return fmt.Sprintf("negative market cap %s", row.MarketCap.String())
	}
	return ""
}
