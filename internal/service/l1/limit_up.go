package l1_service

import (
	"strings"

	"github.com/shopspring/decimal"
)

type priceLimitBand struct {
	below int64
	limit int64
}

// tsePriceLimits is the Tokyo Stock Exchange daily price limit table,
// yen limit keyed by the upper bound (exclusive) of previous close
var tsePriceLimits = []priceLimitBand{
	{below: 100, limit: 30},
	{below: 200, limit: 50},
	{below: 500, limit: 80},
	{below: 700, limit: 100},
	{below: 1_000, limit: 150},
	{below: 1_500, limit: 300},
	{below: 2_000, limit: 400},
	{below: 3_000, limit: 500},
	{below: 5_000, limit: 700},
	{below: 7_000, limit: 1_000},
	{below: 10_000, limit: 1_500},
	{below: 15_000, limit: 3_000},
	{below: 20_000, limit: 4_000},
	{below: 30_000, limit: 5_000},
	{below: 50_000, limit: 7_000},
	{below: 70_000, limit: 10_000},
	{below: 100_000, limit: 15_000},
	{below: 150_000, limit: 30_000},
	{below: 200_000, limit: 40_000},
	{below: 300_000, limit: 50_000},
	{below: 500_000, limit: 70_000},
	{below: 700_000, limit: 100_000},
	{below: 1_000_000, limit: 150_000},
	{below: 1_500_000, limit: 300_000},
	{below: 2_000_000, limit: 400_000},
	{below: 3_000_000, limit: 500_000},
	{below: 5_000_000, limit: 700_000},
	{below: 7_000_000, limit: 1_000_000},
	{below: 10_000_000, limit: 1_500_000},
	{below: 15_000_000, limit: 3_000_000},
	{below: 20_000_000, limit: 4_000_000},
	{below: 30_000_000, limit: 5_000_000},
	{below: 50_000_000, limit: 7_000_000},
}

const tseTopLimit = 10_000_000

func isTseSymbol(symbol string) bool {
	return strings.HasSuffix(strings.ToUpper(symbol), ".T")
}

func tseDailyLimit(previousClose decimal.Decimal) decimal.Decimal {
	for _, band := range tsePriceLimits {
		if previousClose.LessThan(decimal.NewFromInt(band.below)) {
			return decimal.NewFromInt(band.limit)
		}
	}
	return decimal.NewFromInt(tseTopLimit)
}

func isLimitUp(symbol string, previousClose, currentPrice decimal.Decimal, changePct, defaultCeilingPct float64, useTse bool) bool {
	if useTse && isTseSymbol(symbol) {
		return currentPrice.GreaterThanOrEqual(previousClose.Add(tseDailyLimit(previousClose)))
	}
	return changePct >= defaultCeilingPct
}
