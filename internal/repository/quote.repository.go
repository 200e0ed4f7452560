package repository

import (
	"context"
	"fmt"
	"strings"

	"themeradar/internal/domain"
	"themeradar/internal/logger"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
)

// SnapshotRepository returns the current day snapshot for a universe of
// symbols
type SnapshotRepository interface {
	GetSnapshot(ctx context.Context, symbols []string) ([]domain.SnapshotRow, error)
}

type quoteRepositoryHandler struct {
	listEquities func(symbols []string) ([]*finance.Equity, error)
	batchSize    int
}

// NewQuoteRepository fetches snapshots from the Yahoo quote endpoint
func NewQuoteRepository() SnapshotRepository {
	return quoteRepositoryHandler{
		listEquities: listYahooEquities,
		batchSize:    50,
	}
}

func listYahooEquities(symbols []string) ([]*finance.Equity, error) {
	iter := equity.List(symbols)
	out := []*finance.Equity{}
	for iter.Next() {
		out = append(out, iter.Equity())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (h quoteRepositoryHandler) GetSnapshot(ctx context.Context, symbols []string) ([]domain.SnapshotRow, error) {
	log := logger.FromContext(ctx)
	rows := []domain.SnapshotRow{}

	for start := 0; start < len(symbols); start += h.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + h.batchSize
		if end > len(symbols) {
			end = len(symbols)
		}

		equities, err := h.listEquities(symbols[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to get quotes for %d symbols: %w", end-start, err)
		}
		for _, e := range equities {
			if e == nil {
				continue
			}
			rows = append(rows, equityToRow(e))
		}
	}

	if len(rows) < len(symbols) {
		log.Warnw("quote feed returned fewer rows than requested",
			"requested", len(symbols),
			"received", len(rows),
		)
	}

	return rows, nil
}

func equityToRow(e *finance.Equity) domain.SnapshotRow {
	name := strings.TrimSpace(e.ShortName)
	if name == "" {
		name = strings.TrimSpace(e.LongName)
	}
	row := domain.SnapshotRow{
		Symbol:        e.Symbol,
		Name:          name,
		PreviousClose: decimal.NewFromFloat(e.RegularMarketPreviousClose),
		CurrentPrice:  decimal.NewFromFloat(e.RegularMarketPrice),
		Volume:        int64(e.RegularMarketVolume),
	}
	if e.MarketCap > 0 {
		mc := decimal.NewFromInt(e.MarketCap)
		row.MarketCap = &mc
	}
	return row
}
