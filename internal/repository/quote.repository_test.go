package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piquette/finance-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestQuoteRepository_GetSnapshot(t *testing.T) {
	t.Run("batches symbols and maps equities", func(t *testing.T) {
		batches := [][]string{}
		repo := quoteRepositoryHandler{
			batchSize: 2,
			listEquities: func(symbols []string) ([]*finance.Equity, error) {
				batches = append(batches, symbols)
				out := []*finance.Equity{}
				for _, s := range symbols {
					e := &finance.Equity{}
					e.Symbol = s
					e.ShortName = s + " Corp"
					e.RegularMarketPreviousClose = 100
					e.RegularMarketPrice = 125.5
					e.RegularMarketVolume = 1000
					if s == "A" {
						e.MarketCap = 5_000_000
					}
					out = append(out, e)
				}
				return out, nil
			},
		}

		rows, err := repo.GetSnapshot(context.Background(), []string{"A", "B", "C"})
		require.NoError(t, err)
		require.Equal(t, [][]string{{"A", "B"}, {"C"}}, batches)
		require.Len(t, rows, 3)

		require.Equal(t, "A Corp", rows[0].Name)
		require.True(t, rows[0].CurrentPrice.Equal(decimal.RequireFromString("125.5")))
		require.NotNil(t, rows[0].MarketCap)
		require.True(t, rows[0].MarketCap.Equal(decimal.NewFromInt(5_000_000)))
		require.Nil(t, rows[1].MarketCap)
		require.Equal(t, int64(1000), rows[2].Volume)
	})

	t.Run("feed error", func(t *testing.T) {
		feedErr := errors.New("blocked")
		repo := quoteRepositoryHandler{
			batchSize: 10,
			listEquities: func(symbols []string) ([]*finance.Equity, error) {
				return nil, feedErr
			},
		}
		_, err := repo.GetSnapshot(context.Background(), []string{"A"})
		require.ErrorIs(t, err, feedErr)
	})
}

func TestCsvSnapshotRepository_GetSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,name,previous_close,current_price,volume,market_cap\nA,Alpha,100,125,10,\nB,Beta,100,101,20,\n"), 0o600))

	repo := NewCsvSnapshotRepository(path)

	all, err := repo.GetSnapshot(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	some, err := repo.GetSnapshot(context.Background(), []string{"B"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	require.Equal(t, "Beta", some[0].Name)
}

func TestUniverseRepository_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,name\n7203.T,Toyota\n 6758.T ,Sony\n7203.T,Toyota again\n,blank\n"), 0o600))

	members, err := NewUniverseRepository(path).List()
	require.NoError(t, err)
	require.Equal(t, []string{"7203.T", "6758.T"}, Symbols(members))
}
