package serialize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"themeradar/internal/domain"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// SnapshotRowJSON is a snapshot row on the wire. Prices may be json
// numbers or strings. A field that fails to decode marks the row as
// malformed instead of failing the whole payload.
type SnapshotRowJSON struct {
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	PreviousClose decimal.Decimal  `json:"previous_close"`
	CurrentPrice  decimal.Decimal  `json:"current_price"`
	Volume        int64            `json:"volume"`
	MarketCap     *decimal.Decimal `json:"market_cap"`
	Malformed     string           `json:"-"`
}

type snapshotRowWire struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	PreviousClose json.RawMessage `json:"previous_close"`
	CurrentPrice  json.RawMessage `json:"current_price"`
	Volume        json.RawMessage `json:"volume"`
	MarketCap     json.RawMessage `json:"market_cap"`
}

func (r *SnapshotRowJSON) UnmarshalJSON(data []byte) error {
	wire := snapshotRowWire{}
	errs := fieldErrors{}
	if err := json.Unmarshal(data, &wire); err != nil {
		// a type error still fills the fields that did decode
		errs.add("row", err)
	}

	cells := snapshotCsvRow{
		Symbol:        wire.Symbol,
		Name:          wire.Name,
		PreviousClose: errs.cell("previous_close", wire.PreviousClose),
		CurrentPrice:  errs.cell("current_price", wire.CurrentPrice),
		Volume:        errs.cell("volume", wire.Volume),
		MarketCap:     errs.cell("market_cap", wire.MarketCap),
	}
	row := cells.toDomain(&errs)

	*r = SnapshotRowJSON{
		Symbol:        row.Symbol,
		Name:          row.Name,
		PreviousClose: row.PreviousClose,
		CurrentPrice:  row.CurrentPrice,
		Volume:        row.Volume,
		MarketCap:     row.MarketCap,
		Malformed:     row.Malformed,
	}
	return nil
}

// RawNewsJSON is a news item on the wire. An unparseable timestamp marks
// the item as malformed so the rest of the list survives.
type RawNewsJSON struct {
	Symbol      string    `json:"symbol"`
	Source      string    `json:"source"`
	Headline    string    `json:"headline"`
	PublishedAt time.Time `json:"published_at"`
	RawCategory *string   `json:"raw_category"`
	Malformed   string    `json:"-"`
}

type rawNewsWire struct {
	Symbol      string          `json:"symbol"`
	Source      string          `json:"source"`
	Headline    string          `json:"headline"`
	PublishedAt json.RawMessage `json:"published_at"`
	RawCategory *string         `json:"raw_category"`
}

func (n *RawNewsJSON) UnmarshalJSON(data []byte) error {
	wire := rawNewsWire{}
	errs := fieldErrors{}
	if err := json.Unmarshal(data, &wire); err != nil {
		errs.add("news item", err)
	}

	var publishedAt time.Time
	if raw := bytes.TrimSpace(wire.PublishedAt); len(raw) > 0 && string(raw) != "null" {
		if err := publishedAt.UnmarshalJSON(raw); err != nil {
			errs.add("published_at", err)
			publishedAt = time.Time{}
		}
	}

	*n = RawNewsJSON{
		Symbol:      wire.Symbol,
		Source:      wire.Source,
		Headline:    wire.Headline,
		PublishedAt: publishedAt,
		RawCategory: wire.RawCategory,
		Malformed:   errs.first,
	}
	return nil
}

func (r SnapshotRowJSON) ToDomain() domain.SnapshotRow {
	return domain.SnapshotRow{
		Symbol:        r.Symbol,
		Name:          r.Name,
		PreviousClose: r.PreviousClose,
		CurrentPrice:  r.CurrentPrice,
		Volume:        r.Volume,
		MarketCap:     r.MarketCap,
		Malformed:     r.Malformed,
	}
}

func (n RawNewsJSON) ToDomain() domain.RawNewsItem {
	return domain.RawNewsItem{
		Symbol:      n.Symbol,
		Source:      n.Source,
		Headline:    n.Headline,
		PublishedAt: n.PublishedAt,
		RawCategory: n.RawCategory,
		Malformed:   n.Malformed,
	}
}

func RowsToDomain(rows []SnapshotRowJSON) []domain.SnapshotRow {
	out := make([]domain.SnapshotRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out
}

func NewsToDomain(items []RawNewsJSON) []domain.RawNewsItem {
	out := make([]domain.RawNewsItem, 0, len(items))
	for _, n := range items {
		out = append(out, n.ToDomain())
	}
	return out
}

// fieldErrors keeps the first field of a record that failed to decode
type fieldErrors struct {
	first string
}

func (f *fieldErrors) add(field string, err error) {
	if f.first == "" {
		f.first = fmt.Sprintf("malformed %s: %s", field, err)
	}
}

func (f *fieldErrors) missing(field string) {
	if f.first == "" {
		f.first = "missing " + field
	}
}

// cell turns a json scalar into cell text. null and absent are empty.
func (f *fieldErrors) cell(field string, raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		s := ""
		if err := json.Unmarshal(raw, &s); err != nil {
			f.add(field, err)
			return ""
		}
		return s
	}
	if raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9') {
		return string(raw)
	}
	f.add(field, fmt.Errorf("unexpected value %s", raw))
	return ""
}

func (f *fieldErrors) decimal(field, cell string, required bool) *decimal.Decimal {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		if required {
			f.missing(field)
		}
		return nil
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		f.add(field, err)
		return nil
	}
	return &d
}

// snapshotCsvRow keeps numeric cells as text so one malformed cell does
// not fail the whole file
type snapshotCsvRow struct {
	Symbol        string `csv:"symbol"`
	Name          string `csv:"name"`
	PreviousClose string `csv:"previous_close"`
	CurrentPrice  string `csv:"current_price"`
	Volume        string `csv:"volume"`
	MarketCap     string `csv:"market_cap"`
}

func (row snapshotCsvRow) toDomain(errs *fieldErrors) domain.SnapshotRow {
	parsed := domain.SnapshotRow{
		Symbol: strings.TrimSpace(row.Symbol),
		Name:   strings.TrimSpace(row.Name),
	}
	if d := errs.decimal("previous_close", row.PreviousClose, true); d != nil {
		parsed.PreviousClose = *d
	}
	if d := errs.decimal("current_price", row.CurrentPrice, true); d != nil {
		parsed.CurrentPrice = *d
	}
	if d := errs.decimal("volume", row.Volume, true); d != nil {
		if d.Equal(d.Truncate(0)) {
			parsed.Volume = d.IntPart()
		} else {
			errs.add("volume", fmt.Errorf("fractional share count %s", d.String()))
		}
	}
	// an empty market cap is missing, an unparseable one is malformed
	parsed.MarketCap = errs.decimal("market_cap", row.MarketCap, false)
	parsed.Malformed = errs.first
	return parsed
}

// DecodeSnapshotCsv reads snapshot rows from csv. A row with a bad cell
// is marked malformed, so it shows up as a skipped record instead of
// failing the file.
func DecodeSnapshotCsv(r io.Reader) ([]domain.SnapshotRow, error) {
	rows := []snapshotCsvRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot csv: %w", err)
	}

	out := make([]domain.SnapshotRow, 0, len(rows))
	for _, row := range rows {
		errs := fieldErrors{}
		out = append(out, row.toDomain(&errs))
	}

	return out, nil
}
