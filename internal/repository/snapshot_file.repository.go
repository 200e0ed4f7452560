package repository

import (
	"context"
	"fmt"
	"os"
	"strings"

	"themeradar/internal/domain"
	"themeradar/internal/serialize"

	"github.com/gocarina/gocsv"
)

type csvSnapshotRepositoryHandler struct {
	Path string
}

// NewCsvSnapshotRepository serves a snapshot exported to csv. When
// symbols are given only those rows are returned.
func NewCsvSnapshotRepository(path string) SnapshotRepository {
	return csvSnapshotRepositoryHandler{Path: path}
}

func (h csvSnapshotRepositoryHandler) GetSnapshot(ctx context.Context, symbols []string) ([]domain.SnapshotRow, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", h.Path, err)
	}
	defer f.Close()

	rows, err := serialize.DecodeSnapshotCsv(f)
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return rows, nil
	}

	wanted := map[string]bool{}
	for _, s := range symbols {
		wanted[strings.TrimSpace(s)] = true
	}
	out := []domain.SnapshotRow{}
	for _, r := range rows {
		if wanted[strings.TrimSpace(r.Symbol)] {
			out = append(out, r)
		}
	}
	return out, nil
}

type UniverseMember struct {
	Symbol string `csv:"symbol"`
	Name   string `csv:"name"`
}

// UniverseRepository lists the symbols a scheduled run screens
type UniverseRepository interface {
	List() ([]UniverseMember, error)
}

type universeRepositoryHandler struct {
	Path string
}

func NewUniverseRepository(path string) UniverseRepository {
	return universeRepositoryHandler{Path: path}
}

func (h universeRepositoryHandler) List() ([]UniverseMember, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open universe %s: %w", h.Path, err)
	}
	defer f.Close()

	members := []UniverseMember{}
	if err := gocsv.UnmarshalFile(f, &members); err != nil {
		return nil, fmt.Errorf("failed to decode universe %s: %w", h.Path, err)
	}

	out := []UniverseMember{}
	seen := map[string]bool{}
	for _, m := range members {
		m.Symbol = strings.TrimSpace(m.Symbol)
		if m.Symbol == "" || seen[m.Symbol] {
			continue
		}
		seen[m.Symbol] = true
		out = append(out, m)
	}
	return out, nil
}

func Symbols(members []UniverseMember) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Symbol)
	}
	return out
}
