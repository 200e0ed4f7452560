package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"themeradar/internal/db/models/postgres/public/model"
	"themeradar/internal/db/models/postgres/public/table"
	"themeradar/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

// ReportRunRepository stores finished screening runs. Payload holds the
// rendered report json.
type ReportRunRepository interface {
	Add(tx *sql.Tx, rr model.ReportRun) (*model.ReportRun, error)
	Get(id uuid.UUID) (*model.ReportRun, error)
	Latest() (*model.ReportRun, error)
	List(limit int) ([]model.ReportRun, error)
}

type reportRunRepositoryHandler struct {
	Db *sql.DB
}

func NewReportRunRepository(db *sql.DB) ReportRunRepository {
	return reportRunRepositoryHandler{Db: db}
}

func (h reportRunRepositoryHandler) Add(tx *sql.Tx, rr model.ReportRun) (*model.ReportRun, error) {
	rr.CreatedAt = time.Now().UTC()

	query := table.ReportRun.
		INSERT(
			table.ReportRun.MutableColumns,
		).
		MODEL(rr).
		RETURNING(table.ReportRun.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.ReportRun{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert report run: %w", err)
	}

	return &out, nil
}

func (h reportRunRepositoryHandler) Get(id uuid.UUID) (*model.ReportRun, error) {
	query := table.ReportRun.
		SELECT(table.ReportRun.AllColumns).
		WHERE(table.ReportRun.ReportRunID.EQ(postgres.UUID(id)))

	result := model.ReportRun{}
	err := query.Query(h.Db, &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, domain.ErrNoReport
	} else if err != nil {
		return nil, fmt.Errorf("failed to get report run %s: %w", id.String(), err)
	}

	return &result, nil
}

func (h reportRunRepositoryHandler) Latest() (*model.ReportRun, error) {
	query := table.ReportRun.
		SELECT(table.ReportRun.AllColumns).
		ORDER_BY(
			table.ReportRun.GeneratedAt.DESC(),
			table.ReportRun.CreatedAt.DESC(),
		).
		LIMIT(1)

	result := model.ReportRun{}
	err := query.Query(h.Db, &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, domain.ErrNoReport
	} else if err != nil {
		return nil, fmt.Errorf("failed to get latest report run: %w", err)
	}

	return &result, nil
}

// List omits the payload column
func (h reportRunRepositoryHandler) List(limit int) ([]model.ReportRun, error) {
	query := table.ReportRun.
		SELECT(table.ReportRun.AllColumns.Except(table.ReportRun.Payload)).
		ORDER_BY(
			table.ReportRun.GeneratedAt.DESC(),
			table.ReportRun.CreatedAt.DESC(),
		).
		LIMIT(int64(limit))

	result := []model.ReportRun{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list report runs: %w", err)
	}

	return result, nil
}

type memoryReportRunRepositoryHandler struct {
	mu   sync.RWMutex
	runs []model.ReportRun
}

// NewMemoryReportRunRepository keeps runs in process, for the CLI and
// for deployments without a database
func NewMemoryReportRunRepository() ReportRunRepository {
	return &memoryReportRunRepositoryHandler{runs: []model.ReportRun{}}
}

func (h *memoryReportRunRepositoryHandler) Add(tx *sql.Tx, rr model.ReportRun) (*model.ReportRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rr.ReportRunID == uuid.Nil {
		rr.ReportRunID = uuid.New()
	}
	rr.CreatedAt = time.Now().UTC()
	h.runs = append(h.runs, rr)

	out := rr
	return &out, nil
}

func (h *memoryReportRunRepositoryHandler) Get(id uuid.UUID) (*model.ReportRun, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, rr := range h.runs {
		if rr.ReportRunID == id {
			out := rr
			return &out, nil
		}
	}
	return nil, domain.ErrNoReport
}

func (h *memoryReportRunRepositoryHandler) sorted() []model.ReportRun {
	// newest insert first, so equal generated_at resolves to the latest run
	out := make([]model.ReportRun, 0, len(h.runs))
	for i := len(h.runs) - 1; i >= 0; i-- {
		out = append(out, h.runs[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out
}

func (h *memoryReportRunRepositoryHandler) Latest() (*model.ReportRun, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	runs := h.sorted()
	if len(runs) == 0 {
		return nil, domain.ErrNoReport
	}
	return &runs[0], nil
}

func (h *memoryReportRunRepositoryHandler) List(limit int) ([]model.ReportRun, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	runs := h.sorted()
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	for i := range runs {
		runs[i].Payload = ""
	}
	return runs, nil
}
