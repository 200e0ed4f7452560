package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"themeradar/internal/db/models/postgres/public/model"
	"themeradar/internal/domain"
	"themeradar/internal/logger"
	"themeradar/internal/repository"
	"themeradar/internal/serialize"
	"themeradar/internal/service"
	l1_service "themeradar/internal/service/l1"
	l3_service "themeradar/internal/service/l3"

	"github.com/google/uuid"
)

// ReportBroadcaster pushes a finished run to live subscribers
type ReportBroadcaster interface {
	BroadcastRun(run RunSummary, report serialize.ReportJSON)
}

// ScreeningApp runs one end to end screening: fetch the snapshot and
// news, screen, store the report, then notify and broadcast.
type ScreeningApp interface {
	Run(ctx context.Context, in RunInput) (*RunResult, error)
}

type RunInput struct {
	// Symbols is the universe to fetch. Ignored when Rows is set.
	Symbols []string
	Rows    []domain.SnapshotRow
	// News skips the news fetch when non-nil
	News        []domain.RawNewsItem
	Config      *domain.ScreenerConfig
	GeneratedAt time.Time
	Notify      bool
}

type RunSummary struct {
	ReportRunID    uuid.UUID `json:"report_run_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	CreatedAt      time.Time `json:"created_at"`
	TotalMovers    int       `json:"total_movers"`
	ThemesDetected int       `json:"themes_detected"`
	LimitUpCount   int       `json:"limit_up_count"`
	SkippedRecords int       `json:"skipped_records"`
	TopThemes      []string  `json:"top_themes"`
}

type RunResult struct {
	Run    RunSummary
	Report serialize.ReportJSON
}

func SummaryFromModel(rr model.ReportRun) RunSummary {
	topThemes := []string{}
	if rr.TopThemes != "" {
		topThemes = strings.Split(rr.TopThemes, ",")
	}
	return RunSummary{
		ReportRunID:    rr.ReportRunID,
		GeneratedAt:    rr.GeneratedAt.UTC(),
		CreatedAt:      rr.CreatedAt.UTC(),
		TotalMovers:    int(rr.TotalMovers),
		ThemesDetected: int(rr.ThemesDetected),
		LimitUpCount:   int(rr.LimitUpCount),
		SkippedRecords: int(rr.SkippedRecords),
		TopThemes:      topThemes,
	}
}

type screeningAppHandler struct {
	ScreeningService    l3_service.ScreeningService
	NotificationService service.NotificationService
	SnapshotRepository  repository.SnapshotRepository
	NewsRepository      repository.NewsRepository
	ReportRunRepository repository.ReportRunRepository
	Broadcaster         ReportBroadcaster

	Config       domain.ScreenerConfig
	NotifyEmails []string
	NewsWorkers  int
	Now          func() time.Time
}

type ScreeningAppOptions struct {
	Config       domain.ScreenerConfig
	NotifyEmails []string
	NewsWorkers  int
}

func NewScreeningApp(
	screeningService l3_service.ScreeningService,
	notificationService service.NotificationService,
	snapshotRepository repository.SnapshotRepository,
	newsRepository repository.NewsRepository,
	reportRunRepository repository.ReportRunRepository,
	broadcaster ReportBroadcaster,
	opts ScreeningAppOptions,
) ScreeningApp {
	if opts.NewsWorkers <= 0 {
		opts.NewsWorkers = 10
	}
	return &screeningAppHandler{
		ScreeningService:    screeningService,
		NotificationService: notificationService,
		SnapshotRepository:  snapshotRepository,
		NewsRepository:      newsRepository,
		ReportRunRepository: reportRunRepository,
		Broadcaster:         broadcaster,
		Config:              opts.Config,
		NotifyEmails:        opts.NotifyEmails,
		NewsWorkers:         opts.NewsWorkers,
		Now:                 time.Now,
	}
}

func (h *screeningAppHandler) Run(ctx context.Context, in RunInput) (*RunResult, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	cfg := h.Config
	if in.Config != nil {
		cfg = *in.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate screener config: %w", err)
	}

	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = h.Now()
	}

	rows := in.Rows
	if rows == nil {
		_, endSpan := profile.StartNewSpan("fetch snapshot")
		fetched, err := h.SnapshotRepository.GetSnapshot(ctx, in.Symbols)
		endSpan()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
		}
		rows = fetched
	}

	news := in.News
	if news == nil {
		// only movers get news, so fetch for the candidates alone
		candidates, _ := l1_service.FilterMovers(rows, cfg)
		symbols := make([]string, 0, len(candidates))
		for _, c := range candidates {
			symbols = append(symbols, c.Symbol)
		}

		_, endSpan := profile.StartNewSpan("fetch news")
		news = h.fetchNews(ctx, symbols)
		endSpan()
	}

	span, endSpan := profile.StartNewSpan("screen")
	subProfile, endSubProfile := span.NewSubProfile()
	report, err := h.ScreeningService.Screen(domain.ContextWithProfile(ctx, subProfile), l3_service.ScreenInput{
		Rows:        rows,
		News:        news,
		Config:      cfg,
		GeneratedAt: generatedAt,
	})
	endSubProfile()
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to screen snapshot: %w", err)
	}

	out := serialize.FromReport(report, cfg.RoleLocale)
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	_, endSpan = profile.StartNewSpan("store report")
	stored, err := h.ReportRunRepository.Add(nil, model.ReportRun{
		GeneratedAt:    report.GeneratedAt,
		TotalMovers:    int32(report.Summary.TotalMovers),
		ThemesDetected: int32(report.Summary.ThemesDetected),
		LimitUpCount:   int32(report.Summary.LimitUpCount),
		SkippedRecords: int32(report.Summary.SkippedRecords),
		TopThemes:      strings.Join(report.Summary.TopThemeNames, ","),
		Payload:        string(payload),
	})
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to store report run: %w", err)
	}

	result := &RunResult{
		Run:    SummaryFromModel(*stored),
		Report: out,
	}

	// delivery failures are logged, the run itself already succeeded
	if in.Notify && h.NotificationService != nil && len(h.NotifyEmails) > 0 {
		_, endSpan = profile.StartNewSpan("notify")
		if err := h.NotificationService.SendReport(ctx, h.NotifyEmails, out); err != nil {
			log.Errorw("failed to notify", "reportRunId", stored.ReportRunID, "error", err)
		}
		endSpan()
	}
	if h.Broadcaster != nil {
		h.Broadcaster.BroadcastRun(result.Run, out)
	}

	log.Infow("screening run stored",
		"reportRunId", stored.ReportRunID,
		"themes", result.Run.TopThemes,
		"spans", profile.ElapsedByName(),
	)

	return result, nil
}

// fetchNews pulls news for every symbol on a fixed pool of workers. A
// failed symbol is logged and simply has no news.
func (h *screeningAppHandler) fetchNews(ctx context.Context, symbols []string) []domain.RawNewsItem {
	log := logger.FromContext(ctx)

	inputCh := make(chan string, len(symbols))
	for _, s := range symbols {
		inputCh <- s
	}
	close(inputCh)

	results := make(map[string][]domain.RawNewsItem, len(symbols))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < h.NewsWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case symbol, ok := <-inputCh:
					if !ok {
						return
					}
					items, err := h.NewsRepository.GetNews(ctx, symbol)
					if err != nil {
						log.Warnw("failed to fetch news", "symbol", symbol, "error", err)
						continue
					}
					mu.Lock()
					results[symbol] = items
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// reassemble in symbol order so the run does not depend on scheduling
	out := []domain.RawNewsItem{}
	for _, s := range symbols {
		out = append(out, results[s]...)
	}
	return out
}
