package l3_service

import (
	"context"
	"fmt"
	"time"

	"themeradar/internal/domain"
	"themeradar/internal/logger"
	l1_service "themeradar/internal/service/l1"
	l2_service "themeradar/internal/service/l2"
)

// ScreeningService runs the theme pipeline once over an input snapshot:
// mover filter, news aggregation, classification, grouping, ranking and
// report assembly. It does no I/O; every input is passed in.
type ScreeningService interface {
	Screen(ctx context.Context, in ScreenInput) (*domain.Report, error)
}

type ScreenInput struct {
	Rows        []domain.SnapshotRow
	News        []domain.RawNewsItem
	Config      domain.ScreenerConfig
	GeneratedAt time.Time
}

type screeningServiceHandler struct{}

func NewScreeningService() ScreeningService {
	return screeningServiceHandler{}
}

func (h screeningServiceHandler) Screen(ctx context.Context, in ScreenInput) (*domain.Report, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	if err := in.Config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate screener config: %w", err)
	}

	_, endSpan := profile.StartNewSpan("filter movers")
	movers, skipped := l1_service.FilterMovers(in.Rows, in.Config)
	endSpan()

	_, endSpan = profile.StartNewSpan("aggregate news")
	skipped = append(skipped, l1_service.AggregateNews(movers, in.News, in.Config.MaxNewsPerStock)...)
	endSpan()

	for _, s := range skipped {
		log.Warnw("skipped record",
			"stage", s.Stage,
			"symbol", s.Symbol,
			"reason", s.Reason,
		)
	}

	_, endSpan = profile.StartNewSpan("classify themes")
	l2_service.ClassifyAll(movers, in.Config)
	endSpan()

	_, endSpan = profile.StartNewSpan("group and rank")
	groups := l2_service.GroupByTheme(movers, in.Config.MinClusterSize)
	l2_service.RankClusters(groups.Clusters, in.Config.RankerWeights)
	endSpan()

	_, endSpan = profile.StartNewSpan("assemble report")
	report := AssembleReport(AssembleInput{
		GeneratedAt: in.GeneratedAt,
		Movers:      movers,
		Groups:      groups,
		Skipped:     skipped,
		Config:      in.Config,
	})
	endSpan()

	log.Infow("screening complete",
		"rows", len(in.Rows),
		"movers", report.Summary.TotalMovers,
		"themes", report.Summary.ThemesDetected,
		"watchlist", len(report.Watchlist),
		"skipped", report.Summary.SkippedRecords,
	)

	return report, nil
}
