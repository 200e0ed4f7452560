package app

import (
	"context"
	"fmt"
	"time"

	"themeradar/internal/logger"
	"themeradar/internal/repository"

	"github.com/robfig/cron/v3"
)

const scheduledRunTimeout = 10 * time.Minute

// ScreeningScheduler runs the full universe on a cron schedule,
// evaluated in the market timezone
type ScreeningScheduler struct {
	ScreeningApp       ScreeningApp
	UniverseRepository repository.UniverseRepository

	cron     *cron.Cron
	location *time.Location
}

func NewScreeningScheduler(screeningApp ScreeningApp, universeRepository repository.UniverseRepository, loc *time.Location) *ScreeningScheduler {
	return &ScreeningScheduler{
		ScreeningApp:       screeningApp,
		UniverseRepository: universeRepository,
		cron:               cron.New(cron.WithLocation(loc)),
		location:           loc,
	}
}

// Start registers the schedule and starts the cron loop. An empty
// schedule leaves the scheduler idle.
func (s *ScreeningScheduler) Start(schedule string) error {
	log := logger.FromContext(context.Background())
	if schedule == "" {
		log.Info("no schedule configured, scheduled runs disabled")
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), scheduledRunTimeout)
		defer cancel()
		if _, err := s.RunNow(ctx); err != nil {
			log.Errorw("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to parse schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	log.Infow("scheduler started", "schedule", schedule, "next", s.Next())
	return nil
}

func (s *ScreeningScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next is the time of the next scheduled run, zero when idle
func (s *ScreeningScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	// entries are only populated with Next once the cron is running
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now().In(s.location))
}

func (s *ScreeningScheduler) RunNow(ctx context.Context) (*RunResult, error) {
	members, err := s.UniverseRepository.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list universe: %w", err)
	}

	result, err := s.ScreeningApp.Run(ctx, RunInput{
		Symbols: repository.Symbols(members),
		Notify:  true,
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("scheduled run complete",
		"reportRunId", result.Run.ReportRunID,
		"movers", result.Run.TotalMovers,
	)
	return result, nil
}
