package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"themeradar/api"
	"themeradar/internal/app"
	"themeradar/internal/logger"
	"themeradar/internal/repository"
	"themeradar/internal/search"
	"themeradar/internal/service"
	l3_service "themeradar/internal/service/l3"
	"themeradar/internal/util"

	_ "github.com/lib/pq"
)

type Dependencies struct {
	ApiHandler *api.ApiHandler
	AppConfig  util.AppConfig
	Db         *sql.DB
}

func CloseDependencies(deps *Dependencies) {
	if deps.Db == nil {
		return
	}
	if err := deps.Db.Close(); err != nil {
		logger.FromContext(context.Background()).Errorw("failed to close db", "error", err)
	}
}

// InitializeDependencies wires every collaborator from the secrets file
// and the config file. Without db secrets, runs are kept in memory.
func InitializeDependencies() (*Dependencies, error) {
	log := logger.FromContext(context.Background())

	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	appConfig, err := util.LoadAppConfig(util.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var dbConn *sql.DB
	reportRunRepository := repository.NewMemoryReportRunRepository()
	if secrets.Db != nil {
		dbConn, err = sql.Open("postgres", secrets.Db.ToConnectionStr())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		reportRunRepository = repository.NewReportRunRepository(dbConn)
	} else {
		log.Warn("no db secrets, report runs are kept in memory")
	}

	var snapshotRepository repository.SnapshotRepository
	if appConfig.SnapshotFile != "" {
		snapshotRepository = repository.NewCsvSnapshotRepository(appConfig.SnapshotFile)
	} else {
		snapshotRepository = repository.NewQuoteRepository()
	}

	var newsRepository repository.NewsRepository
	if secrets.NewsFeed.BaseUrl != "" {
		newsRepository = repository.NewHttpNewsRepository(repository.HttpNewsOptions{
			BaseUrl:           secrets.NewsFeed.BaseUrl,
			ApiKey:            secrets.NewsFeed.ApiKey,
			RequestsPerSecond: appConfig.NewsFeed.RequestsPerSecond,
			Burst:             appConfig.NewsFeed.Burst,
			MaxElapsedTime:    time.Duration(appConfig.NewsFeed.MaxElapsedSeconds) * time.Second,
		})
	} else {
		if appConfig.NewsFile == "" {
			log.Warn("no news feed or news file configured, runs will have no news")
		}
		newsRepository = repository.NewFileNewsRepository(appConfig.NewsFile)
	}

	var notificationService service.NotificationService
	if secrets.SES.FromEmail != "" {
		emailRepository, err := repository.NewEmailRepository(secrets.SES.Region, secrets.SES.FromEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to create email repository: %w", err)
		}
		notificationService = service.NewNotificationService(emailRepository)
	}

	hub := api.NewReportHub()
	screeningService := l3_service.NewScreeningService()
	screeningApp := app.NewScreeningApp(
		screeningService,
		notificationService,
		snapshotRepository,
		newsRepository,
		reportRunRepository,
		hub,
		app.ScreeningAppOptions{
			Config:       appConfig.ScreenerConfig,
			NotifyEmails: appConfig.NotifyEmails,
			NewsWorkers:  appConfig.NewsFeed.Workers,
		},
	)

	apiHandler := &api.ApiHandler{
		ScreeningApp:        screeningApp,
		ScreeningService:    screeningService,
		ReportRunRepository: reportRunRepository,
		UniverseRepository:  repository.NewUniverseRepository(appConfig.UniverseFile),
		Hub:                 hub,
		SearchCache:         search.NewCache(),
		Config:              appConfig.ScreenerConfig,
		Logger:              log,
	}

	return &Dependencies{
		ApiHandler: apiHandler,
		AppConfig:  *appConfig,
		Db:         dbConn,
	}, nil
}
