package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"themeradar/internal/app"
	"themeradar/internal/domain"
	"themeradar/internal/logger"
	"themeradar/internal/repository"
	"themeradar/internal/search"
	l3_service "themeradar/internal/service/l3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApiHandler struct {
	ScreeningApp        app.ScreeningApp
	ScreeningService    l3_service.ScreeningService
	ReportRunRepository repository.ReportRunRepository
	UniverseRepository  repository.UniverseRepository
	Hub                 *ReportHub
	SearchCache         *search.Cache
	Config              domain.ScreenerConfig
	Logger              *zap.SugaredLogger
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to themeradar"})
	})
	router.POST("/screen", m.screen)
	router.POST("/runs", m.createRun)
	router.GET("/reports", m.listReports)
	router.GET("/reports/latest", m.latestReport)
	router.GET("/reports/latest/search", m.searchLatestReport)
	router.GET("/reports/:id", m.getReport)
	if m.Hub != nil {
		router.GET("/ws", m.Hub.HandleWebSocket)
	}

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func errorStatus(err error) int {
	switch {
	case domain.IsConfigError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoReport):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, errorStatus(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	log := logger.FromContext(c.Request.Context())
	if code >= 500 {
		log.Errorw("request failed", "error", err)
	} else {
		log.Infow("request rejected", "status", code, "error", err)
	}
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	base := m.Logger
	if base == nil {
		base = zap.S()
	}
	log := base.With("method", ctx.Request.Method, "route", ctx.FullPath())
	ctx.Request = ctx.Request.WithContext(logger.WithLogger(ctx.Request.Context(), log))

	start := time.Now()
	ctx.Next()

	log.Infow("request",
		"path", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"latencyMs", time.Since(start).Milliseconds(),
	)
}
