package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"themeradar/internal/domain"
	"themeradar/internal/serialize"
	l3_service "themeradar/internal/service/l3"

	"github.com/gin-gonic/gin"
)

type screenRequest struct {
	GeneratedAt *time.Time                  `json:"generated_at"`
	Rows        []serialize.SnapshotRowJSON `json:"rows"`
	News        []serialize.RawNewsJSON     `json:"news"`
	// Config is merged over the server config, so partial overrides work
	Config json.RawMessage `json:"config"`
}

func (m ApiHandler) mergeConfig(raw json.RawMessage) (domain.ScreenerConfig, error) {
	cfg := m.Config
	// json reuses slice backing arrays, so the rules are deep copied
	cfg.KeywordRules = make([]domain.KeywordRule, 0, len(m.Config.KeywordRules))
	for _, rule := range m.Config.KeywordRules {
		cfg.KeywordRules = append(cfg.KeywordRules, domain.KeywordRule{
			Theme:    rule.Theme,
			Keywords: append([]string{}, rule.Keywords...),
		})
	}
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config override: %w", err)
	}
	return cfg, nil
}

// screen runs the pipeline on the posted inputs only. Nothing is stored
// or broadcast.
func (m ApiHandler) screen(c *gin.Context) {
	var requestBody screenRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, http.StatusBadRequest)
		return
	}

	cfg, err := m.mergeConfig(requestBody.Config)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	generatedAt := time.Now().UTC()
	if requestBody.GeneratedAt != nil {
		generatedAt = *requestBody.GeneratedAt
	}

	report, err := m.ScreeningService.Screen(c.Request.Context(), l3_service.ScreenInput{
		Rows:        serialize.RowsToDomain(requestBody.Rows),
		News:        serialize.NewsToDomain(requestBody.News),
		Config:      cfg,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, serialize.FromReport(report, cfg.RoleLocale))
}
