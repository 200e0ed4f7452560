package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"themeradar/internal/app"
	"themeradar/internal/search"
	"themeradar/internal/serialize"

	"github.com/gin-gonic/gin"
)

type searchResponse struct {
	Run  app.RunSummary `json:"run"`
	Hits []search.Hit   `json:"hits"`
}

func (m ApiHandler) searchLatestReport(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		returnErrorJsonCode(errors.New("missing query parameter q"), c, http.StatusBadRequest)
		return
	}
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			returnErrorJsonCode(fmt.Errorf("invalid limit %q", raw), c, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	rr, err := m.ReportRunRepository.Latest()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	index, release, err := m.SearchCache.Get(rr.ReportRunID, func() (serialize.ReportJSON, error) {
		report := serialize.ReportJSON{}
		if err := json.Unmarshal([]byte(rr.Payload), &report); err != nil {
			return report, fmt.Errorf("failed to decode stored report %s: %w", rr.ReportRunID, err)
		}
		return report, nil
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	defer release()

	hits, err := index.Search(q, limit)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, searchResponse{
		Run:  app.SummaryFromModel(*rr),
		Hits: hits,
	})
}
