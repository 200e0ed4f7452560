package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"themeradar/internal/app"
	"themeradar/internal/repository"
	"themeradar/internal/serialize"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createRunRequest struct {
	// Symbols defaults to the configured universe
	Symbols     []string        `json:"symbols"`
	GeneratedAt *time.Time      `json:"generated_at"`
	Notify      bool            `json:"notify"`
	Config      json.RawMessage `json:"config"`
}

type runResponse struct {
	Run    app.RunSummary  `json:"run"`
	Report json.RawMessage `json:"report"`
}

func (m ApiHandler) createRun(c *gin.Context) {
	var requestBody createRunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&requestBody); err != nil {
			returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, http.StatusBadRequest)
			return
		}
	}

	symbols := requestBody.Symbols
	if len(symbols) == 0 {
		if m.UniverseRepository == nil {
			returnErrorJsonCode(errors.New("no symbols given and no universe configured"), c, http.StatusBadRequest)
			return
		}
		members, err := m.UniverseRepository.List()
		if err != nil {
			returnErrorJson(err, c)
			return
		}
		symbols = repository.Symbols(members)
	}

	cfg, err := m.mergeConfig(requestBody.Config)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	in := app.RunInput{
		Symbols: symbols,
		Config:  &cfg,
		Notify:  requestBody.Notify,
	}
	if requestBody.GeneratedAt != nil {
		in.GeneratedAt = *requestBody.GeneratedAt
	}

	result, err := m.ScreeningApp.Run(c.Request.Context(), in)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"run":    result.Run,
		"report": result.Report,
	})
}

func (m ApiHandler) listReports(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			returnErrorJsonCode(fmt.Errorf("invalid limit %q", raw), c, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := m.ReportRunRepository.List(limit)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := []app.RunSummary{}
	for _, rr := range runs {
		out = append(out, app.SummaryFromModel(rr))
	}
	c.JSON(200, out)
}

func (m ApiHandler) latestReport(c *gin.Context) {
	rr, err := m.ReportRunRepository.Latest()
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	m.writeReport(c, app.SummaryFromModel(*rr), rr.Payload)
}

func (m ApiHandler) getReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid report id: %w", err), c, http.StatusBadRequest)
		return
	}

	rr, err := m.ReportRunRepository.Get(id)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	m.writeReport(c, app.SummaryFromModel(*rr), rr.Payload)
}

// writeReport serves the stored payload as is for json, and re-renders
// it for the csv and markdown exports
func (m ApiHandler) writeReport(c *gin.Context, run app.RunSummary, payload string) {
	format := strings.ToLower(c.DefaultQuery("format", serialize.FormatJSON))
	if format == serialize.FormatJSON {
		c.JSON(200, runResponse{
			Run:    run,
			Report: json.RawMessage(payload),
		})
		return
	}

	report := serialize.ReportJSON{}
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		returnErrorJson(fmt.Errorf("failed to decode stored report %s: %w", run.ReportRunID, err), c)
		return
	}

	switch format {
	case serialize.FormatCsv:
		out, err := serialize.MarshalCsv(report)
		if err != nil {
			returnErrorJson(err, c)
			return
		}
		c.Data(200, "text/csv; charset=utf-8", out)
	case serialize.FormatMarkdown:
		c.Data(200, "text/markdown; charset=utf-8", serialize.MarshalMarkdown(report))
	default:
		returnErrorJsonCode(fmt.Errorf("unsupported format %q", format), c, http.StatusBadRequest)
	}
}
