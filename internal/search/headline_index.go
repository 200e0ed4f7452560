package search

import (
	"fmt"
	"strings"
	"sync"

	"themeradar/internal/serialize"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"
)

type Hit struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Theme    string  `json:"theme"`
	Headline string  `json:"headline"`
	Source   string  `json:"source"`
	Score    float64 `json:"score"`
}

// HeadlineIndex is an in-memory full text index over the news attached
// to one report
type HeadlineIndex struct {
	index bleve.Index
	docs  int
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	symbolMapping := bleve.NewKeywordFieldMapping()
	symbolMapping.Store = true
	docMapping.AddFieldMappingsAt("symbol", symbolMapping)

	textMapping := bleve.NewTextFieldMapping()
	textMapping.Store = true
	docMapping.AddFieldMappingsAt("name", textMapping)
	docMapping.AddFieldMappingsAt("headline", textMapping)
	docMapping.AddFieldMappingsAt("theme", textMapping)

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Store = true
	storedOnly.Index = false
	docMapping.AddFieldMappingsAt("source", storedOnly)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// NewHeadlineIndex indexes every news item of every clustered and
// watchlisted stock in the report. Stocks without news are indexed by
// name so they can still be found.
func NewHeadlineIndex(report serialize.ReportJSON) (*HeadlineIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create headline index: %w", err)
	}

	batch := index.NewBatch()
	docs := 0
	add := func(symbol, name, theme string, news []serialize.NewsJSON) error {
		if len(news) == 0 {
			news = []serialize.NewsJSON{{}}
		}
		for i, n := range news {
			doc := map[string]interface{}{
				"symbol":   symbol,
				"name":     name,
				"theme":    theme,
				"headline": n.Headline,
				"source":   n.Source,
			}
			if err := batch.Index(fmt.Sprintf("%s-%d", symbol, i), doc); err != nil {
				return err
			}
			docs++
		}
		return nil
	}

	for _, theme := range report.Themes {
		for _, s := range theme.Stocks {
			if err := add(s.Symbol, s.Name, theme.Name, s.News); err != nil {
				return nil, fmt.Errorf("failed to index %s: %w", s.Symbol, err)
			}
		}
	}
	for _, w := range report.Watchlist {
		theme := ""
		if w.Theme != nil {
			theme = *w.Theme
		}
		if err := add(w.Symbol, w.Name, theme, w.News); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", w.Symbol, err)
		}
	}

	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to build headline index: %w", err)
	}

	return &HeadlineIndex{index: index, docs: docs}, nil
}

func (h *HeadlineIndex) DocCount() int {
	return h.docs
}

// Search matches q against symbols (exact), headlines, names and themes.
// Results are ordered by relevance then symbol.
func (h *HeadlineIndex) Search(q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	symbolQuery := bleve.NewTermQuery(strings.ToUpper(q))
	symbolQuery.SetField("symbol")
	symbolQuery.SetBoost(5.0)

	headlineQuery := bleve.NewMatchQuery(q)
	headlineQuery.SetField("headline")
	headlineQuery.SetBoost(2.0)

	nameQuery := bleve.NewMatchQuery(q)
	nameQuery.SetField("name")
	nameQuery.SetBoost(1.5)

	themeQuery := bleve.NewMatchQuery(q)
	themeQuery.SetField("theme")

	request := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(symbolQuery, headlineQuery, nameQuery, themeQuery))
	request.Fields = []string{"symbol", "name", "theme", "headline", "source"}
	request.Size = limit
	request.SortBy([]string{"-_score", "symbol", "_id"})

	result, err := h.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("failed to search headlines: %w", err)
	}

	getString := func(fields map[string]interface{}, key string) string {
		if val, ok := fields[key].(string); ok {
			return val
		}
		return ""
	}

	hits := []Hit{}
	for _, hit := range result.Hits {
		hits = append(hits, Hit{
			Symbol:   getString(hit.Fields, "symbol"),
			Name:     getString(hit.Fields, "name"),
			Theme:    getString(hit.Fields, "theme"),
			Headline: getString(hit.Fields, "headline"),
			Source:   getString(hit.Fields, "source"),
			Score:    hit.Score,
		})
	}
	return hits, nil
}

func (h *HeadlineIndex) Close() error {
	return h.index.Close()
}

// Cache keeps the index of the most recently searched run, which is
// nearly always the latest one. A replaced index stays open until its
// last reader releases it.
type Cache struct {
	mu      sync.Mutex
	runID   uuid.UUID
	current *cachedIndex
}

type cachedIndex struct {
	index   *HeadlineIndex
	readers int
	retired bool
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the index for runID, building it from report on a miss.
// The caller must call release once done searching.
func (c *Cache) Get(runID uuid.UUID, report func() (serialize.ReportJSON, error)) (index *HeadlineIndex, release func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.runID != runID {
		r, err := report()
		if err != nil {
			return nil, nil, err
		}
		built, err := NewHeadlineIndex(r)
		if err != nil {
			return nil, nil, err
		}
		if old := c.current; old != nil {
			old.retired = true
			if old.readers == 0 {
				old.index.Close()
			}
		}
		c.runID = runID
		c.current = &cachedIndex{index: built}
	}

	entry := c.current
	entry.readers++
	var once sync.Once
	return entry.index, func() {
		once.Do(func() { c.release(entry) })
	}, nil
}

func (c *Cache) release(entry *cachedIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.readers--
	if entry.retired && entry.readers == 0 {
		entry.index.Close()
	}
}
