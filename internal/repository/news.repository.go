package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"themeradar/internal/domain"
	"themeradar/internal/serialize"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// NewsRepository returns the raw news for one symbol. Items are returned
// as delivered; normalization happens in the news aggregator.
type NewsRepository interface {
	GetNews(ctx context.Context, symbol string) ([]domain.RawNewsItem, error)
}

// LoadNewsFile reads a json array of news items
func LoadNewsFile(path string) ([]domain.RawNewsItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open news file %s: %w", path, err)
	}
	defer f.Close()

	items := []serialize.RawNewsJSON{}
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode news file %s: %w", path, err)
	}
	return serialize.NewsToDomain(items), nil
}

type fileNewsRepositoryHandler struct {
	Path string

	once     sync.Once
	bySymbol map[string][]domain.RawNewsItem
	err      error
}

func NewFileNewsRepository(path string) NewsRepository {
	return &fileNewsRepositoryHandler{Path: path}
}

func (h *fileNewsRepositoryHandler) GetNews(ctx context.Context, symbol string) ([]domain.RawNewsItem, error) {
	h.once.Do(func() {
		items, err := LoadNewsFile(h.Path)
		if err != nil {
			h.err = err
			return
		}
		h.bySymbol = map[string][]domain.RawNewsItem{}
		for _, item := range items {
			key := strings.TrimSpace(item.Symbol)
			h.bySymbol[key] = append(h.bySymbol[key], item)
		}
	})
	if h.err != nil {
		return nil, h.err
	}
	return h.bySymbol[symbol], nil
}

type HttpNewsOptions struct {
	BaseUrl           string
	ApiKey            string
	RequestsPerSecond float64
	Burst             int
	MaxElapsedTime    time.Duration
	Timeout           time.Duration
}

type httpNewsRepositoryHandler struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    HttpNewsOptions
}

// NewHttpNewsRepository reads from a portal news feed over http. Calls
// are rate limited across goroutines and retried with exponential
// backoff on network errors and 5xx/429 responses.
func NewHttpNewsRepository(opts HttpNewsOptions) NewsRepository {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxElapsedTime == 0 {
		opts.MaxElapsedTime = 30 * time.Second
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return httpNewsRepositoryHandler{
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		opts:    opts,
	}
}

type newsFeedResponse struct {
	Items []serialize.RawNewsJSON `json:"items"`
}

type HttpStatusError struct {
	StatusCode int
}

func (e *HttpStatusError) Error() string {
	return fmt.Sprintf("news feed returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (h httpNewsRepositoryHandler) GetNews(ctx context.Context, symbol string) ([]domain.RawNewsItem, error) {
	endpoint, err := url.Parse(strings.TrimRight(h.opts.BaseUrl, "/") + "/news")
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed url: %w", err)
	}
	q := endpoint.Query()
	q.Set("symbol", symbol)
	endpoint.RawQuery = q.Encode()

	var body []byte
	operation := func() error {
		if err := h.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if h.opts.ApiKey != "" {
			req.Header.Set("X-Api-Key", h.opts.ApiKey)
		}

		resp, err := h.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &HttpStatusError{StatusCode: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = h.opts.MaxElapsedTime
	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		return nil, fmt.Errorf("failed to get news for %s: %w", symbol, err)
	}

	out := newsFeedResponse{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode news for %s: %w", symbol, err)
	}

	items := serialize.NewsToDomain(out.Items)
	for i := range items {
		// the feed is per symbol, so a missing symbol field is implied
		if strings.TrimSpace(items[i].Symbol) == "" {
			items[i].Symbol = symbol
		}
	}
	return items, nil
}
