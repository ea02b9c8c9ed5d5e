// Package donki implements the fetcher against the NASA DONKI REST API.
package donki

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/space-weather-plotter/internal/config"
	"github.com/couchcryptid/space-weather-plotter/internal/domain"
	"github.com/couchcryptid/space-weather-plotter/internal/observability"
)

// dateLayout is the DONKI query parameter date format.
const dateLayout = "2006-01-02"

// maxErrorBody caps how much of an error response is attached to a
// NetworkError, enough to surface rate-limit messages without dumping HTML.
const maxErrorBody = 512

// Client fetches event catalogs from the DONKI API. One GET per catalog
// per call; no retries, errors surface to the caller.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a DONKI API client from configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: cfg.DONKIAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.DONKITimeout,
		},
		baseURL: cfg.DONKIBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchEvents retrieves one catalog for the inclusive date range and returns
// validated events in response order. Events outside the requested bound are
// dropped so the table invariant holds even when the API over-returns.
func (c *Client) FetchEvents(ctx context.Context, catalog domain.Catalog, start, end time.Time) (domain.Table, error) {
	params := url.Values{
		"startDate": {start.Format(dateLayout)},
		"endDate":   {end.Format(dateLayout)},
		"api_key":   {c.apiKey},
	}
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, catalog, params.Encode())

	began := time.Now()
	body, err := c.doRequest(ctx, catalog, fullURL)
	c.metrics.FetchDuration.WithLabelValues(string(catalog)).Observe(time.Since(began).Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(string(catalog), "network_error").Inc()
		return nil, err
	}

	events, err := domain.ParseEvents(catalog, body)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(string(catalog), "parse_error").Inc()
		return nil, err
	}
	c.metrics.FetchRequests.WithLabelValues(string(catalog), "success").Inc()

	kept := domain.FilterRange(events, start, end)
	if dropped := len(events) - len(kept); dropped > 0 {
		c.metrics.EventsDropped.WithLabelValues(string(catalog)).Add(float64(dropped))
		c.logger.Debug("dropped out-of-range events",
			"catalog", catalog,
			"dropped", dropped,
			"start", start.Format(dateLayout),
			"end", end.Format(dateLayout),
		)
	}
	c.metrics.EventsFetched.WithLabelValues(string(catalog)).Add(float64(len(kept)))

	return kept, nil
}

func (c *Client) doRequest(ctx context.Context, catalog domain.Catalog, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &domain.NetworkError{Catalog: catalog, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Catalog: catalog, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.NetworkError{
			Catalog:    catalog,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("donki API error: %s", snippet),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Catalog: catalog, Err: fmt.Errorf("read response: %w", err)}
	}
	return body, nil
}
