package timetable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/warsaw-transit-tools/transfer-engine/config"
)

// Client fetches per-stop departures from the upstream timetable API.
// Results are cached per stop with a short TTL; on upstream failure the
// client retries with backoff and finally falls back to stale cached data.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *departureCache
	norm       *Normalizer
	feed       *FeedAdapter

	timeout   time.Duration
	attempts  int
	backoff   time.Duration
	fetchSize int
}

// NewClient creates a departure source client from configuration.
// When a GTFS-RT trip updates URL is configured it is used as the upstream
// instead of the JSON timetable API.
func NewClient(cfg config.TimetableConfig) *Client {
	norm := NewNormalizer(cfg.TrainLines)
	c := &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{},
		cache:      newDepartureCache(time.Duration(cfg.CacheTTLMS) * time.Millisecond),
		norm:       norm,
		timeout:    time.Duration(cfg.TimeoutMS) * time.Millisecond,
		attempts:   cfg.RetryAttempts,
		backoff:    time.Duration(cfg.RetryBackoffMS) * time.Millisecond,
		fetchSize:  cfg.FetchSize,
	}
	if cfg.TripUpdatesURL != "" {
		c.feed = NewFeedAdapter(cfg.TripUpdatesURL, cfg.Timezone, norm, c.timeout)
	}
	return c
}

// GetDepartures returns departures for a stop ordered by effective time
// ascending, at most limit entries (limit <= 0 means all retrieved).
// It never returns an error: on total upstream failure it serves stale
// cached data if any exists, else an empty slice.
func (c *Client) GetDepartures(ctx context.Context, stopID string, limit int) []Departure {
	if deps, fresh, ok := c.cache.get(stopID); ok && fresh {
		return clamp(deps, limit)
	}

	deps, err := c.fetchWithRetry(ctx, stopID)
	if err != nil {
		if stale, _, ok := c.cache.get(stopID); ok {
			log.Printf("timetable: serving stale cache for stop %s: %v", stopID, err)
			return clamp(stale, limit)
		}
		log.Printf("timetable: no data for stop %s: %v", stopID, err)
		return []Departure{}
	}
	c.cache.put(stopID, deps)
	return clamp(deps, limit)
}

// fetchWithRetry performs up to c.attempts fetches with increasing delay
// between attempts. Each attempt carries its own bounded timeout.
func (c *Client) fetchWithRetry(ctx context.Context, stopID string) ([]Departure, error) {
	attempts := c.attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(time.Duration(i) * c.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		deps, err := c.fetchOnce(ctx, stopID)
		if err == nil {
			return deps, nil
		}
		lastErr = err
		log.Printf("timetable: fetch attempt %d/%d for stop %s failed: %v", i+1, attempts, stopID, err)
	}
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, stopID string) ([]Departure, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.feed != nil {
		return c.feed.DeparturesForStop(fetchCtx, stopID)
	}

	u := fmt.Sprintf("%s/timetable/%s?limit=%d", c.baseURL, url.PathEscape(stopID), c.fetchSize)
	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, u)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var raws []rawDeparture
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("malformed timetable payload for %s: %w", stopID, err)
	}
	return c.norm.Normalize(raws, stopID), nil
}

func clamp(deps []Departure, limit int) []Departure {
	if limit > 0 && limit < len(deps) {
		return deps[:limit]
	}
	return deps
}
