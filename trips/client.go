package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warsaw-transit-tools/transfer-engine/config"
	"github.com/warsaw-transit-tools/transfer-engine/timetable"
)

// DepartureSource is the subset of the timetable client used for delay
// enrichment.
type DepartureSource interface {
	GetDepartures(ctx context.Context, stopID string, limit int) []timetable.Departure
}

// Client fetches trip details from the upstream API, cached per trip id
// with a TTL longer than the departure cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	workers    int

	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]tripEntry
	now     func() time.Time
}

type tripEntry struct {
	details  TripDetails
	storedAt time.Time
}

// NewClient creates a trip detail client from configuration
func NewClient(cfg config.TripsConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{},
		timeout:    time.Duration(cfg.TimeoutMS) * time.Millisecond,
		workers:    cfg.EnrichWorkers,
		ttl:        time.Duration(cfg.CacheTTLMS) * time.Millisecond,
		entries:    make(map[string]tripEntry),
		now:        time.Now,
	}
}

// GetTripDetails returns the stop list and path for a trip. The result is
// the caller's to mutate: cached entries are immutable and handed out as
// copies, so per-request enrichment never leaks into other requests.
func (c *Client) GetTripDetails(ctx context.Context, tripID string) (*TripDetails, error) {
	c.mu.RLock()
	e, ok := c.entries[tripID]
	fresh := ok && c.now().Sub(e.storedAt) < c.ttl
	c.mu.RUnlock()
	if fresh {
		details := cloneDetails(e.details)
		return &details, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/trips/%s", c.baseURL, url.PathEscape(tripID))
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
	var raw rawTripDetails
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("malformed trip payload for %s: %w", tripID, err)
	}
	details := normalizeTrip(raw, tripID)

	c.mu.Lock()
	c.entries[tripID] = tripEntry{details: details, storedAt: c.now()}
	c.mu.Unlock()

	out := cloneDetails(details)
	return &out, nil
}

// cloneDetails copies the stop slice so callers never share a backing
// array with the cache entry.
func cloneDetails(d TripDetails) TripDetails {
	out := d
	out.Stops = make([]Stop, len(d.Stops))
	copy(out.Stops, d.Stops)
	return out
}

// EnrichDelays attaches an estimated live delay to each stop by locating a
// departure record with matching trip identity at that stop. Lookups run on
// a fixed number of workers pulling stop indices from a shared counter and
// writing into their own slot of a preallocated result slice.
func (c *Client) EnrichDelays(ctx context.Context, details *TripDetails, source DepartureSource) {
	if details == nil || len(details.Stops) == 0 || source == nil {
		return
	}
	results := make([]*int, len(details.Stops))
	var next int64
	workers := c.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(details.Stops) {
		workers = len(details.Stops)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1)) - 1
				if i >= len(details.Stops) {
					return
				}
				for _, dep := range source.GetDepartures(ctx, details.Stops[i].ID, 0) {
					if dep.TripID == details.TripID && dep.DelaySec != nil {
						delay := *dep.DelaySec
						results[i] = &delay
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	for i := range details.Stops {
		details.Stops[i].DelaySec = results[i]
	}
}

func normalizeTrip(raw rawTripDetails, tripID string) TripDetails {
	details := TripDetails{
		TripID:   raw.TripID,
		Line:     raw.RouteID,
		Headsign: raw.Headsign,
		Path:     raw.Path,
	}
	if details.TripID == "" {
		details.TripID = tripID
	}
	if details.Line == "" {
		details.Line = raw.Line
	}
	if details.Headsign == "" {
		details.Headsign = raw.Direction
	}
	details.Stops = make([]Stop, 0, len(raw.Stops))
	for _, rs := range raw.Stops {
		s := Stop{
			ID:       rs.StopID,
			Name:     rs.Name,
			Lat:      rs.Lat,
			Lon:      rs.Lon,
			Sequence: rs.Sequence,
		}
		if rs.ScheduledSec != nil {
			s.ScheduledSec = *rs.ScheduledSec
		} else if rs.DepartureTime != nil {
			s.ScheduledSec = *rs.DepartureTime
		}
		details.Stops = append(details.Stops, s)
	}
	return details
}
