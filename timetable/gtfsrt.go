package timetable

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// FeedAdapter reads a GTFS-RT TripUpdates feed and yields the same
// normalized Departure stream as the JSON timetable API. Stop time events
// carry epoch timestamps; they are converted to seconds-of-day in the
// configured timezone so downstream matching is source-agnostic.
type FeedAdapter struct {
	url        string
	httpClient *http.Client
	norm       *Normalizer
	loc        *time.Location
}

// NewFeedAdapter creates an adapter for a GTFS-RT trip updates URL.
// An unknown timezone name falls back to UTC.
func NewFeedAdapter(feedURL, timezone string, norm *Normalizer, timeout time.Duration) *FeedAdapter {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &FeedAdapter{
		url:        feedURL,
		httpClient: &http.Client{Timeout: timeout},
		norm:       norm,
		loc:        loc,
	}
}

// DeparturesForStop fetches the feed and extracts departures at one stop,
// ordered by effective time ascending.
func (a *FeedAdapter) DeparturesForStop(ctx context.Context, stopID string) ([]Departure, error) {
	fm, err := a.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}
	raws := make([]rawDeparture, 0)
	for _, e := range fm.GetEntity() {
		tu := e.GetTripUpdate()
		if tu == nil || tu.GetTrip() == nil {
			continue
		}
		trip := tu.GetTrip()
		for _, stu := range tu.GetStopTimeUpdate() {
			if stu.GetStopId() != stopID {
				continue
			}
			ev := stu.GetDeparture()
			if ev == nil {
				ev = stu.GetArrival()
			}
			if ev == nil || ev.Time == nil {
				continue
			}
			live := a.secondsOfDay(ev.GetTime())
			scheduled := live - int(ev.GetDelay())
			raw := rawDeparture{
				TripID:       trip.GetTripId(),
				RouteID:      trip.GetRouteId(),
				StopID:       stopID,
				Date:         trip.GetStartDate(),
				ScheduledSec: &scheduled,
				LiveSec:      &live,
				SourceType:   "gtfsrt",
			}
			if tu.GetVehicle() != nil {
				raw.VehicleID = tu.GetVehicle().GetId()
			}
			raws = append(raws, raw)
		}
	}
	return a.norm.Normalize(raws, stopID), nil
}

func (a *FeedAdapter) fetchFeed(ctx context.Context) (*gtfs.FeedMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", a.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, a.url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	fm := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, fm); err != nil {
		return nil, fmt.Errorf("malformed GTFS-RT feed: %w", err)
	}
	return fm, nil
}

func (a *FeedAdapter) secondsOfDay(epoch int64) int {
	t := time.Unix(epoch, 0).In(a.loc)
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
