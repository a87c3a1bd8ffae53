// Package timetable fetches and normalizes per-stop departure data.
//
// The upstream timetable API has shipped two JSON schemas over time (the
// legacy field names and the current ones); normalization probes field
// presence and accepts both. A GTFS-RT TripUpdates feed can be configured
// as an alternative source and yields the same Departure model.
//
// The main type is Client, which caches normalized departures per stop with
// a short TTL, retries failed fetches with backoff, and serves stale cached
// data when the upstream is down. Client.GetDepartures never returns an
// error; total failure yields an empty slice.
package timetable
