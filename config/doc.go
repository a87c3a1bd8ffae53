// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// A few values (PORT, TIMETABLE_BASE_URL, TRIP_UPDATES_URL, TRIPS_BASE_URL)
// can be overridden from the environment. Missing values fall back to
// defaults after validation, so a minimal file with just the server port is
// enough to run.
package config
