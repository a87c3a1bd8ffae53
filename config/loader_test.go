package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadAppConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
timetable:
  baseURL: https://czynaczas.pl/api/warsaw
`)
	if err := LoadAppConfig(path); err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if Config.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", Config.Server.Port)
	}
	if Config.Timetable.CacheTTLMS != 15000 {
		t.Errorf("expected cache TTL default 15000, got %d", Config.Timetable.CacheTTLMS)
	}
	if Config.Timetable.TimeoutMS != 3000 {
		t.Errorf("expected timeout default 3000, got %d", Config.Timetable.TimeoutMS)
	}
	if Config.Timetable.RetryAttempts != 3 {
		t.Errorf("expected retry attempts default 3, got %d", Config.Timetable.RetryAttempts)
	}
	if Config.Trips.CacheTTLMS != 60000 {
		t.Errorf("expected trips cache TTL default 60000, got %d", Config.Trips.CacheTTLMS)
	}
	if Config.Trips.BaseURL != Config.Timetable.BaseURL {
		t.Errorf("expected trips base URL to inherit timetable base URL")
	}
	if Config.Scoring.CandidateCap != 8 || Config.Scoring.PerRideCap != 4 {
		t.Errorf("unexpected scoring defaults: %+v", Config.Scoring)
	}
	if Config.Scoring.DefaultWalkMinutes != 5 {
		t.Errorf("expected default walk minutes 5, got %d", Config.Scoring.DefaultWalkMinutes)
	}
}

func TestLoadAppConfigEmptyServer(t *testing.T) {
	path := writeConfig(t, `
timetable:
  baseURL: https://czynaczas.pl/api/warsaw
`)
	if err := LoadAppConfig(path); err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if Config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", Config.Server.Port)
	}
}

func TestLoadAppConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
timetable:
  baseURL: https://czynaczas.pl/api/warsaw
`)
	t.Setenv("PORT", "7070")
	t.Setenv("TIMETABLE_BASE_URL", "https://example.org/api/warsaw")
	if err := LoadAppConfig(path); err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if Config.Server.Port != 7070 {
		t.Errorf("expected env PORT to win over file, got %d", Config.Server.Port)
	}
	if Config.Timetable.BaseURL != "https://example.org/api/warsaw" {
		t.Errorf("expected env base URL to win over file, got %q", Config.Timetable.BaseURL)
	}
	// overridden base URL propagates to the trips default
	if Config.Trips.BaseURL != "https://example.org/api/warsaw" {
		t.Errorf("expected trips base URL to inherit override, got %q", Config.Trips.BaseURL)
	}
}

func TestLoadAppConfigEnvOverrideInvalidURL(t *testing.T) {
	path := writeConfig(t, `
timetable:
  baseURL: https://czynaczas.pl/api/warsaw
`)
	t.Setenv("TIMETABLE_BASE_URL", "not-a-url")
	if err := LoadAppConfig(path); err == nil {
		t.Error("expected validation error for malformed env baseURL")
	}
}

func TestLoadAppConfigInvalidURL(t *testing.T) {
	path := writeConfig(t, `
timetable:
  baseURL: not-a-url
`)
	if err := LoadAppConfig(path); err == nil {
		t.Error("expected validation error for malformed baseURL")
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	if err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadAppConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [broken")
	if err := LoadAppConfig(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
