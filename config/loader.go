package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration.
// With no arguments it probes the default locations.
func LoadAppConfig(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{"config.yml", "./configs/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	applyEnvOverrides(&cfg)
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	applyDefaults(&cfg)
	Config = cfg
	return nil
}

// applyEnvOverrides lets the environment (populated from .env files in cmd/)
// override the file values. Overrides run before validation so a bad URL
// from the environment fails loading the same way a bad file value does.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("TIMETABLE_BASE_URL"); v != "" {
		cfg.Timetable.BaseURL = v
	}
	if v := os.Getenv("TRIP_UPDATES_URL"); v != "" {
		cfg.Timetable.TripUpdatesURL = v
	}
	if v := os.Getenv("TRIPS_BASE_URL"); v != "" {
		cfg.Trips.BaseURL = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	tt := &cfg.Timetable
	if tt.Timezone == "" {
		tt.Timezone = "Europe/Warsaw"
	}
	if tt.TimeoutMS == 0 {
		tt.TimeoutMS = 3000
	}
	if tt.RetryAttempts == 0 {
		tt.RetryAttempts = 3
	}
	if tt.RetryBackoffMS == 0 {
		tt.RetryBackoffMS = 250
	}
	if tt.CacheTTLMS == 0 {
		tt.CacheTTLMS = 15000
	}
	if tt.FetchSize == 0 {
		tt.FetchSize = 20
	}
	if len(tt.TrainLines) == 0 {
		tt.TrainLines = []string{"A1", "S1", "S2", "S3", "S4"}
	}
	tr := &cfg.Trips
	if tr.BaseURL == "" {
		tr.BaseURL = tt.BaseURL
	}
	if tr.TimeoutMS == 0 {
		tr.TimeoutMS = tt.TimeoutMS
	}
	if tr.CacheTTLMS == 0 {
		tr.CacheTTLMS = 60000
	}
	if tr.EnrichWorkers == 0 {
		tr.EnrichWorkers = 4
	}
	sc := &cfg.Scoring
	if sc.CandidateCap == 0 {
		sc.CandidateCap = 8
	}
	if sc.PerRideCap == 0 {
		sc.PerRideCap = 4
	}
	if sc.MedBoundarySec == 0 {
		sc.MedBoundarySec = 300
	}
	if sc.NoTrainLivePenalty == 0 {
		sc.NoTrainLivePenalty = 120
	}
	if sc.NoBusLivePenalty == 0 {
		sc.NoBusLivePenalty = 60
	}
	if sc.HighRiskPenalty == 0 {
		sc.HighRiskPenalty = 300
	}
	if sc.MedRiskPenalty == 0 {
		sc.MedRiskPenalty = 100
	}
	if sc.DefaultWalkMinutes == 0 {
		sc.DefaultWalkMinutes = 5
	}
}
