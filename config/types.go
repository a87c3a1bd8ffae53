package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gte=0"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// TimetableConfig configures the upstream departure source client
type TimetableConfig struct {
	BaseURL        string   `yaml:"baseURL" validate:"omitempty,url"`
	TripUpdatesURL string   `yaml:"tripUpdatesURL" validate:"omitempty,url"`
	Timezone       string   `yaml:"timezone"`
	TimeoutMS      int      `yaml:"timeoutMS" validate:"gte=0"`
	RetryAttempts  int      `yaml:"retryAttempts" validate:"gte=0"`
	RetryBackoffMS int      `yaml:"retryBackoffMS" validate:"gte=0"`
	CacheTTLMS     int      `yaml:"cacheTTLMS" validate:"gte=0"`
	FetchSize      int      `yaml:"fetchSize" validate:"gte=0"`
	TrainLines     []string `yaml:"trainLines"`
}

// TripsConfig configures the auxiliary trip detail client
type TripsConfig struct {
	BaseURL       string `yaml:"baseURL" validate:"omitempty,url"`
	TimeoutMS     int    `yaml:"timeoutMS" validate:"gte=0"`
	CacheTTLMS    int    `yaml:"cacheTTLMS" validate:"gte=0"`
	EnrichWorkers int    `yaml:"enrichWorkers" validate:"gte=0"`
}

// ScoringConfig contains the tunable matching and risk policy.
// Zero values are replaced with defaults after loading.
type ScoringConfig struct {
	CandidateCap       int `yaml:"candidateCap" validate:"gte=0"`
	PerRideCap         int `yaml:"perRideCap" validate:"gte=0"`
	MedBoundarySec     int `yaml:"medBoundarySec" validate:"gte=0"`
	NoTrainLivePenalty int `yaml:"noTrainLivePenalty" validate:"gte=0"`
	NoBusLivePenalty   int `yaml:"noBusLivePenalty" validate:"gte=0"`
	HighRiskPenalty    int `yaml:"highRiskPenalty" validate:"gte=0"`
	MedRiskPenalty     int `yaml:"medRiskPenalty" validate:"gte=0"`
	DefaultWalkMinutes int `yaml:"defaultWalkMinutes" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Timetable TimetableConfig `yaml:"timetable"`
	Trips     TripsConfig     `yaml:"trips"`
	Scoring   ScoringConfig   `yaml:"scoring"`
}
