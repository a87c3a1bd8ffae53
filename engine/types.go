package engine

import (
	"github.com/warsaw-transit-tools/transfer-engine/timetable"
)

// Risk classifies how likely a transfer is to be missed
type Risk string

const (
	RiskLow  Risk = "LOW"
	RiskMed  Risk = "MED"
	RiskHigh Risk = "HIGH"
)

// SourceStatus reports whether an upstream source contributed data
type SourceStatus string

const (
	SourceAvailable   SourceStatus = "available"
	SourceUnavailable SourceStatus = "unavailable"
)

// TrainCandidate is one train ride under evaluation: the boarding
// departure, the matched transfer-stop departure when one was found, and
// the resolved time at the transfer point. Request-scoped, never persisted.
type TrainCandidate struct {
	Boarding        timetable.Departure
	Transfer        *timetable.Departure
	TransferTimeSec int
	Warnings        []string
}

// TransferOption is one fully evaluated connection. Immutable once built;
// ranking and trimming never mutate it.
type TransferOption struct {
	ID                   string               `json:"id"`
	Train                timetable.Departure  `json:"train"`
	TrainTransfer        *timetable.Departure `json:"train_transfer,omitempty"`
	TrainTransferTimeSec int                  `json:"train_transfer_time_sec"`
	Bus                  timetable.Departure  `json:"bus"`
	BusStopVariant       string               `json:"bus_stop_variant,omitempty"`
	WalkSec              int                  `json:"walk_sec"`
	ExitBufferSec        int                  `json:"exit_buffer_sec"`
	MinTransferBufferSec int                  `json:"min_transfer_buffer_sec"`
	ReadySec             int                  `json:"ready_sec"`
	BufferSec            int                  `json:"buffer_sec"`
	Risk                 Risk                 `json:"risk"`
	Score                int                  `json:"score"`
	Warnings             []string             `json:"warnings"`
}

// LiveStatus reports per-source availability for one computation
type LiveStatus struct {
	TrainSource SourceStatus `json:"train_source"`
	BusSource   SourceStatus `json:"bus_source"`
}

// Meta describes one recommendation response
type Meta struct {
	TemplateID       string     `json:"template_id"`
	RecommendationID string     `json:"recommendation_id"`
	Timestamp        string     `json:"timestamp"`
	LiveStatus       LiveStatus `json:"live_status"`
}

// Recommendation is the engine output: ranked options plus metadata
type Recommendation struct {
	Options []TransferOption `json:"options"`
	Meta    Meta             `json:"meta"`
}
