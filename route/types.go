// Package route models the traveler's fixed route template: ordered
// mode-homogeneous segments, per-line stop variants, and the transfer
// policy. A Snapshot is the fully resolved engine input; identity and
// template storage live outside this service.
package route

import (
	"github.com/warsaw-transit-tools/transfer-engine/timetable"
)

// StopVariant is one of several physically distinct stops/platforms that
// all serve the same line for a leg.
type StopVariant struct {
	StopID  string `json:"stop_id"`
	Variant string `json:"variant"` // "A", "B", or empty
	Note    string `json:"note,omitempty"`
}

// Segment is one leg of the template
type Segment struct {
	Seq          int                      `json:"seq"`
	Mode         timetable.Mode           `json:"mode"`
	Agency       string                   `json:"agency,omitempty"`
	FromStopID   string                   `json:"from_stop_id"`
	ToStopID     string                   `json:"to_stop_id,omitempty"`
	AllowedLines []string                 `json:"allowed_route_ids"`
	StopVariants map[string][]StopVariant `json:"stop_variants,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
}

// TransferPolicy is the per-template transfer timing policy. WalkTimesMin
// maps line or line+variant ("401_A") to walking minutes.
type TransferPolicy struct {
	ExitBufferSec        int            `json:"exit_buffer_sec"`
	MinTransferBufferSec int            `json:"min_transfer_buffer_sec"`
	WalkTimesMin         map[string]int `json:"walk_times"`
}

// ScoringPolicy holds the tunable matching constants. The thresholds have
// shifted between deployments, so they ride along with the snapshot rather
// than being baked into the engine.
type ScoringPolicy struct {
	CandidateCap       int `json:"candidate_cap"`
	PerRideCap         int `json:"per_ride_cap"`
	MedBoundarySec     int `json:"med_boundary_sec"`
	NoTrainLivePenalty int `json:"no_train_live_penalty"`
	NoBusLivePenalty   int `json:"no_bus_live_penalty"`
	HighRiskPenalty    int `json:"high_risk_penalty"`
	MedRiskPenalty     int `json:"med_risk_penalty"`
	DefaultWalkMinutes int `json:"default_walk_minutes"`
	WrapLateSec        int `json:"wrap_late_sec"`
	WrapEarlySec       int `json:"wrap_early_sec"`
}

// DefaultScoringPolicy returns the current production constants
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		CandidateCap:       8,
		PerRideCap:         4,
		MedBoundarySec:     300,
		NoTrainLivePenalty: 120,
		NoBusLivePenalty:   60,
		HighRiskPenalty:    300,
		MedRiskPenalty:     100,
		DefaultWalkMinutes: 5,
		WrapLateSec:        80000,
		WrapEarlySec:       10000,
	}
}

// Template identifies a user-authored route template
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Snapshot is a resolved route template: the engine's sole input besides
// the result limit. It is request-scoped and never mutated by the engine.
type Snapshot struct {
	Template Template       `json:"template"`
	Segments []Segment      `json:"segments"`
	Transfer TransferPolicy `json:"transfer"`
	Scoring  ScoringPolicy  `json:"scoring"`
}

// TrainSegment returns the first TRAIN segment, or nil
func (s *Snapshot) TrainSegment() *Segment { return s.segmentByMode(timetable.ModeTrain) }

// BusSegment returns the first BUS segment, or nil
func (s *Snapshot) BusSegment() *Segment { return s.segmentByMode(timetable.ModeBus) }

func (s *Snapshot) segmentByMode(mode timetable.Mode) *Segment {
	for i := range s.Segments {
		if s.Segments[i].Mode == mode {
			return &s.Segments[i]
		}
	}
	return nil
}

// StopIDs returns the distinct stop ids this segment's departures must be
// fetched for: every variant stop, or the single boarding stop when no
// variants are configured. Order is deterministic (variant map iterated per
// allowed line in order).
func (seg *Segment) StopIDs() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(seg.StopVariants) > 0 {
		for _, line := range seg.AllowedLines {
			for _, v := range seg.StopVariants[line] {
				add(v.StopID)
			}
		}
		// variants for lines outside AllowedLines are ignored
		return out
	}
	add(seg.FromStopID)
	return out
}

// VariantsForLine returns the stop variants serving a line, falling back to
// the segment's single boarding stop with an empty variant label.
func (seg *Segment) VariantsForLine(line string) []StopVariant {
	if vs, ok := seg.StopVariants[line]; ok && len(vs) > 0 {
		return vs
	}
	if seg.FromStopID != "" {
		return []StopVariant{{StopID: seg.FromStopID}}
	}
	return nil
}

// WalkSeconds resolves the walking time for a line and variant in seconds.
// Key priority: "line_variant", then "lineVariant", then "line", then the
// policy default.
func (p TransferPolicy) WalkSeconds(line, variant string, defaultMinutes int) int {
	if variant != "" {
		if min, ok := p.WalkTimesMin[line+"_"+variant]; ok {
			return min * 60
		}
		if min, ok := p.WalkTimesMin[line+variant]; ok {
			return min * 60
		}
	}
	if min, ok := p.WalkTimesMin[line]; ok {
		return min * 60
	}
	return defaultMinutes * 60
}
