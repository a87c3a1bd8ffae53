package route

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warsaw-transit-tools/transfer-engine/config"
)

// LoadSnapshot reads a resolved snapshot from a JSON file. Scoring fields
// left at zero are filled from the defaults.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("malformed snapshot %s: %w", path, err)
	}
	snap.Scoring = snap.Scoring.WithDefaults()
	return &snap, nil
}

// ScoringFromConfig maps the configured scoring section onto a policy,
// filling gaps from the defaults.
func ScoringFromConfig(cfg config.ScoringConfig) ScoringPolicy {
	p := ScoringPolicy{
		CandidateCap:       cfg.CandidateCap,
		PerRideCap:         cfg.PerRideCap,
		MedBoundarySec:     cfg.MedBoundarySec,
		NoTrainLivePenalty: cfg.NoTrainLivePenalty,
		NoBusLivePenalty:   cfg.NoBusLivePenalty,
		HighRiskPenalty:    cfg.HighRiskPenalty,
		MedRiskPenalty:     cfg.MedRiskPenalty,
		DefaultWalkMinutes: cfg.DefaultWalkMinutes,
	}
	return p.WithDefaults()
}

// WithDefaults returns a copy with zero fields replaced by the defaults
func (p ScoringPolicy) WithDefaults() ScoringPolicy {
	def := DefaultScoringPolicy()
	if p.CandidateCap == 0 {
		p.CandidateCap = def.CandidateCap
	}
	if p.PerRideCap == 0 {
		p.PerRideCap = def.PerRideCap
	}
	if p.MedBoundarySec == 0 {
		p.MedBoundarySec = def.MedBoundarySec
	}
	if p.NoTrainLivePenalty == 0 {
		p.NoTrainLivePenalty = def.NoTrainLivePenalty
	}
	if p.NoBusLivePenalty == 0 {
		p.NoBusLivePenalty = def.NoBusLivePenalty
	}
	if p.HighRiskPenalty == 0 {
		p.HighRiskPenalty = def.HighRiskPenalty
	}
	if p.MedRiskPenalty == 0 {
		p.MedRiskPenalty = def.MedRiskPenalty
	}
	if p.DefaultWalkMinutes == 0 {
		p.DefaultWalkMinutes = def.DefaultWalkMinutes
	}
	if p.WrapLateSec == 0 {
		p.WrapLateSec = def.WrapLateSec
	}
	if p.WrapEarlySec == 0 {
		p.WrapEarlySec = def.WrapEarlySec
	}
	return p
}
