package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warsaw-transit-tools/transfer-engine/route"
	"github.com/warsaw-transit-tools/transfer-engine/timetable"
)

// DefaultLimit is the result size used when the caller passes limit <= 0
const DefaultLimit = 5

// Fetch sizes per source. The bus side fetches more because several lines
// share one stop and matching filters per line.
const (
	trainFetchLimit = 10
	busFetchLimit   = 20
)

const secondsPerDay = 86400

// Configuration errors: the template itself is unusable. These are the only
// errors GetRecommendations returns; upstream failures degrade instead.
var (
	ErrMissingTrainSegment = errors.New("route template must contain a TRAIN segment")
	ErrMissingBusSegment   = errors.New("route template must contain a BUS segment")
	ErrNoBoardingStop      = errors.New("TRAIN segment has no boarding stop")
)

// DepartureSource supplies normalized departures per stop. Implementations
// must not return errors; unavailable sources yield empty slices.
type DepartureSource interface {
	GetDepartures(ctx context.Context, stopID string, limit int) []timetable.Departure
}

// Engine computes transfer recommendations from live departure data
type Engine struct {
	source DepartureSource
	now    func() time.Time
	newID  func() string
}

// New creates an Engine backed by the given departure source
func New(source DepartureSource) *Engine {
	return &Engine{source: source, now: time.Now, newID: uuid.NewString}
}

// GetRecommendations evaluates the snapshot against live departures and
// returns at most limit distinct train rides with their best bus
// connections, soonest ride first.
func (e *Engine) GetRecommendations(ctx context.Context, snap *route.Snapshot, limit int) (*Recommendation, error) {
	trainSeg := snap.TrainSegment()
	if trainSeg == nil {
		return nil, ErrMissingTrainSegment
	}
	busSeg := snap.BusSegment()
	if busSeg == nil {
		return nil, ErrMissingBusSegment
	}
	if trainSeg.FromStopID == "" {
		return nil, ErrNoBoardingStop
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	pol := snap.Scoring.WithDefaults()
	busStops := busSeg.StopIDs()

	// Fan out one fetch per stop and join. Each slot is written by exactly
	// one goroutine; a failed source simply leaves its slice empty.
	var boardingDeps, transferDeps []timetable.Departure
	busDeps := make([][]timetable.Departure, len(busStops))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		boardingDeps = e.source.GetDepartures(ctx, trainSeg.FromStopID, trainFetchLimit)
	}()
	if trainSeg.ToStopID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			transferDeps = e.source.GetDepartures(ctx, trainSeg.ToStopID, trainFetchLimit)
		}()
	}
	for i, stopID := range busStops {
		wg.Add(1)
		go func(i int, stopID string) {
			defer wg.Done()
			busDeps[i] = e.source.GetDepartures(ctx, stopID, busFetchLimit)
		}(i, stopID)
	}
	wg.Wait()

	status := LiveStatus{TrainSource: SourceAvailable, BusSource: SourceAvailable}
	if len(boardingDeps) == 0 {
		status.TrainSource = SourceUnavailable
	}
	busByStop := make(map[string][]timetable.Departure, len(busStops))
	anyBus := false
	for i, stopID := range busStops {
		busByStop[stopID] = busDeps[i]
		if len(busDeps[i]) > 0 {
			anyBus = true
		}
	}
	if !anyBus {
		status.BusSource = SourceUnavailable
	}

	candidates := BuildCandidates(boardingDeps, transferDeps, trainSeg.ToStopID != "")
	if len(candidates) > pol.CandidateCap {
		candidates = candidates[:pol.CandidateCap]
	}

	options := computeOptions(candidates, busSeg, busByStop, snap.Transfer, pol)
	options = dedupe(options, pol.PerRideCap)
	options = rank(options, limit)

	return &Recommendation{
		Options: options,
		Meta: Meta{
			TemplateID:       snap.Template.ID,
			RecommendationID: e.newID(),
			Timestamp:        e.now().UTC().Format(time.RFC3339),
			LiveStatus:       status,
		},
	}, nil
}

// computeOptions evaluates every candidate against every allowed bus line
// and stop variant.
func computeOptions(candidates []TrainCandidate, busSeg *route.Segment, busByStop map[string][]timetable.Departure, transfer route.TransferPolicy, pol route.ScoringPolicy) []TransferOption {
	options := make([]TransferOption, 0)
	for _, cand := range candidates {
		for _, line := range busSeg.AllowedLines {
			for _, variant := range busSeg.VariantsForLine(line) {
				walkSec := transfer.WalkSeconds(line, variant.Variant, pol.DefaultWalkMinutes)
				readySec := cand.TransferTimeSec + transfer.ExitBufferSec + walkSec

				bus, bufferSec, ok := matchBus(busByStop[variant.StopID], line, readySec, pol)
				if !ok {
					continue
				}

				risk := classifyRisk(bufferSec, cand.Boarding.HasLive(), transfer, pol)
				warnings := make([]string, 0, len(cand.Warnings)+2)
				warnings = append(warnings, cand.Warnings...)
				if !cand.Boarding.HasLive() {
					warnings = append(warnings, WarningNoTrainLive)
				}
				if !bus.HasLive() {
					warnings = append(warnings, fmt.Sprintf("no live data for bus line %s", line))
				}

				variantLabel := variant.Variant
				idVariant := variantLabel
				if idVariant == "" {
					idVariant = "X"
				}
				options = append(options, TransferOption{
					ID:                   fmt.Sprintf("%d_%s_%s", cand.Boarding.ScheduledSec, line, idVariant),
					Train:                cand.Boarding,
					TrainTransfer:        cand.Transfer,
					TrainTransferTimeSec: cand.TransferTimeSec,
					Bus:                  bus,
					BusStopVariant:       variantLabel,
					WalkSec:              walkSec,
					ExitBufferSec:        transfer.ExitBufferSec,
					MinTransferBufferSec: transfer.MinTransferBufferSec,
					ReadySec:             readySec,
					BufferSec:            bufferSec,
					Risk:                 risk,
					Score:                scoreOption(bufferSec, risk, cand.Boarding.HasLive(), bus.HasLive(), pol),
					Warnings:             warnings,
				})
			}
		}
	}
	return options
}

// matchBus selects the first departure of the line at or after readySec.
// A readiness time late enough in the service day may roll over and match
// post-midnight departures; the buffer is then computed across midnight.
func matchBus(deps []timetable.Departure, line string, readySec int, pol route.ScoringPolicy) (timetable.Departure, int, bool) {
	for _, d := range deps {
		if d.Line != line {
			continue
		}
		if t := d.EffectiveSec(); t >= readySec {
			return d, t - readySec, true
		}
	}
	if readySec >= pol.WrapLateSec {
		for _, d := range deps {
			if d.Line != line {
				continue
			}
			if t := d.EffectiveSec(); t < pol.WrapEarlySec {
				return d, t + secondsPerDay - readySec, true
			}
		}
	}
	return timetable.Departure{}, 0, false
}

// classifyRisk maps the buffer to a risk level. A nominally LOW transfer
// without live train data is downgraded to MED.
func classifyRisk(bufferSec int, trainLive bool, transfer route.TransferPolicy, pol route.ScoringPolicy) Risk {
	if bufferSec < transfer.MinTransferBufferSec {
		return RiskHigh
	}
	if bufferSec <= pol.MedBoundarySec {
		return RiskMed
	}
	if !trainLive {
		return RiskMed
	}
	return RiskLow
}

// scoreOption computes the ranking score: the buffer minus penalties for
// missing live data and elevated risk. Higher is better.
func scoreOption(bufferSec int, risk Risk, trainLive, busLive bool, pol route.ScoringPolicy) int {
	score := bufferSec
	if !trainLive {
		score -= pol.NoTrainLivePenalty
	}
	if !busLive {
		score -= pol.NoBusLivePenalty
	}
	switch risk {
	case RiskHigh:
		score -= pol.HighRiskPenalty
	case RiskMed:
		score -= pol.MedRiskPenalty
	}
	return score
}

// rideKey identifies a physical vehicle run for deduplication. Without a
// trip identity the line plus scheduled time stands in.
func rideKey(d timetable.Departure) string {
	if d.TripID != "" {
		return d.TripID
	}
	return fmt.Sprintf("%s@%d", d.Line, d.ScheduledSec)
}

// dedupe keeps the best-scoring option per (train ride, bus ride, variant)
// and then at most perRideCap alternatives per train ride, ordered by score
// descending.
func dedupe(options []TransferOption, perRideCap int) []TransferOption {
	best := make(map[string]TransferOption)
	order := make([]string, 0, len(options))
	for _, opt := range options {
		key := rideKey(opt.Train) + "|" + rideKey(opt.Bus) + "|" + opt.BusStopVariant
		if cur, ok := best[key]; ok {
			if opt.Score > cur.Score {
				best[key] = opt
			}
			continue
		}
		best[key] = opt
		order = append(order, key)
	}

	groups := make(map[string][]TransferOption)
	groupOrder := make([]string, 0)
	for _, key := range order {
		opt := best[key]
		tk := rideKey(opt.Train)
		if _, ok := groups[tk]; !ok {
			groupOrder = append(groupOrder, tk)
		}
		groups[tk] = append(groups[tk], opt)
	}

	out := make([]TransferOption, 0, len(order))
	for _, tk := range groupOrder {
		group := groups[tk]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Score != group[j].Score {
				return group[i].Score > group[j].Score
			}
			return group[i].Bus.EffectiveSec() < group[j].Bus.EffectiveSec()
		})
		if perRideCap > 0 && len(group) > perRideCap {
			group = group[:perRideCap]
		}
		out = append(out, group...)
	}
	return out
}

// rank orders options soonest train first (score breaks ties within a
// ride) and truncates to limit distinct train rides.
func rank(options []TransferOption, limit int) []TransferOption {
	sort.SliceStable(options, func(i, j int) bool {
		ti, tj := options[i].Train.EffectiveSec(), options[j].Train.EffectiveSec()
		if ti != tj {
			return ti < tj
		}
		if options[i].Score != options[j].Score {
			return options[i].Score > options[j].Score
		}
		return options[i].Bus.EffectiveSec() < options[j].Bus.EffectiveSec()
	})

	seen := make(map[string]struct{})
	out := make([]TransferOption, 0, len(options))
	for _, opt := range options {
		tk := rideKey(opt.Train)
		if _, ok := seen[tk]; !ok {
			if len(seen) >= limit {
				continue
			}
			seen[tk] = struct{}{}
		}
		out = append(out, opt)
	}
	return out
}
