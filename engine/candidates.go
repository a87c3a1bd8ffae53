package engine

import (
	"github.com/warsaw-transit-tools/transfer-engine/timetable"
)

// Warning texts attached to candidates and options
const (
	WarningUnconfirmedTransfer = "train not confirmed to reach transfer stop"
	WarningNoTransferArrival   = "no arrival data for transfer stop, using boarding time"
	WarningNoTrainLive         = "no live data for train"
)

// BuildCandidates correlates boarding-stop departures with transfer-stop
// departures by trip identity and resolves each ride's time at the
// transfer point. transferConfigured reports whether the template names a
// transfer stop at all; it controls the degradation warning when no
// arrival record can be matched.
//
// When transfer-stop data with trip identities exists, boarding departures
// whose trip identity is absent from it are dropped: that train does not
// continue to the transfer stop. Boarding departures carrying no trip
// identity at all are kept with a warning; the WKD feed omits trip ids for
// whole service days and dropping those rides would blank the board.
//
// The result preserves chronological order and is not truncated; the
// caller bounds how many candidates it evaluates.
func BuildCandidates(boarding, transfer []timetable.Departure, transferConfigured bool) []TrainCandidate {
	byTrip := make(map[string]timetable.Departure)
	for _, dep := range transfer {
		if dep.Mode != timetable.ModeTrain || dep.TripID == "" {
			continue
		}
		// keep the earliest record per trip
		if _, ok := byTrip[dep.TripID]; !ok {
			byTrip[dep.TripID] = dep
		}
	}
	filterByDirection := transferConfigured && len(byTrip) > 0

	candidates := make([]TrainCandidate, 0, len(boarding))
	for _, dep := range boarding {
		c := TrainCandidate{Boarding: dep}
		if dep.TripID != "" {
			if arrival, ok := byTrip[dep.TripID]; ok {
				arrivalCopy := arrival
				c.Transfer = &arrivalCopy
				c.TransferTimeSec = arrival.EffectiveSec()
				candidates = append(candidates, c)
				continue
			}
			if filterByDirection {
				// known trip that never reaches the transfer stop
				continue
			}
		} else if filterByDirection {
			c.Warnings = append(c.Warnings, WarningUnconfirmedTransfer)
		}
		c.TransferTimeSec = dep.EffectiveSec()
		if transferConfigured {
			c.Warnings = append(c.Warnings, WarningNoTransferArrival)
		}
		candidates = append(candidates, c)
	}
	return candidates
}
