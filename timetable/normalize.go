package timetable

import (
	"sort"
	"strconv"
	"strings"
)

// Vehicle type codes used by the upstream API
const (
	vehicleTypeTrain = 2
)

// Normalizer converts raw upstream records into Departures.
// trainLines is the set of line labels classified as TRAIN when the record
// carries no vehicle type code.
type Normalizer struct {
	trainLines map[string]struct{}
}

// NewNormalizer creates a Normalizer with the given train line labels
func NewNormalizer(trainLines []string) *Normalizer {
	n := &Normalizer{trainLines: make(map[string]struct{}, len(trainLines))}
	for _, l := range trainLines {
		n.trainLines[strings.ToUpper(l)] = struct{}{}
	}
	return n
}

// Normalize converts raw records for one stop into Departures ordered by
// effective time ascending. Records missing a scheduled time are dropped;
// every other field tolerates absence.
func (n *Normalizer) Normalize(raws []rawDeparture, stopID string) []Departure {
	out := make([]Departure, 0, len(raws))
	for _, raw := range raws {
		scheduled, ok := firstInt(raw.ScheduledSec, raw.DepartureTime)
		if !ok {
			continue
		}
		d := Departure{
			TripID:       raw.TripID,
			Line:         firstString(raw.RouteID, raw.Line),
			Headsign:     firstString(raw.Headsign, raw.Direction),
			StopID:       firstString(raw.StopID, stopID),
			ServiceDate:  normalizeDate(firstString(raw.Date, raw.Day)),
			ScheduledSec: scheduled,
			VehicleID:    raw.VehicleID,
			SourceType:   raw.SourceType,
		}
		if live, ok := firstInt(raw.LiveSec, raw.DepartureTimeLive); ok {
			liveCopy := live
			delay := live - scheduled
			d.LiveSec = &liveCopy
			d.DelaySec = &delay
		}
		d.Mode, d.Agency = n.classify(raw.VehicleTypeID, d.Line)
		if d.SourceType == "" && raw.VehicleTypeID != nil {
			d.SourceType = strconv.Itoa(*raw.VehicleTypeID)
		}
		if raw.Features != nil {
			d.Features = &Features{
				LowFloor:        boolValue(raw.Features.LowFloor),
				AirConditioning: boolValue(raw.Features.AirConditioning),
				TicketMachine:   boolValue(raw.Features.TicketMachine),
			}
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveSec() < out[j].EffectiveSec()
	})
	return out
}

// classify derives mode and agency from the vehicle type code when present,
// else from the known train line labels. Everything else is a bus.
func (n *Normalizer) classify(vehicleTypeID *int, line string) (Mode, string) {
	if vehicleTypeID != nil {
		if *vehicleTypeID == vehicleTypeTrain {
			return ModeTrain, "WKD"
		}
		return ModeBus, "ZTM"
	}
	if _, ok := n.trainLines[strings.ToUpper(line)]; ok {
		return ModeTrain, "WKD"
	}
	return ModeBus, "ZTM"
}

// normalizeDate collapses YYYY-MM-DD into YYYYMMDD
func normalizeDate(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(vals ...*int) (int, bool) {
	for _, v := range vals {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

func boolValue(b *bool) bool { return b != nil && *b }
