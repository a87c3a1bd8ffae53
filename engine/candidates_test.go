package engine

import (
	"testing"

	"github.com/warsaw-transit-tools/transfer-engine/timetable"
)

func trainDep(tripID string, scheduled int, live *int) timetable.Departure {
	d := timetable.Departure{
		TripID:       tripID,
		Mode:         timetable.ModeTrain,
		Agency:       "WKD",
		Line:         "A1",
		ScheduledSec: scheduled,
		LiveSec:      live,
	}
	if live != nil {
		delay := *live - scheduled
		d.DelaySec = &delay
	}
	return d
}

func intPtr(v int) *int { return &v }

func hasWarning(warnings []string, w string) bool {
	for _, got := range warnings {
		if got == w {
			return true
		}
	}
	return false
}

func TestBuildCandidatesCorrelation(t *testing.T) {
	boarding := []timetable.Departure{
		trainDep("t1", 28800, intPtr(28860)),
		trainDep("t2", 30000, nil),
	}
	transfer := []timetable.Departure{
		trainDep("t1", 29400, intPtr(29460)),
		trainDep("t2", 30600, nil),
	}
	candidates := BuildCandidates(boarding, transfer, true)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Transfer == nil || candidates[0].TransferTimeSec != 29460 {
		t.Errorf("candidate 0: expected live transfer arrival 29460, got %+v", candidates[0])
	}
	if candidates[1].TransferTimeSec != 30600 {
		t.Errorf("candidate 1: expected scheduled transfer arrival 30600, got %d", candidates[1].TransferTimeSec)
	}
	if len(candidates[0].Warnings) != 0 {
		t.Errorf("matched candidate should carry no warnings, got %v", candidates[0].Warnings)
	}
}

func TestBuildCandidatesDirectionFilter(t *testing.T) {
	// t2 terminates before the transfer stop and must be discarded
	boarding := []timetable.Departure{
		trainDep("t1", 28800, nil),
		trainDep("t2", 29000, nil),
	}
	transfer := []timetable.Departure{
		trainDep("t1", 29400, nil),
	}
	candidates := BuildCandidates(boarding, transfer, true)
	if len(candidates) != 1 {
		t.Fatalf("expected wrong-direction train to be dropped, got %d candidates", len(candidates))
	}
	if candidates[0].Boarding.TripID != "t1" {
		t.Errorf("wrong candidate survived: %+v", candidates[0])
	}
}

func TestBuildCandidatesKeepsUnidentifiedTrains(t *testing.T) {
	// A boarding departure without a trip identity is kept best-effort
	// even while direction filtering is active, with a warning.
	boarding := []timetable.Departure{
		trainDep("", 28800, nil),
		trainDep("t1", 29000, nil),
	}
	transfer := []timetable.Departure{
		trainDep("t1", 29600, nil),
	}
	candidates := BuildCandidates(boarding, transfer, true)
	if len(candidates) != 2 {
		t.Fatalf("expected unidentified train to be kept, got %d candidates", len(candidates))
	}
	unidentified := candidates[0]
	if !hasWarning(unidentified.Warnings, WarningUnconfirmedTransfer) {
		t.Errorf("expected %q warning, got %v", WarningUnconfirmedTransfer, unidentified.Warnings)
	}
	if !hasWarning(unidentified.Warnings, WarningNoTransferArrival) {
		t.Errorf("expected %q warning, got %v", WarningNoTransferArrival, unidentified.Warnings)
	}
	if unidentified.TransferTimeSec != 28800 {
		t.Errorf("expected boarding-time fallback, got %d", unidentified.TransferTimeSec)
	}
}

func TestBuildCandidatesNoTransferStop(t *testing.T) {
	boarding := []timetable.Departure{trainDep("t1", 28800, nil)}
	candidates := BuildCandidates(boarding, nil, false)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(candidates[0].Warnings) != 0 {
		t.Errorf("no transfer stop configured: no degradation warning expected, got %v", candidates[0].Warnings)
	}
	if candidates[0].TransferTimeSec != 28800 {
		t.Errorf("expected boarding time, got %d", candidates[0].TransferTimeSec)
	}
}

func TestBuildCandidatesIgnoresBusRecordsAtTransferStop(t *testing.T) {
	busAtTransfer := timetable.Departure{
		TripID:       "t1",
		Mode:         timetable.ModeBus,
		Line:         "189",
		ScheduledSec: 29400,
	}
	boarding := []timetable.Departure{trainDep("t1", 28800, nil)}
	candidates := BuildCandidates(boarding, []timetable.Departure{busAtTransfer}, true)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	// the bus record must not be treated as the train's arrival
	if candidates[0].Transfer != nil {
		t.Errorf("bus record misused as transfer arrival: %+v", candidates[0].Transfer)
	}
}
