package timetable

// Mode is the transport mode of a departure
type Mode string

const (
	ModeTrain Mode = "TRAIN"
	ModeBus   Mode = "BUS"
)

// Features carries vehicle accessibility flags
type Features struct {
	LowFloor        bool `json:"low_floor"`
	AirConditioning bool `json:"air_conditioning"`
	TicketMachine   bool `json:"ticket_machine"`
}

// Departure is a normalized arrival/departure event at a stop.
// ScheduledSec is always set; LiveSec is nil when the upstream has no
// real-time data for the vehicle.
type Departure struct {
	TripID       string    `json:"trip_id,omitempty"`
	Mode         Mode      `json:"mode"`
	Agency       string    `json:"agency"`
	Line         string    `json:"line"`
	Headsign     string    `json:"headsign"`
	StopID       string    `json:"stop_id"`
	ServiceDate  string    `json:"date"` // YYYYMMDD
	ScheduledSec int       `json:"scheduled_sec"`
	LiveSec      *int      `json:"live_sec"`
	DelaySec     *int      `json:"delay_sec"`
	VehicleID    string    `json:"vehicle_id,omitempty"`
	Features     *Features `json:"features,omitempty"`
	SourceType   string    `json:"source_type"`
}

// EffectiveSec returns the live time when present, else the scheduled time.
// Live data is authoritative for matching and ranking.
func (d Departure) EffectiveSec() int {
	if d.LiveSec != nil {
		return *d.LiveSec
	}
	return d.ScheduledSec
}

// HasLive reports whether real-time data is present for this departure
func (d Departure) HasLive() bool { return d.LiveSec != nil }

// rawDeparture covers both known upstream JSON schemas. The legacy schema
// uses line/direction/day/departure_time; the current one uses
// route_id/headsign/date/scheduled_sec. Only one set is populated per
// record, and optional fields may be absent in either.
type rawDeparture struct {
	VehicleTypeID *int   `json:"vehicle_type_id"`
	TripID        string `json:"trip_id"`

	Line    string `json:"line"`
	RouteID string `json:"route_id"`

	Direction string `json:"direction"`
	Headsign  string `json:"headsign"`

	StopID string `json:"stop_id"`

	Day  string `json:"day"`  // YYYY-MM-DD
	Date string `json:"date"` // YYYYMMDD

	DepartureTime *int `json:"departure_time"`
	ScheduledSec  *int `json:"scheduled_sec"`

	DepartureTimeLive *int `json:"departure_time_live"`
	LiveSec           *int `json:"live_sec"`

	VehicleID  string       `json:"vehicle_id"`
	Features   *rawFeatures `json:"features"`
	SourceType string       `json:"source_type"`
}

type rawFeatures struct {
	LowFloor        *bool `json:"low_floor"`
	AirConditioning *bool `json:"air_conditioning"`
	TicketMachine   *bool `json:"ticket_machine"`
}
