package trips

// Stop is one stop along a trip's path
type Stop struct {
	ID           string  `json:"stop_id"`
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Sequence     int     `json:"sequence"`
	ScheduledSec int     `json:"scheduled_sec"`
	DelaySec     *int    `json:"delay_sec"` // estimated, filled by EnrichDelays
}

// TripDetails is the ordered stop list and path geometry of one trip
type TripDetails struct {
	TripID   string      `json:"trip_id"`
	Line     string      `json:"line"`
	Headsign string      `json:"headsign"`
	Stops    []Stop      `json:"stops"`
	Path     [][]float64 `json:"path"` // [lon, lat] pairs
}

// rawTripDetails tolerates the same schema drift as the timetable API:
// line vs route identifier and direction vs headsign.
type rawTripDetails struct {
	TripID    string      `json:"trip_id"`
	Line      string      `json:"line"`
	RouteID   string      `json:"route_id"`
	Direction string      `json:"direction"`
	Headsign  string      `json:"headsign"`
	Stops     []rawStop   `json:"stops"`
	Path      [][]float64 `json:"path"`
}

type rawStop struct {
	StopID        string  `json:"stop_id"`
	Name          string  `json:"name"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Sequence      int     `json:"sequence"`
	ScheduledSec  *int    `json:"scheduled_sec"`
	DepartureTime *int    `json:"departure_time"`
}
