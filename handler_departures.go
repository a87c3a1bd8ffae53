package transferengine

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Service) handleDepartures(w http.ResponseWriter, r *http.Request) {
	stopID := chi.URLParam(r, "stopID")
	if stopID == "" {
		writeError(w, http.StatusBadRequest, "stop id required")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, s.departures.GetDepartures(r.Context(), stopID, limit))
}

func (s *Service) handleTripDetails(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if tripID == "" {
		writeError(w, http.StatusBadRequest, "trip id required")
		return
	}
	details, err := s.trips.GetTripDetails(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if r.URL.Query().Get("enrich") == "1" {
		s.trips.EnrichDelays(r.Context(), details, s.departures)
	}
	writeJSON(w, http.StatusOK, details)
}
