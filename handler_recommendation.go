package transferengine

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/warsaw-transit-tools/transfer-engine/engine"
	"github.com/warsaw-transit-tools/transfer-engine/route"
)

func (s *Service) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.snapshot == nil {
		writeError(w, http.StatusNotFound, "no route template configured")
		return
	}
	s.serveRecommendations(w, r, s.snapshot)
}

// handlePostRecommendations accepts an already-resolved snapshot from the
// template/auth layer, which lives outside this service.
func (s *Service) handlePostRecommendations(w http.ResponseWriter, r *http.Request) {
	var snap route.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "malformed snapshot: "+err.Error())
		return
	}
	snap.Scoring = snap.Scoring.WithDefaults()
	s.serveRecommendations(w, r, &snap)
}

func (s *Service) serveRecommendations(w http.ResponseWriter, r *http.Request, snap *route.Snapshot) {
	limit := engine.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	rec, err := s.engine.GetRecommendations(r.Context(), snap, limit)
	if err != nil {
		if errors.Is(err, engine.ErrMissingTrainSegment) ||
			errors.Is(err, engine.ErrMissingBusSegment) ||
			errors.Is(err, engine.ErrNoBoardingStop) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
