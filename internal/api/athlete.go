package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/logger"
	"github.com/randofan/varsitylink/internal/marketplace"
	"github.com/randofan/varsitylink/internal/store"
)

// handleAthlete serves POST and GET /api/student-athlete. GET takes an
// optional id or sport.
func (s *Server) handleAthlete(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createAthlete(w, r)
	case http.MethodGet:
		s.getAthletes(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) createAthlete(w http.ResponseWriter, r *http.Request) {
	var a marketplace.StudentAthlete
	if err := decodeBody(r, &a); err != nil {
		s.fail(w, r, err)
		return
	}
	a.ID = ""
	a.CampaignIDs = nil

	if err := a.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.CreateAthlete(r.Context(), &a); err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("student athlete created",
		zap.String(logger.FieldAthlete, a.ID),
		zap.String("sport", a.Sport),
	)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) getAthletes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if id := strings.TrimSpace(query.Get("id")); id != "" {
		a, err := s.store.GetAthlete(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
		return
	}

	athletes, err := s.store.ListAthletes(r.Context(), store.AthleteFilter{Sport: strings.TrimSpace(query.Get("sport"))})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, athletes)
}
