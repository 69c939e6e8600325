package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/logger"
	"github.com/randofan/varsitylink/internal/marketplace"
)

// handleBusiness serves POST and GET /api/business. GET takes an optional id.
func (s *Server) handleBusiness(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBusiness(w, r)
	case http.MethodGet:
		s.getBusinesses(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) createBusiness(w http.ResponseWriter, r *http.Request) {
	var b marketplace.Business
	if err := decodeBody(r, &b); err != nil {
		s.fail(w, r, err)
		return
	}
	b.ID = ""
	b.Campaigns = nil

	if err := b.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.CreateBusiness(r.Context(), &b); err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("business created", zap.String(logger.FieldBusiness, b.ID))
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) getBusinesses(w http.ResponseWriter, r *http.Request) {
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		b, err := s.store.GetBusiness(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
		return
	}

	all, err := s.store.ListBusinesses(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}
