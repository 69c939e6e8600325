package api

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/logger"
	"github.com/randofan/varsitylink/internal/store"
)

type matchRequest struct {
	CampaignID string `json:"campaignId"`
	// Sport narrows the pool before scoring.
	Sport string `json:"sport"`
}

// handleMatch serves POST /api/match-athletes. It answers with every athlete
// in the pool, best match first, each with its score.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req matchRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.CampaignID) == "" {
		s.fail(w, r, fmt.Errorf("%w: campaignId is required", ErrBadRequest))
		return
	}

	brief, err := s.store.GetCampaign(r.Context(), req.CampaignID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	pool, err := s.store.ListAthletes(r.Context(), store.AthleteFilter{Sport: req.Sport})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ranked, err := s.scorer.ScoreAll(brief, pool)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.ObserveMatch(len(ranked))

	s.logger.Debug("athletes matched",
		zap.String(logger.FieldCampaign, brief.ID),
		zap.Int("candidates", len(ranked)),
		zap.Strings("terms", s.scorer.Terms()),
	)
	writeJSON(w, http.StatusOK, ranked)
}
