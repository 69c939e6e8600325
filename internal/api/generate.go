package api

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/ai"
	"github.com/randofan/varsitylink/internal/drafting"
	"github.com/randofan/varsitylink/internal/logger"
	"github.com/randofan/varsitylink/internal/marketplace"
)

type generateRequest struct {
	ai.DraftRequest

	// Kind selects the draft schema. Empty means campaign-strategy.
	Kind string `json:"kind"`
}

type generateResponse struct {
	DraftCampaign drafting.Draft        `json:"draftCampaign"`
	Campaign      *marketplace.Campaign `json:"campaign,omitempty"`
}

// handleGenerate serves POST /api/generate. With a campaignId the draft is
// also applied to that campaign and saved.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if s.drafter == nil {
		s.fail(w, r, ErrDraftsDisabled)
		return
	}

	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	kind := strings.TrimSpace(req.Kind)
	if kind == "" {
		kind = drafting.CampaignStrategy
	}
	if _, err := s.registry.Lookup(kind); err != nil {
		s.fail(w, r, err)
		return
	}

	var campaign *marketplace.Campaign
	if req.CampaignID != "" {
		if kind != drafting.CampaignStrategy {
			s.fail(w, r, fmt.Errorf("%w: only %s drafts can be saved to a campaign", ErrBadRequest, drafting.CampaignStrategy))
			return
		}
		c, err := s.store.GetCampaign(r.Context(), req.CampaignID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		campaign = c
	}

	draft, err := s.drafter.Draft(r.Context(), req.DraftRequest, kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if campaign != nil {
		if err := campaign.ApplyStrategy(draft); err != nil {
			s.fail(w, r, fmt.Errorf("%w: %w", ErrUndecodableDraft, err))
			return
		}
		if err := s.store.SaveStrategy(r.Context(), campaign.ID, campaign.CampaignStrategy); err != nil {
			s.fail(w, r, err)
			return
		}
		s.logger.Info("campaign strategy saved", logger.DraftFields(kind, campaign.ID)...)
	}

	s.logger.Debug("draft generated", zap.String(logger.FieldDraftKind, kind), zap.Int("fields", len(draft)))
	writeJSON(w, http.StatusOK, generateResponse{DraftCampaign: draft, Campaign: campaign})
}
