package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/logger"
	"github.com/randofan/varsitylink/internal/marketplace"
	"github.com/randofan/varsitylink/internal/store"
)

// campaignRequest is a campaign as the create form posts it. Athletes may be
// given as ids or as the athlete objects the form holds.
type campaignRequest struct {
	marketplace.Campaign

	StudentAthletes []athleteRef `json:"studentAthletes"`
}

type athleteRef struct {
	ID string `json:"id"`
}

func (req campaignRequest) campaign() (marketplace.Campaign, error) {
	c := req.Campaign
	c.ID = ""
	for _, ref := range req.StudentAthletes {
		if ref.ID != "" {
			c.AthleteIDs = append(c.AthleteIDs, ref.ID)
		}
	}

	status, err := marketplace.ParseCampaignStatus(string(c.Status))
	if err != nil {
		return c, err
	}
	c.Status = status

	return c, c.Validate()
}

// handleCampaign serves POST and GET /api/campaign. GET takes an optional id
// or businessId.
func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createCampaign(w, r)
	case http.MethodGet:
		s.getCampaigns(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	c, err := req.campaign()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.CreateCampaign(r.Context(), &c); err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("campaign created",
		zap.String(logger.FieldCampaign, c.ID),
		zap.String(logger.FieldBusiness, c.BusinessID),
		zap.Int("athletes", len(c.AthleteIDs)),
	)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) getCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if id := strings.TrimSpace(query.Get("id")); id != "" {
		c, err := s.store.GetCampaign(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
		return
	}

	campaigns, err := s.store.ListCampaigns(r.Context(), store.CampaignFilter{BusinessID: strings.TrimSpace(query.Get("businessId"))})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}
