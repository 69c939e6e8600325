package api

import (
	"net/http"

	"github.com/randofan/varsitylink/internal/marketplace"
)

type labeled struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type optionsResponse struct {
	Sports           []string  `json:"sports"`
	Compensation     []labeled `json:"compensation"`
	MarketingOptions []string  `json:"marketingOptions"`
	Statuses         []string  `json:"statuses"`
	DraftKinds       []string  `json:"draftKinds"`
}

// handleOptions serves GET /api/options, the choices the signup and campaign
// forms offer.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	resp := optionsResponse{
		Sports:     marketplace.SportsOptions,
		DraftKinds: s.registry.Kinds(),
	}
	for _, c := range marketplace.Compensations {
		resp.Compensation = append(resp.Compensation, labeled{Value: string(c), Label: c.Label()})
	}
	for _, m := range marketplace.MarketingOptions {
		resp.MarketingOptions = append(resp.MarketingOptions, string(m))
	}
	for _, st := range marketplace.CampaignStatuses {
		resp.Statuses = append(resp.Statuses, string(st))
	}

	writeJSON(w, http.StatusOK, resp)
}
