// Package ai declares the generative collaborators used to draft campaign
// strategies.
package ai

import (
	"context"
	"errors"

	"github.com/randofan/varsitylink/internal/drafting"
)

// ErrGeneration wraps failures of the generative model call itself, as
// opposed to failures to understand its answer.
var ErrGeneration = errors.New("generation failed")

// ErrInvalidRequest reports a draft request that cannot be sent to a model.
var ErrInvalidRequest = errors.New("invalid draft request")

// Generator sends one prompt to a generative model and returns its text.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// DraftRequest is what a business tells the strategist about a campaign.
type DraftRequest struct {
	CampaignSummary     string   `json:"campaignSummary"`
	Budget              string   `json:"budget"`
	AthletePartnerCount string   `json:"athletePartnerCount"`
	Sports              []string `json:"sports"`
	CustomSport         string   `json:"customSport"`
	CampaignID          string   `json:"campaignId,omitempty"`
}

// Drafter produces a normalized draft of the given kind. Parse failures are
// returned as *drafting.ParseError; model failures wrap ErrGeneration.
type Drafter interface {
	Draft(ctx context.Context, req DraftRequest, kind string) (drafting.Draft, error)
}
