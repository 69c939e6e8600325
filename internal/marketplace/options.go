// Package marketplace holds the records exchanged between businesses and
// student athletes: profiles, campaigns and the strategy attached to a
// campaign.
package marketplace

import (
	"fmt"
	"slices"
	"strings"
)

// Compensation is a way an athlete can be paid for a campaign.
type Compensation string

const (
	InKind     Compensation = "InKind"
	FixedFee   Compensation = "FixedFee"
	Commission Compensation = "Commission"
)

// Compensations lists every supported compensation type in display order.
var Compensations = []Compensation{InKind, FixedFee, Commission}

// Label is the human readable name of the compensation type. Unknown values
// are returned as is.
func (c Compensation) Label() string {
	switch c {
	case InKind:
		return "In-Kind (Products/Services)"
	case FixedFee:
		return "Fixed Fee"
	case Commission:
		return "Commission-Based"
	default:
		return string(c)
	}
}

func (c Compensation) Valid() bool {
	return slices.Contains(Compensations, c)
}

// MarketingOption is a kind of promotional work an athlete is open to.
type MarketingOption string

const (
	SocialMediaPosts    MarketingOption = "SocialMediaPosts"
	InPersonAppearances MarketingOption = "InPersonAppearances"
)

var MarketingOptions = []MarketingOption{SocialMediaPosts, InPersonAppearances}

func (m MarketingOption) Valid() bool {
	return slices.Contains(MarketingOptions, m)
}

// CampaignStatus tracks a campaign through its life.
type CampaignStatus string

const (
	StatusActive    CampaignStatus = "ACTIVE"
	StatusPending   CampaignStatus = "PENDING"
	StatusCompleted CampaignStatus = "COMPLETED"
	StatusCancelled CampaignStatus = "CANCELLED"
	StatusDraft     CampaignStatus = "DRAFT"
)

// DefaultStatus is assigned to campaigns created without a status.
const DefaultStatus = StatusPending

var CampaignStatuses = []CampaignStatus{StatusActive, StatusPending, StatusCompleted, StatusCancelled, StatusDraft}

func (s CampaignStatus) Valid() bool {
	return slices.Contains(CampaignStatuses, s)
}

// ParseCampaignStatus accepts any letter case. An empty string yields
// DefaultStatus.
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultStatus, nil
	}

	status := CampaignStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown campaign status %q", ErrInvalid, s)
	}
	return status, nil
}

// SportsOptions are the sports offered when a business creates a campaign.
// Athletes may still list any sport on their profile.
var SportsOptions = []string{
	"Baseball",
	"Basketball",
	"Football",
	"Golf",
	"Soccer",
	"Tennis",
	"Track and Field",
	"Volleyball",
	"Wrestling",
	"Other",
}
