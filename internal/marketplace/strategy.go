package marketplace

import "fmt"

// CampaignStrategy is the marketing plan attached to a campaign. It is
// usually filled from a generated draft and then edited by the business.
type CampaignStrategy struct {
	AISummary           string  `json:"aiSummary"`
	Objectives          string  `json:"objectives"`
	TargetAudienceMin   int     `json:"targetAudienceMin"`
	TargetAudienceMax   int     `json:"targetAudienceMax"`
	AthleteIntegration  string  `json:"athleteIntegration"`
	Channels            string  `json:"channels"`
	Timeline            string  `json:"timeline"`
	BudgetBreakdown     string  `json:"budgetBreakdown"`
	CreativeConcept     string  `json:"creativeConcept"`
	BrandTone           string  `json:"brandTone"`
	InfluencerAngle     string  `json:"influencerAngle"`
	BrandMentions       string  `json:"brandMentions"`
	Metrics             string  `json:"metrics"`
	Questions           string  `json:"questions"`
	ProductLaunch       bool    `json:"productLaunch"`
	EngagementGoal      *int    `json:"engagementGoal"`
	ConversionGoal      *int    `json:"conversionGoal"`
	ImpressionsGoal     *int    `json:"impressionsGoal"`
	ContentDeliverables *string `json:"contentDeliverables"`
	EventPromotion      bool    `json:"eventPromotion"`
	CSRInitiative       bool    `json:"csrInitiative"`
}

// clone copies s so that decoding into the copy cannot write through the
// goal pointers.
func (s CampaignStrategy) clone() CampaignStrategy {
	s.EngagementGoal = clonePtr(s.EngagementGoal)
	s.ConversionGoal = clonePtr(s.ConversionGoal)
	s.ImpressionsGoal = clonePtr(s.ImpressionsGoal)
	s.ContentDeliverables = clonePtr(s.ContentDeliverables)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (s *CampaignStrategy) Validate() error {
	if s.TargetAudienceMin < 0 || s.TargetAudienceMax < 0 {
		return fmt.Errorf("%w: target audience ages must not be negative", ErrInvalid)
	}
	if s.TargetAudienceMax > 0 && s.TargetAudienceMin > s.TargetAudienceMax {
		return fmt.Errorf("%w: target audience min %d exceeds max %d", ErrInvalid, s.TargetAudienceMin, s.TargetAudienceMax)
	}
	for name, goal := range map[string]*int{
		"engagement":  s.EngagementGoal,
		"conversion":  s.ConversionGoal,
		"impressions": s.ImpressionsGoal,
	} {
		if goal != nil && *goal < 0 {
			return fmt.Errorf("%w: %s goal must not be negative", ErrInvalid, name)
		}
	}
	return nil
}
