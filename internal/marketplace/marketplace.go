package marketplace

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/randofan/varsitylink/internal/drafting"
)

// ErrInvalid wraps every validation failure of a marketplace record.
var ErrInvalid = errors.New("invalid record")

// Socials are the optional social media handles of a profile.
type Socials struct {
	Instagram string `json:"instagram,omitempty" yaml:"instagram"`
	TikTok    string `json:"tiktok,omitempty" yaml:"tiktok"`
	Pinterest string `json:"pinterest,omitempty" yaml:"pinterest"`
	LinkedIn  string `json:"linkedIn,omitempty" yaml:"linkedIn"`
	Twitter   string `json:"twitter,omitempty" yaml:"twitter"`
}

type Business struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	MissionStatement string `json:"missionStatement"`
	Website          string `json:"website,omitempty"`
	Socials
	CreatedAt time.Time `json:"createdAt"`

	// Campaigns is filled only when a single business is loaded.
	Campaigns []Campaign `json:"campaigns,omitempty"`
}

func (b *Business) Validate() error {
	if err := required("business", map[string]string{"name": b.Name, "email": b.Email}); err != nil {
		return err
	}
	return validEmail("business", b.Email)
}

type StudentAthlete struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Email            string            `json:"email" yaml:"email"`
	Image            string            `json:"image,omitempty" yaml:"image"`
	Age              int               `json:"age" yaml:"age"`
	Sport            string            `json:"sport" yaml:"sport"`
	Major            string            `json:"major" yaml:"major"`
	Gender           string            `json:"gender" yaml:"gender"`
	Ethnicity        string            `json:"ethnicity" yaml:"ethnicity"`
	IntroBlurb       string            `json:"introBlurb,omitempty" yaml:"introBlurb"`
	Socials          `yaml:",inline"`
	Industries       []string          `json:"industries" yaml:"industries"`
	MarketingOptions []MarketingOption `json:"marketingOptions" yaml:"marketingOptions"`
	HoursPerWeek     *int              `json:"hoursPerWeek,omitempty" yaml:"hoursPerWeek"`
	Compensation     []Compensation    `json:"compensation" yaml:"compensation"`
	CreatedAt        time.Time         `json:"createdAt" yaml:"-"`

	// CampaignIDs is filled only when a single athlete is loaded.
	CampaignIDs []string `json:"campaignIds,omitempty" yaml:"-"`
}

// Defaults replaces nil lists with empty ones so they encode as [].
func (a *StudentAthlete) Defaults() {
	if a.Industries == nil {
		a.Industries = []string{}
	}
	if a.MarketingOptions == nil {
		a.MarketingOptions = []MarketingOption{}
	}
	if a.Compensation == nil {
		a.Compensation = []Compensation{}
	}
}

func (a *StudentAthlete) Validate() error {
	if err := required("athlete", map[string]string{"name": a.Name, "email": a.Email, "sport": a.Sport}); err != nil {
		return err
	}
	if err := validEmail("athlete", a.Email); err != nil {
		return err
	}
	if a.Age <= 0 {
		return fmt.Errorf("%w: athlete age must be positive, got %d", ErrInvalid, a.Age)
	}
	if a.HoursPerWeek != nil && *a.HoursPerWeek < 0 {
		return fmt.Errorf("%w: athlete hours per week must not be negative", ErrInvalid)
	}
	for _, opt := range a.MarketingOptions {
		if !opt.Valid() {
			return fmt.Errorf("%w: unknown marketing option %q", ErrInvalid, opt)
		}
	}
	for _, c := range a.Compensation {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown compensation %q", ErrInvalid, c)
		}
	}
	return nil
}

type Campaign struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	CampaignSummary     string         `json:"campaignSummary"`
	MaxBudget           string         `json:"maxBudget"`
	Compensation        Compensation   `json:"compensation"`
	StudentAthleteCount int            `json:"studentAthleteCount"`
	Sports              []string       `json:"sports"`
	StartDate           time.Time      `json:"startDate"`
	EndDate             time.Time      `json:"endDate"`
	Status              CampaignStatus `json:"status"`
	BusinessID          string         `json:"businessId"`
	CreatedAt           time.Time      `json:"createdAt"`

	CampaignStrategy

	AthleteIDs []string `json:"studentAthleteIds"`
}

// Defaults fills the status and empty lists of a new campaign.
func (c *Campaign) Defaults() {
	if c.Status == "" {
		c.Status = DefaultStatus
	}
	if c.Sports == nil {
		c.Sports = []string{}
	}
	if c.AthleteIDs == nil {
		c.AthleteIDs = []string{}
	}
}

func (c *Campaign) Validate() error {
	if err := required("campaign", map[string]string{"name": c.Name, "businessId": c.BusinessID}); err != nil {
		return err
	}
	if c.Compensation != "" && !c.Compensation.Valid() {
		return fmt.Errorf("%w: unknown compensation %q", ErrInvalid, c.Compensation)
	}
	if c.Status != "" && !c.Status.Valid() {
		return fmt.Errorf("%w: unknown campaign status %q", ErrInvalid, c.Status)
	}
	if c.StudentAthleteCount < 0 {
		return fmt.Errorf("%w: campaign athlete count must not be negative", ErrInvalid)
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: campaign ends before it starts", ErrInvalid)
	}
	return c.CampaignStrategy.Validate()
}

// ApplyStrategy copies a normalized draft onto the campaign strategy. Nil
// draft values leave the current value in place. The campaign is unchanged
// when the draft cannot be decoded.
func (c *Campaign) ApplyStrategy(draft drafting.Draft) error {
	next := c.CampaignStrategy.clone()
	if err := drafting.Decode(draft, &next); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	c.CampaignStrategy = next
	return nil
}

func required(record string, fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s requires %s", ErrInvalid, record, strings.Join(missing, ", "))
}

func validEmail(record, email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: %s email %q is malformed", ErrInvalid, record, email)
	}
	return nil
}
