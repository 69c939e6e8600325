package marketplace

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/randofan/varsitylink/internal/drafting"
)

func TestCompensationLabel(t *testing.T) {
	t.Parallel()

	cases := map[Compensation]string{
		InKind:     "In-Kind (Products/Services)",
		FixedFee:   "Fixed Fee",
		Commission: "Commission-Based",
		"Barter":   "Barter",
	}
	for c, want := range cases {
		if got := c.Label(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestParseCampaignStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    CampaignStatus
		wantErr bool
	}{
		{input: "", want: StatusPending},
		{input: "active", want: StatusActive},
		{input: " Draft ", want: StatusDraft},
		{input: "archived", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCampaignStatus(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid for %q, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("expected %s, got %s", tt.want, got)
		}
	}
}

func TestStudentAthleteValidate(t *testing.T) {
	t.Parallel()

	valid := func() StudentAthlete {
		return StudentAthlete{
			Name:             "Molly Wilson",
			Email:            "molly.wilson@example.com",
			Age:              21,
			Sport:            "Volleyball",
			MarketingOptions: []MarketingOption{SocialMediaPosts},
			Compensation:     []Compensation{InKind, Commission},
		}
	}

	negative := -1

	tests := []struct {
		name   string
		mutate func(a *StudentAthlete)
		valid  bool
	}{
		{name: "valid", mutate: func(*StudentAthlete) {}, valid: true},
		{name: "missing sport", mutate: func(a *StudentAthlete) { a.Sport = " " }},
		{name: "bad email", mutate: func(a *StudentAthlete) { a.Email = "molly" }},
		{name: "zero age", mutate: func(a *StudentAthlete) { a.Age = 0 }},
		{name: "negative hours", mutate: func(a *StudentAthlete) { a.HoursPerWeek = &negative }},
		{name: "unknown option", mutate: func(a *StudentAthlete) { a.MarketingOptions = []MarketingOption{"Billboards"} }},
		{name: "unknown compensation", mutate: func(a *StudentAthlete) { a.Compensation = []Compensation{"Equity"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			athlete := valid()
			tt.mutate(&athlete)

			err := athlete.Validate()
			if tt.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestBusinessValidateListsMissingFields(t *testing.T) {
	t.Parallel()

	err := (&Business{}).Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got, want := err.Error(), "invalid record: business requires email, name"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCampaignDefaultsAndValidate(t *testing.T) {
	t.Parallel()

	c := Campaign{Name: "Spring Sale", BusinessID: "b1"}
	c.Defaults()

	if c.Status != StatusPending {
		t.Fatalf("expected default status PENDING, got %s", c.Status)
	}
	if c.Sports == nil || c.AthleteIDs == nil {
		t.Fatalf("expected empty lists after defaults")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.StartDate = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	c.EndDate = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	if err := c.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for reversed dates, got %v", err)
	}
}

func TestCampaignApplyStrategy(t *testing.T) {
	t.Parallel()

	draft, err := drafting.Normalize(`{
		"objectives": "Increase brand awareness",
		"targetAudienceMin": "18",
		"targetAudienceMax": 30,
		"productLaunch": "true",
		"engagementGoal": "1500",
		"conversionGoal": "unknown",
		"csrInitiative": false
	}`, drafting.CampaignStrategySchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := Campaign{Name: "Spring Sale", BusinessID: "b1"}
	c.Timeline = "kept when the draft has no timeline"

	if err := c.ApplyStrategy(draft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	engagement := 1500
	want := CampaignStrategy{
		Objectives:        "Increase brand awareness",
		TargetAudienceMin: 18,
		TargetAudienceMax: 30,
		Timeline:          "kept when the draft has no timeline",
		ProductLaunch:     true,
		EngagementGoal:    &engagement,
	}
	if diff := cmp.Diff(want, c.CampaignStrategy); diff != "" {
		t.Fatalf("strategy mismatch (-want +got):\n%s", diff)
	}
}

func TestCampaignApplyStrategyRejectsBadDraft(t *testing.T) {
	t.Parallel()

	c := Campaign{Name: "Spring Sale", BusinessID: "b1"}
	c.Objectives = "original"

	draft := drafting.Draft{"objectives": []any{"a", "b"}}
	if err := c.ApplyStrategy(draft); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if c.Objectives != "original" {
		t.Fatalf("campaign changed after failed apply: %q", c.Objectives)
	}

	inverted := drafting.Draft{"targetAudienceMin": float64(40), "targetAudienceMax": float64(20)}
	if err := c.ApplyStrategy(inverted); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for inverted audience, got %v", err)
	}
}

func TestCampaignApplyStrategyKeepsGoalsOnRejectedDraft(t *testing.T) {
	t.Parallel()

	engagement, deliverables := 100, "3 reels"
	c := Campaign{Name: "Spring Sale", BusinessID: "b1"}
	c.EngagementGoal = &engagement
	c.ContentDeliverables = &deliverables
	shared := c

	draft := drafting.Draft{"engagementGoal": float64(-5), "contentDeliverables": "1 post"}
	if err := c.ApplyStrategy(draft); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if *c.EngagementGoal != 100 || *c.ContentDeliverables != "3 reels" {
		t.Fatalf("campaign changed after failed apply: goal %d, deliverables %q", *c.EngagementGoal, *c.ContentDeliverables)
	}

	if err := c.ApplyStrategy(drafting.Draft{"engagementGoal": float64(250)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *c.EngagementGoal != 250 {
		t.Fatalf("expected goal 250, got %d", *c.EngagementGoal)
	}
	if *shared.EngagementGoal != 100 || engagement != 100 {
		t.Fatalf("apply wrote through a shared goal pointer: %d", *shared.EngagementGoal)
	}
}

func TestCampaignJSONFlattensStrategy(t *testing.T) {
	t.Parallel()

	c := Campaign{ID: "c1", Name: "Spring Sale"}
	c.Objectives = "grow"
	c.Defaults()

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decoded["objectives"] != "grow" {
		t.Fatalf("expected strategy fields at top level, got %v", decoded)
	}
	if decoded["status"] != string(StatusPending) {
		t.Fatalf("expected status %s, got %v", StatusPending, decoded["status"])
	}
	if _, ok := decoded["engagementGoal"]; !ok {
		t.Fatalf("expected engagementGoal to be encoded as null")
	}
}
