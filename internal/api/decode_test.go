package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/randofan/varsitylink/internal/ai"
	"github.com/randofan/varsitylink/internal/drafting"
	"github.com/randofan/varsitylink/internal/marketplace"
	"github.com/randofan/varsitylink/internal/matching"
	"github.com/randofan/varsitylink/internal/store"
)

func TestDecodeBodyCampaignRequest(t *testing.T) {
	body := `{
		"name": "  Spring Sale ",
		"maxBudget": 2000,
		"compensation": "FixedFee",
		"studentAthleteCount": "4",
		"sports": ["Golf"],
		"startDate": "2025-04-01",
		"endDate": "2025-04-30T18:00:00-07:00",
		"businessId": 7,
		"objectives": "Awareness",
		"productLaunch": "true",
		"impressionsGoal": null,
		"studentAthleteIds": ["a1"],
		"studentAthletes": [{"id": 3}],
		"unknown": {"nested": true}
	}`
	r := httptest.NewRequest(http.MethodPost, "/api/campaign", strings.NewReader(body))

	var req campaignRequest
	if err := decodeBody(r, &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := req.campaign()
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	want := marketplace.Campaign{
		Name:                "Spring Sale",
		MaxBudget:           "2000",
		Compensation:        marketplace.FixedFee,
		StudentAthleteCount: 4,
		Sports:              []string{"Golf"},
		StartDate:           time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2025, 5, 1, 1, 0, 0, 0, time.UTC),
		Status:              marketplace.StatusPending,
		BusinessID:          "7",
		AthleteIDs:          []string{"a1", "3"},
	}
	want.Objectives = "Awareness"
	want.ProductLaunch = true

	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("campaign mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBodyRejects(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"array":      `[1, 2]`,
		"null":       `null`,
		"syntax":     `{"name": }`,
		"bad date":   `{"startDate": "next week"}`,
		"bad number": `{"studentAthleteCount": "many"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			var req campaignRequest
			if err := decodeBody(r, &req); !errors.Is(err, ErrBadRequest) {
				t.Fatalf("expected ErrBadRequest, got %v", err)
			}
		})
	}
}

func TestDecodeBodyLimitsSize(t *testing.T) {
	body := `{"name": "` + strings.Repeat("a", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var b marketplace.Business
	if err := decodeBody(r, &b); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected oversized body to be rejected, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{err: fmt.Errorf("%w: x", ErrBadRequest), status: http.StatusBadRequest, code: "bad_request"},
		{err: fmt.Errorf("%w: x", marketplace.ErrInvalid), status: http.StatusBadRequest, code: "bad_request"},
		{err: matching.ErrInvalidArgument, status: http.StatusBadRequest, code: "bad_request"},
		{err: ai.ErrInvalidRequest, status: http.StatusBadRequest, code: "bad_request"},
		{err: drafting.ErrUnknownKind, status: http.StatusBadRequest, code: "bad_request"},
		{err: fmt.Errorf("campaign: %w", store.ErrNotFound), status: http.StatusNotFound, code: "not_found"},
		{err: fmt.Errorf("%w: %w", ErrUndecodableDraft, marketplace.ErrInvalid), status: http.StatusUnprocessableEntity, code: "unprocessable_draft"},
		{err: ErrDraftsDisabled, status: http.StatusServiceUnavailable, code: "drafts_disabled"},
		{err: fmt.Errorf("%w: quota", ai.ErrGeneration), status: http.StatusBadGateway, code: "generation_failed"},
		{err: &drafting.ParseError{Err: errors.New("eof")}, status: http.StatusBadGateway, code: "generation_failed"},
		{err: errors.New("disk full"), status: http.StatusInternalServerError, code: "internal"},
	}

	for _, tc := range cases {
		status, code := classify(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("classify(%v) = %d %s, want %d %s", tc.err, status, code, tc.status, tc.code)
		}
	}
}
