package api

import (
	"errors"
	"net/http"

	"github.com/randofan/varsitylink/internal/ai"
	"github.com/randofan/varsitylink/internal/drafting"
	"github.com/randofan/varsitylink/internal/marketplace"
	"github.com/randofan/varsitylink/internal/matching"
	"github.com/randofan/varsitylink/internal/store"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrDraftsDisabled   = errors.New("draft generation is disabled")
	ErrUndecodableDraft = errors.New("draft does not fit the campaign")
)

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUndecodableDraft):
		return http.StatusUnprocessableEntity, "unprocessable_draft"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, marketplace.ErrInvalid),
		errors.Is(err, matching.ErrInvalidArgument),
		errors.Is(err, ai.ErrInvalidRequest),
		errors.Is(err, drafting.ErrUnknownKind):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrDraftsDisabled):
		return http.StatusServiceUnavailable, "drafts_disabled"
	case errors.Is(err, ai.ErrGeneration), errors.Is(err, drafting.ErrInvalidJSON):
		return http.StatusBadGateway, "generation_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
