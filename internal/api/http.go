// Package api serves the marketplace REST endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/ai"
	"github.com/randofan/varsitylink/internal/drafting"
	"github.com/randofan/varsitylink/internal/marketplace"
	"github.com/randofan/varsitylink/internal/matching"
	"github.com/randofan/varsitylink/internal/metrics"
	"github.com/randofan/varsitylink/internal/store"
)

// Store is the persistence the handlers depend on. *store.Store satisfies it.
type Store interface {
	CreateBusiness(ctx context.Context, b *marketplace.Business) error
	GetBusiness(ctx context.Context, id string) (*marketplace.Business, error)
	ListBusinesses(ctx context.Context) ([]marketplace.Business, error)

	CreateAthlete(ctx context.Context, a *marketplace.StudentAthlete) error
	GetAthlete(ctx context.Context, id string) (*marketplace.StudentAthlete, error)
	ListAthletes(ctx context.Context, filter store.AthleteFilter) ([]marketplace.StudentAthlete, error)

	CreateCampaign(ctx context.Context, c *marketplace.Campaign) error
	GetCampaign(ctx context.Context, id string) (*marketplace.Campaign, error)
	ListCampaigns(ctx context.Context, filter store.CampaignFilter) ([]marketplace.Campaign, error)
	SaveStrategy(ctx context.Context, campaignID string, strategy marketplace.CampaignStrategy) error
}

// Pinger reports whether the database answers. It is optional.
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ Store = (*store.Store)(nil)

// Options wire a Server. Drafter may be nil, in which case /api/generate
// answers 503.
type Options struct {
	Store    Store
	Scorer   *matching.Scorer
	Drafter  ai.Drafter
	Registry *drafting.Registry
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Server wires HTTP routes for the marketplace API.
type Server struct {
	store    Store
	scorer   *matching.Scorer
	drafter  ai.Drafter
	registry *drafting.Registry
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewServer(opts Options) *Server {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = matching.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = drafting.NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		store:    opts.Store,
		scorer:   scorer,
		drafter:  opts.Drafter,
		registry: registry,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.MetricsMiddleware(s.handleHealth, "healthz"))
	mux.Handle("/metrics", s.metrics.Handler())

	mux.HandleFunc("/api/options", s.MetricsMiddleware(s.handleOptions, "options"))
	mux.HandleFunc("/api/business", s.MetricsMiddleware(s.handleBusiness, "business"))
	mux.HandleFunc("/api/student-athlete", s.MetricsMiddleware(s.handleAthlete, "student_athlete"))
	mux.HandleFunc("/api/campaign", s.MetricsMiddleware(s.handleCampaign, "campaign"))
	mux.HandleFunc("/api/match-athletes", s.MetricsMiddleware(s.handleMatch, "match_athletes"))
	mux.HandleFunc("/api/generate", s.MetricsMiddleware(s.handleGenerate, "generate"))
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps err to a status and writes it. Server side failures are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	if status == http.StatusInternalServerError {
		err = nil
	}
	writeError(w, status, code, err)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}
