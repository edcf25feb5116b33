// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/tripfinder/internal/adapters/render"
	service "github.com/okian/tripfinder/internal/app"
	"github.com/okian/tripfinder/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Search runs one budget search and publishes it to the views.
	Search(ctx context.Context, budget int) (service.SearchResult, error)

	// Read operations expose the rendered views.
	ListView() *render.ListView
	MapView() *render.MapView
	PublicConfig() service.PublicConfig
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	searchHandler *SearchHandler
	viewsHandler  *ViewsHandler
	limiter       *RateLimiter
	logger        logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRateLimiter limits /search per client IP.
func WithRateLimiter(l *RateLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = l
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.searchHandler = NewSearchHandler(deps, s.logger)
	s.viewsHandler = NewViewsHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	search := s.searchHandler.HandleSearch
	if s.limiter != nil {
		search = s.limiter.Middleware(search, "search")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/search", MetricsMiddleware(RequestIDMiddleware(search), "search"))
	mux.HandleFunc("/itinerary", MetricsMiddleware(s.viewsHandler.HandleItinerary, "itinerary"))
	mux.HandleFunc("/map", MetricsMiddleware(s.viewsHandler.HandleMap, "map"))
	mux.HandleFunc("/config", MetricsMiddleware(s.viewsHandler.HandleConfig, "config"))
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
