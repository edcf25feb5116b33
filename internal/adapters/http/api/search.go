// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/tripfinder/internal/adapters/render"
	service "github.com/okian/tripfinder/internal/app"
	"github.com/okian/tripfinder/internal/domain/model"
	"github.com/okian/tripfinder/pkg/logger"
)

// SearchDependencies defines the interface for running searches.
type SearchDependencies interface {
	Search(ctx context.Context, budget int) (service.SearchResult, error)
}

// SearchHandler handles search requests.
type SearchHandler struct {
	deps   SearchDependencies
	logger logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, l logger.Logger) *SearchHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &SearchHandler{deps: deps, logger: l}
}

type searchStats struct {
	Count     int   `json:"count"`
	Degraded  int   `json:"degraded"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

type searchResponse struct {
	Search     string                 `json:"search"`
	Generation uint64                 `json:"generation"`
	Budget     int                    `json:"budget"`
	Outcome    string                 `json:"outcome"`
	Message    string                 `json:"message,omitempty"`
	Stats      searchStats            `json:"stats"`
	Results    []model.EnrichedResult `json:"results"`
}

// HandleSearch handles GET /search?budget=N requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	budget, err := parseBudget(r.URL.Query().Get("budget"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Search(r.Context(), budget)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidBudget):
		writeError(w, http.StatusBadRequest, "invalid_budget", WrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, service.ErrSuperseded):
		writeError(w, http.StatusConflict, "superseded", NewKind(op, ErrSuperseded))
		return
	case errors.Is(err, service.ErrCanceled):
		h.logger.Debug(r.Context(), "search abandoned",
			logger.String("requestID", RequestID(r.Context())),
		)
		writeError(w, http.StatusRequestTimeout, "canceled", NewKind(op, ErrCanceled))
		return
	default:
		h.logger.Error(r.Context(), "search request failed",
			logger.String("requestID", RequestID(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		return
	}

	resp := searchResponse{
		Search:     res.SearchID,
		Generation: res.Generation,
		Budget:     res.Budget,
		Outcome:    res.Outcome,
		Stats: searchStats{
			Count:     res.Batch.Len(),
			ElapsedMS: res.Elapsed.Milliseconds(),
		},
		Results: res.Batch.Results,
	}
	if resp.Results == nil {
		resp.Results = []model.EnrichedResult{}
	}
	for _, er := range resp.Results {
		if er.Degraded() {
			resp.Stats.Degraded++
		}
	}
	if res.Outcome == service.OutcomeEmpty {
		resp.Message = render.NoMatchesText
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseBudget accepts whole numbers; a missing value is an error.
func parseBudget(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("missing budget")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("budget must be a whole number")
	}
	return n, nil
}
