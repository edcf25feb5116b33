// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/tripfinder/internal/adapters/render"
	service "github.com/okian/tripfinder/internal/app"
)

// ViewsDependencies exposes the rendered views and client configuration.
type ViewsDependencies interface {
	ListView() *render.ListView
	MapView() *render.MapView
	PublicConfig() service.PublicConfig
}

// ViewsHandler serves read-only snapshots of the views.
type ViewsHandler struct {
	deps ViewsDependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps ViewsDependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleItinerary handles GET /itinerary requests.
func (h *ViewsHandler) HandleItinerary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v := h.deps.ListView()
	if v == nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", nil)
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// HandleMap handles GET /map requests.
func (h *ViewsHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	m := h.deps.MapView()
	if m == nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", nil)
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

// HandleConfig handles GET /config requests.
func (h *ViewsHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.PublicConfig())
}
