// Package http provides the read-only debug endpoint: loader state, the
// loaded module set, per-space dispatch orders and Prometheus metrics.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/modrig/modrig/core/loader"
	"github.com/modrig/modrig/domain/order"
)

// StatusResponse is the /status payload.
type StatusResponse struct {
	State                 string `json:"state"`
	Cycle                 string `json:"cycle,omitempty"`
	Modules               int    `json:"modules"`
	Building              bool   `json:"building"`
	SwitchingScenes       bool   `json:"switching_scenes"`
	SceneCallbacksBlocked bool   `json:"scene_callbacks_blocked"`
}

// OrderResponse is the /order/{space} payload.
type OrderResponse struct {
	Space   string   `json:"space"`
	Modules []string `json:"modules"`
}

// DebugHandler serves the debug endpoint.
type DebugHandler struct {
	loader *loader.Loader
	logger zerolog.Logger
}

// NewDebugHandler creates a debug handler over a loader.
func NewDebugHandler(l *loader.Loader, logger zerolog.Logger) *DebugHandler {
	return &DebugHandler{loader: l, logger: logger}
}

// Router builds the chi router. When gatherer is non-nil, Prometheus metrics
// are mounted at metricsPath.
func (h *DebugHandler) Router(gatherer prometheus.Gatherer, metricsPath string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/status", h.handleStatus)
	r.Get("/modules", h.handleModules)
	r.Get("/order/{space}", h.handleOrder)

	if gatherer != nil {
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.Method(http.MethodGet, metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (h *DebugHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	l := h.loader
	h.writeJSON(w, http.StatusOK, StatusResponse{
		State:                 l.State().String(),
		Cycle:                 l.CycleID(),
		Modules:               len(l.Modules()),
		Building:              l.IsBuilding(),
		SwitchingScenes:       l.IsSwitchingScenes(),
		SceneCallbacksBlocked: l.SceneCallbacksBlocked(),
	})
}

func (h *DebugHandler) handleModules(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.loader.Snapshot())
}

func (h *DebugHandler) handleOrder(w http.ResponseWriter, r *http.Request) {
	space, ok := parseSpace(chi.URLParam(r, "space"))
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown order space"})
		return
	}
	h.writeJSON(w, http.StatusOK, OrderResponse{
		Space:   space.String(),
		Modules: h.loader.SubscriberOrder(space),
	})
}

func (h *DebugHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("write debug response failed")
	}
}

func parseSpace(s string) (order.Space, bool) {
	for _, space := range order.Spaces() {
		if space.String() == s {
			return space, true
		}
	}
	return 0, false
}
