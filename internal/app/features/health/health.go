// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/elaspodem/internal/app/system/jsonutil"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger checks database connectivity. *mongo.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// ContentProbe reports whether the home page document is stored. The public
// site serves the fallback placeholder until it is.
type ContentProbe func(ctx context.Context) (bool, error)

// Handler provides health check endpoints.
type Handler struct {
	db      Pinger
	content ContentProbe
	logger  *zap.Logger
}

// NewHandler creates a new health check Handler. content may be nil.
func NewHandler(db Pinger, content ContentProbe, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{db: db, content: content, logger: logger}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the probe endpoints directly on the root router:
// /ready and /readyz for readiness, /livez for liveness.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

func (h *Handler) ping(ctx context.Context) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Ping(), h.logger, "health ping")
	defer cancel()
	return h.db.Ping(ctx, readpref.Primary())
}

// Check pings MongoDB and reports whether the home content is stored. Only
// a failed ping degrades the status; missing content is informational.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Status:   "ok",
		Services: make(map[string]string),
	}

	if err := h.ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Services["mongodb"] = "unavailable"
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
	} else {
		resp.Services["mongodb"] = "ok"
	}

	if h.content != nil && resp.Status == "ok" {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.logger, "health content probe")
		stored, err := h.content(ctx)
		cancel()
		switch {
		case err != nil:
			resp.Services["home_content"] = "unknown"
			h.logger.Warn("health check: content probe failed", zap.Error(err))
		case stored:
			resp.Services["home_content"] = "stored"
		default:
			resp.Services["home_content"] = "fallback"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready checks if the service is ready to accept requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live checks if the service is alive.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}
