package handlers

import (
	"net/http"

	"github.com/foodgram/v2/pkg/healthcheck"
	"go.uber.org/zap"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checker *healthcheck.Checker
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *healthcheck.Checker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger.Named("health-handler"),
	}
}

// Live handles GET /health, reporting process liveness
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready, probing the registered dependencies
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
