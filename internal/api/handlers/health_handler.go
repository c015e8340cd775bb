package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/auth-service-be/internal/services"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "auth-service"

const healthCheckTimeout = 3 * time.Second

// HealthHandler serves /health with a credential-store connectivity check.
type HealthHandler struct {
	service services.AuthServiceProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service services.AuthServiceProvider) *HealthHandler {
	return &HealthHandler{service: service}
}

// Check reports whether the store is reachable.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.service.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": ServiceName,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}
