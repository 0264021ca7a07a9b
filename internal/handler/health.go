package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/lotto/internal/logger"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"
	readinessTimeout        = 2 * time.Second
)

// HealthResponse is returned by /healthz and /readyz
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	// LatencyMs is how long the storage ping took
	LatencyMs int64 `json:"latency_ms,omitempty"`
}

// HealthChecker is implemented by the storage backend
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HandleHealthz answers as long as the process serves HTTP
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	}
}

// HandleReadyz pings storage; the pool cannot take entries without it
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		start := time.Now()
		err := checker.Ping(ctx)
		resp := HealthResponse{Status: healthStatusOK, LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			logger.FromContext(r.Context()).Error("Readiness check failed", "error", err)
			resp.Status = healthStatusUnavailable
			resp.Message = "storage unavailable"
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
