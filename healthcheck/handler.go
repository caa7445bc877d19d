package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/xinsproject/servicecall/log"
)

const checkTimeout = 2 * time.Second

// Check reports an unhealthy dependency by returning an error
type Check func(ctx context.Context) error

type healthResponse struct {
	IsHealthy bool              `json:"is_healthy"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// HealthCheckHandler encapsulates logic that serves the HTTP request for health checks
type HealthCheckHandler struct {
	logger *log.Logger
	checks map[string]Check
}

var _ http.Handler = (*HealthCheckHandler)(nil)

// NewHealthCheckHandler creates a new healthcheck http handler
func NewHealthCheckHandler(logger *log.Logger) *HealthCheckHandler {
	return &HealthCheckHandler{logger: logger, checks: map[string]Check{}}
}

// AddCheck registers a named check run on every request
func (h *HealthCheckHandler) AddCheck(name string, check Check) *HealthCheckHandler {
	h.checks[name] = check
	return h
}

// ServeHTTP answers 200 when every check passes and 503 otherwise
func (h *HealthCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	response := healthResponse{IsHealthy: true}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			if response.Errors == nil {
				response.Errors = map[string]string{}
			}
			response.IsHealthy = false
			response.Errors[name] = err.Error()
		}
	}

	status := http.StatusOK
	if !response.IsHealthy {
		status = http.StatusServiceUnavailable
		h.logger.Warnf("health check failed: %v", response.Errors)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Errorf("failed to write health indicator: %v", err)
	}
}
