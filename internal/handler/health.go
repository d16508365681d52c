package handler

import "net/http"

// HealthHandler serves the unauthenticated liveness endpoints used by
// probes and load balancers.
type HealthHandler struct {
	environment string
}

func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment}
}

type healthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Environment string `json:"environment,omitempty"`
}

// HandleHealth reports process liveness.
//
// HTTP: GET /health and GET /api/v1/health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Service:     "todo-api",
		Environment: h.environment,
	})
}
