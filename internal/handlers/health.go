package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_health_checker.go -package=mocks docqa/internal/handlers HealthChecker

import (
	"context"
	"net/http"
	"time"

	"docqa/internal/contextutil"
	"docqa/internal/rag"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        HealthChecker
	rerankerStatus     rag.RerankerStatus
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectorStore HealthChecker, rerankerStatus rag.RerankerStatus) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		rerankerStatus:     rerankerStatus,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK if healthy or degraded, 503 Service Unavailable if the vector store is down.
// A passthrough reranker only degrades the status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if err := h.vectorStore.HealthCheck(checkCtx); err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	} else {
		checks["vector_store"] = "ok"
	}

	checks["reranker"] = string(h.rerankerStatus)

	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case len(issues) > 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case h.rerankerStatus != rag.RerankerReady:
		status = "degraded"
		issues = append(issues, "reranker_degraded")
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}
