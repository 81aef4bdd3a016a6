package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tmsbot/internal/contextutil"
	"tmsbot/internal/query"
)

// IndexStatus reports whether the schema index is ready. *rag.Index implements it.
type IndexStatus interface {
	Loaded() bool
}

// DatabasePinger checks a database connection. *query.Executor implements it.
type DatabasePinger interface {
	Ping(ctx context.Context, target query.Target) error
}

// RootResponse is the payload of GET /.
type RootResponse struct {
	Message string `json:"message"`
}

// Root answers GET / with a liveness message.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(RootResponse{Message: "TMS Bot API is running!"})
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	index              IndexStatus
	databases          DatabasePinger
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(index IndexStatus, databases DatabasePinger) *HealthHandler {
	return &HealthHandler{
		index:              index,
		databases:          databases,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles GET /health.
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Create context with timeout for health checks
	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.index.Loaded() {
		checks["schema_index"] = "ok"
	} else {
		checks["schema_index"] = "error"
		issues = append(issues, "schema_index_not_loaded")
	}

	for _, target := range []query.Target{query.TargetTMS, query.TargetAudit} {
		name := string(target) + "_database"
		if err := h.databases.Ping(checkCtx, target); err != nil {
			logger.WarnContext(ctx, "database health check failed", "target", target, "error", err)
			checks[name] = "error"
			issues = append(issues, name+"_unavailable")
			continue
		}
		checks[name] = "ok"
	}

	// Determine overall status
	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
