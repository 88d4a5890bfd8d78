package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping() error
}

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	checker   HealthChecker
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(checker HealthChecker) *SystemHandler {
	return &SystemHandler{
		checker:   checker,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers system routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// Health reports process liveness and database reachability
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	status := http.StatusOK
	if h.checker != nil {
		if err := h.checker.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, dto.NewSuccessResponse(resp))
}
