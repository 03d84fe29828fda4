package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bony/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and service information endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	pingDB    func(ctx context.Context) error
}

// NewSystemHandler creates a new SystemHandler. pingDB may be nil
// when no database check is wanted.
func NewSystemHandler(name, version string, pingDB func(ctx context.Context) error) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		pingDB:    pingDB,
	}
}

// RegisterRoutes registers system routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ping", h.Ping)
	rg.GET("/system/info", h.Info)
}

// Health reports service liveness and database connectivity
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK

	if h.pingDB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pingDB(ctx); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	c.JSON(httpStatus, dto.NewSuccessResponse(gin.H{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	}))
}

// Ping is a minimal liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Info returns service name, version and runtime details
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":       h.name,
		"version":    h.version,
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.startTime).String(),
	})
}
