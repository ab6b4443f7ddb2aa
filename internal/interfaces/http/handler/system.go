package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printshop/backend/internal/interfaces/http/dto"
)

// healthCheckTimeout bounds each dependency probe
const healthCheckTimeout = 2 * time.Second

// HealthChecker probes one dependency
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

func (h healthCheck) Name() string                    { return h.name }
func (h healthCheck) Check(ctx context.Context) error { return h.fn(ctx) }

// NewHealthCheck adapts a ping function to HealthChecker
func NewHealthCheck(name string, fn func(ctx context.Context) error) HealthChecker {
	return healthCheck{name: name, fn: fn}
}

// SystemHandler serves liveness, readiness and build information
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	version   string
	checkers  []HealthChecker
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(version string, checkers ...HealthChecker) *SystemHandler {
	if version == "" {
		version = "dev"
	}
	return &SystemHandler{startTime: time.Now(), version: version, checkers: checkers}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Printshop Backend API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// HealthResponse reports the state of each dependency
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Printshop Backend API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Live godoc
// @ID           liveness
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Router       /health/live [get]
func (h *SystemHandler) Live(c *gin.Context) {
	h.Success(c, HealthResponse{Status: "ok", Checks: map[string]string{}})
}

// Ready godoc
// @ID           readiness
// @Summary      Readiness probe
// @Description  Pings the database and cache; 503 when any of them fails
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health/ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checkers))}
	for _, checker := range h.checkers {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := checker.Check(ctx)
		cancel()
		if err != nil {
			resp.Status = "unavailable"
			resp.Checks[checker.Name()] = err.Error()
			continue
		}
		resp.Checks[checker.Name()] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
