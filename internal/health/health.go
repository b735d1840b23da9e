package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/config"
	"github.com/Inkwell-Network/inkwell/internal/constants"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the status of a specific component
type ComponentStatus struct {
	Name    string                 `json:"name"`
	Status  HealthStatus           `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse represents the complete health check response
type HealthResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Software   string                 `json:"software"`
	Version    string                 `json:"version"`
	Uptime     string                 `json:"uptime"`
	Components []*ComponentStatus     `json:"components"`
	Summary    map[string]interface{} `json:"summary"`
}

// HealthChecker performs health checks over the node's runtime state
type HealthChecker struct {
	networks  []chains.Network
	cfg       *config.Config
	logger    *zap.Logger
	startTime time.Time
	version   string
	mu        sync.RWMutex
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(networks []chains.Network, cfg *config.Config, logger *zap.Logger, version string) *HealthChecker {
	return &HealthChecker{
		networks:  networks,
		cfg:       cfg,
		logger:    logger.Named("health"),
		startTime: time.Now(),
		version:   version,
	}
}

// CheckHealth performs a comprehensive health check
func (h *HealthChecker) CheckHealth(ctx context.Context) *HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	startTime := time.Now()
	components := []*ComponentStatus{
		h.checkNetworks(),
		h.checkMemory(),
		h.checkSystemResources(),
	}

	overallStatus := h.determineOverallStatus(components)
	uptime := time.Since(h.startTime)

	return &HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Software:   constants.SoftwareName,
		Version:    h.version,
		Uptime:     h.formatUptime(uptime),
		Components: components,
		Summary: map[string]interface{}{
			"total_components":     len(components),
			"healthy_components":   h.countComponentsByStatus(components, StatusHealthy),
			"degraded_components":  h.countComponentsByStatus(components, StatusDegraded),
			"unhealthy_components": h.countComponentsByStatus(components, StatusUnhealthy),
			"check_duration_ms":    time.Since(startTime).Milliseconds(),
		},
	}
}

// checkNetworks verifies the configured chain list is usable
func (h *HealthChecker) checkNetworks() *ComponentStatus {
	status := &ComponentStatus{
		Name:    "networks",
		Details: make(map[string]interface{}),
	}

	status.Details["configured_networks"] = len(h.networks)
	names := make([]string, 0, len(h.networks))
	for _, n := range h.networks {
		names = append(names, n.Name)
	}
	status.Details["names"] = names

	if len(h.networks) == 0 {
		status.Status = StatusUnhealthy
		status.Message = "No networks configured, recovery searches cannot run"
	} else {
		status.Status = StatusHealthy
		status.Message = fmt.Sprintf("%d networks configured", len(h.networks))
	}
	return status
}

// checkMemory checks memory usage
func (h *HealthChecker) checkMemory() *ComponentStatus {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := &ComponentStatus{
		Name:    "memory",
		Details: make(map[string]interface{}),
	}

	allocMB := float64(m.Alloc) / 1024 / 1024
	sysMB := float64(m.Sys) / 1024 / 1024
	heapMB := float64(m.HeapAlloc) / 1024 / 1024

	status.Details["alloc_mb"] = allocMB
	status.Details["sys_mb"] = sysMB
	status.Details["heap_mb"] = heapMB
	status.Details["num_gc"] = m.NumGC
	status.Details["gc_cpu_fraction"] = m.GCCPUFraction

	const (
		memoryWarningMB  = 500
		memoryCriticalMB = 1000
	)

	if allocMB > memoryCriticalMB {
		status.Status = StatusUnhealthy
		status.Message = fmt.Sprintf("High memory usage: %.1f MB", allocMB)
	} else if allocMB > memoryWarningMB {
		status.Status = StatusDegraded
		status.Message = fmt.Sprintf("Elevated memory usage: %.1f MB", allocMB)
	} else {
		status.Status = StatusHealthy
		status.Message = fmt.Sprintf("Memory usage normal: %.1f MB", allocMB)
	}

	return status
}

// checkSystemResources checks system-level resources
func (h *HealthChecker) checkSystemResources() *ComponentStatus {
	status := &ComponentStatus{
		Name:    "system",
		Details: make(map[string]interface{}),
	}

	status.Details["goroutines"] = runtime.NumGoroutine()
	status.Details["cpus"] = runtime.NumCPU()

	goroutineCount := runtime.NumGoroutine()

	const (
		goroutineWarning  = 1000
		goroutineCritical = 5000
	)

	if goroutineCount > goroutineCritical {
		status.Status = StatusUnhealthy
		status.Message = fmt.Sprintf("High goroutine count: %d", goroutineCount)
	} else if goroutineCount > goroutineWarning {
		status.Status = StatusDegraded
		status.Message = fmt.Sprintf("Elevated goroutine count: %d", goroutineCount)
	} else {
		status.Status = StatusHealthy
		status.Message = fmt.Sprintf("System resources normal: %d goroutines", goroutineCount)
	}

	return status
}

// determineOverallStatus determines the overall health status from components
func (h *HealthChecker) determineOverallStatus(components []*ComponentStatus) HealthStatus {
	unhealthyCount := 0
	degradedCount := 0

	for _, comp := range components {
		switch comp.Status {
		case StatusUnhealthy:
			unhealthyCount++
		case StatusDegraded:
			degradedCount++
		}
	}

	if unhealthyCount > 0 {
		return StatusUnhealthy
	}
	if degradedCount > 0 {
		return StatusDegraded
	}
	return StatusHealthy
}

// countComponentsByStatus counts components with a specific status
func (h *HealthChecker) countComponentsByStatus(components []*ComponentStatus, status HealthStatus) int {
	count := 0
	for _, comp := range components {
		if comp.Status == status {
			count++
		}
	}
	return count
}

// formatUptime formats uptime duration as a human-readable string
func (h *HealthChecker) formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// HandleHealth is the HTTP handler for health checks
func (h *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthResponse := h.CheckHealth(ctx)

	statusCode := http.StatusOK
	if healthResponse.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(healthResponse); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Debug("Health check completed",
		zap.String("status", string(healthResponse.Status)),
		zap.Int("status_code", statusCode),
		zap.String("client_ip", r.RemoteAddr))
}
