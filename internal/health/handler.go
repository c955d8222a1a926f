package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDisabled  Status = "disabled"
	StatusUnhealthy Status = "unhealthy"
)

const rootMessage = "VokChat backend is running"

// Pinger is an optional dependency. A disabled pinger is reported but never
// fails readiness.
type Pinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

type RoomCounter interface {
	Counts() (rooms, occupants int)
}

type ConnectionCounter interface {
	ConnectionCount() int
}

type ComponentStatus struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type RuntimeStats struct {
	Goroutines    int    `json:"goroutines"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	MemorySysMB   uint64 `json:"memory_sys_mb"`
	NumGC         uint32 `json:"num_gc"`
}

type RelayStats struct {
	Rooms       int `json:"rooms"`
	Occupants   int `json:"occupants"`
	Connections int `json:"connections"`
}

type Stats struct {
	Relay   RelayStats   `json:"relay"`
	Runtime RuntimeStats `json:"runtime"`
}

type HealthResponse struct {
	Status        Status                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	Version       string                     `json:"version"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Stats         Stats                      `json:"stats"`
	Components    map[string]ComponentStatus `json:"components"`
}

type Handler struct {
	redis     Pinger
	rooms     RoomCounter
	conns     ConnectionCounter
	version   string
	startTime time.Time
}

func NewHandler(redis Pinger, rooms RoomCounter, conns ConnectionCounter, version string) *Handler {
	return &Handler{
		redis:     redis,
		rooms:     rooms,
		conns:     conns,
		version:   version,
		startTime: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Liveness)
	e.GET("/health/ready", h.Readiness)
}

func (h *Handler) Root(c echo.Context) error {
	return c.String(http.StatusOK, rootMessage)
}

func (h *Handler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *Handler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	components := map[string]ComponentStatus{
		"redis": h.checkRedis(ctx),
	}
	overall := computeOverallStatus(components)

	rooms, occupants := h.rooms.Counts()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	resp := HealthResponse{
		Status:        overall,
		Timestamp:     time.Now().UTC(),
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Stats: Stats{
			Relay: RelayStats{
				Rooms:       rooms,
				Occupants:   occupants,
				Connections: h.conns.ConnectionCount(),
			},
			Runtime: RuntimeStats{
				Goroutines:    runtime.NumGoroutine(),
				MemoryAllocMB: memStats.Alloc / 1024 / 1024,
				MemorySysMB:   memStats.Sys / 1024 / 1024,
				NumGC:         memStats.NumGC,
			},
		},
		Components: components,
	}

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, resp)
}

func (h *Handler) checkRedis(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.redis == nil || !h.redis.Enabled() {
		return ComponentStatus{Status: StatusDisabled}
	}

	if err := h.redis.Ping(ctx); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func computeOverallStatus(components map[string]ComponentStatus) Status {
	for _, status := range components {
		if status.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
	}
	return StatusHealthy
}
