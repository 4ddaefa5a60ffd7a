package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// HealthHandler serves liveness and runtime metrics.
type HealthHandler struct {
	version       string
	ffmpegVersion string
	startTime     time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(version, ffmpegVersion string) *HealthHandler {
	return &HealthHandler{
		version:       version,
		ffmpegVersion: ffmpegVersion,
		startTime:     time.Now(),
	}
}

// HealthInput is empty; the endpoint takes no parameters.
type HealthInput struct{}

// HealthResponse reports service status and coarse system metrics.
type HealthResponse struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	FFmpegVersion  string  `json:"ffmpeg_version"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
	Goroutines     int     `json:"goroutines"`
	MemoryUsedPct  float64 `json:"memory_used_pct"`
	LoadAverage1m  float64 `json:"load_average_1m"`
}

// HealthOutput wraps the response body.
type HealthOutput struct {
	Body HealthResponse
}

// Register registers the health route.
func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getHealth",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"System"},
	}, h.GetHealth)
}

// GetHealth reports service health. System metric failures are ignored; the
// endpoint stays green as long as the process answers.
func (h *HealthHandler) GetHealth(ctx context.Context, _ *HealthInput) (*HealthOutput, error) {
	resp := HealthResponse{
		Status:        "ok",
		Version:       h.version,
		FFmpegVersion: h.ffmpegVersion,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm != nil {
		resp.MemoryUsedPct = vm.UsedPercent
	}
	if avg, err := load.AvgWithContext(ctx); err == nil && avg != nil {
		resp.LoadAverage1m = avg.Load1
	}

	return &HealthOutput{Body: resp}, nil
}
