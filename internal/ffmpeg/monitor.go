package ffmpeg

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessStats is a point-in-time snapshot of a running job's resource usage.
type ProcessStats struct {
	PID            int           `json:"pid"`
	CPUPercent     float64       `json:"cpu_percent"`
	MemoryRSSBytes uint64        `json:"memory_rss_bytes"`
	BytesWritten   uint64        `json:"bytes_written"`
	WriteRateBps   float64       `json:"write_rate_bps"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
}

// ProcessMonitor samples a running ffmpeg process once per second. Output
// byte counts are fed in externally by the CountingWriter sitting between
// ffmpeg's stdout and the client.
type ProcessMonitor struct {
	pid       int
	startedAt time.Time
	interval  time.Duration

	mu    sync.RWMutex
	stats ProcessStats

	bytesWritten atomic.Uint64

	lastBytes     uint64
	lastBytesTime time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProcessMonitor creates a monitor for the given PID.
func NewProcessMonitor(pid int) *ProcessMonitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &ProcessMonitor{
		pid:       pid,
		startedAt: time.Now(),
		interval:  time.Second,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins sampling in the background.
func (pm *ProcessMonitor) Start() {
	pm.lastBytesTime = pm.startedAt
	pm.wg.Add(1)
	go pm.loop()
}

// Stop ends sampling and waits for the sampler to finish.
func (pm *ProcessMonitor) Stop() {
	pm.cancel()
	pm.wg.Wait()
}

// AddBytesWritten records output bytes produced by the process.
func (pm *ProcessMonitor) AddBytesWritten(n uint64) {
	pm.bytesWritten.Add(n)
}

// BytesWritten returns the total output bytes recorded so far.
func (pm *ProcessMonitor) BytesWritten() uint64 {
	return pm.bytesWritten.Load()
}

// Stats returns the most recent sample.
func (pm *ProcessMonitor) Stats() ProcessStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	s := pm.stats
	s.BytesWritten = pm.bytesWritten.Load()
	s.Duration = time.Since(pm.startedAt)
	return s
}

func (pm *ProcessMonitor) loop() {
	defer pm.wg.Done()
	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()
	for {
		select {
		case <-pm.ctx.Done():
			return
		case now := <-ticker.C:
			pm.sample(now)
		}
	}
}

func (pm *ProcessMonitor) sample(now time.Time) {
	stats := ProcessStats{
		PID:       pm.pid,
		StartedAt: pm.startedAt,
	}

	if proc, err := process.NewProcessWithContext(pm.ctx, int32(pm.pid)); err == nil {
		if cpu, err := proc.CPUPercentWithContext(pm.ctx); err == nil {
			stats.CPUPercent = cpu
		}
		if mem, err := proc.MemoryInfoWithContext(pm.ctx); err == nil && mem != nil {
			stats.MemoryRSSBytes = mem.RSS
		}
	}

	written := pm.bytesWritten.Load()
	pm.mu.Lock()
	if elapsed := now.Sub(pm.lastBytesTime).Seconds(); elapsed > 0 {
		stats.WriteRateBps = float64(written-pm.lastBytes) / elapsed
	}
	pm.lastBytes = written
	pm.lastBytesTime = now
	pm.stats = stats
	pm.mu.Unlock()
}

// CountingWriter counts bytes flowing to the client and reports them to the
// monitor. It adds no buffering, so client backpressure still reaches the
// process directly.
type CountingWriter struct {
	w       io.Writer
	monitor *ProcessMonitor
}

// NewCountingWriter wraps w. monitor may be nil.
func NewCountingWriter(w io.Writer, monitor *ProcessMonitor) *CountingWriter {
	return &CountingWriter{w: w, monitor: monitor}
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 && cw.monitor != nil {
		cw.monitor.AddBytesWritten(uint64(n))
	}
	return n, err
}
