package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Command is a single ffmpeg invocation. It is single-use: StreamToWriter may
// be called once.
type Command struct {
	Binary string
	Args   []string

	mu      sync.RWMutex
	cmd     *exec.Cmd
	started time.Time
	monitor *ProcessMonitor

	stderrMu    sync.Mutex
	stderrLines []string
}

// maxStderrLines bounds the stderr ring kept for error reporting.
const maxStderrLines = 40

// String renders the full command line for logging.
func (c *Command) String() string {
	return c.Binary + " " + strings.Join(c.Args, " ")
}

// StreamToWriter starts the process and copies its stdout to w until the
// process exits, w fails, or ctx is cancelled. Cancellation kills the
// process; backpressure from a slow w propagates through the stdout pipe to
// ffmpeg itself, so nothing buffers unbounded. The returned error carries the
// tail of stderr when the process failed.
func (c *Command) StreamToWriter(ctx context.Context, w io.Writer) error {
	c.mu.Lock()
	if c.cmd != nil {
		c.mu.Unlock()
		return fmt.Errorf("command already started")
	}
	c.cmd = exec.CommandContext(ctx, c.Binary, c.Args...)
	c.started = time.Now()

	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("getting stdout pipe: %w", err)
	}
	stderr, err := c.cmd.StderrPipe()
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("getting stderr pipe: %w", err)
	}

	if err := c.cmd.Start(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("starting ffmpeg: %w", err)
	}
	c.monitor = NewProcessMonitor(c.cmd.Process.Pid)
	c.monitor.Start()
	c.mu.Unlock()

	stderrDone := make(chan struct{})
	go c.captureStderr(stderr, stderrDone)

	counting := NewCountingWriter(w, c.monitor)
	copyDone := make(chan error, 1)
	go func() {
		_, copyErr := io.Copy(counting, stdout)
		if copyErr != nil {
			// The client side is gone; stop the producer so Wait returns.
			c.cmd.Process.Kill()
		}
		copyDone <- copyErr
	}()

	// Both pipes must be drained before Wait: Wait closes the parent ends,
	// and closing them while output is still in flight drops the tail of
	// the stream for any writer slower than the final flush.
	copyErr := <-copyDone
	<-stderrDone
	waitErr := c.cmd.Wait()

	c.mu.Lock()
	c.monitor.Stop()
	c.mu.Unlock()

	if waitErr != nil || copyErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if copyErr != nil {
			return fmt.Errorf("copying output: %w", copyErr)
		}
		return fmt.Errorf("ffmpeg exited: %w: %s", waitErr, c.stderrTail())
	}
	return nil
}

// BytesWritten reports how many output bytes have been produced so far.
func (c *Command) BytesWritten() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.monitor == nil {
		return 0
	}
	return c.monitor.BytesWritten()
}

// Duration reports how long the process has been running.
func (c *Command) Duration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.started.IsZero() {
		return 0
	}
	return time.Since(c.started)
}

// Stats returns a snapshot of process resource usage.
func (c *Command) Stats() ProcessStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.monitor == nil {
		return ProcessStats{}
	}
	return c.monitor.Stats()
}

func (c *Command) captureStderr(stderr io.ReadCloser, done chan struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for scanner.Scan() {
		c.stderrMu.Lock()
		c.stderrLines = append(c.stderrLines, scanner.Text())
		if len(c.stderrLines) > maxStderrLines {
			c.stderrLines = c.stderrLines[len(c.stderrLines)-maxStderrLines:]
		}
		c.stderrMu.Unlock()
	}
}

func (c *Command) stderrTail() string {
	c.stderrMu.Lock()
	defer c.stderrMu.Unlock()
	if len(c.stderrLines) == 0 {
		return "(no stderr output)"
	}
	tail := c.stderrLines
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	return strings.Join(tail, "; ")
}
