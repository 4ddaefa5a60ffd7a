package ffmpeg

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowWriter simulates a client draining the stream slower than the process
// produces it.
type slowWriter struct {
	delay   time.Duration
	written int
	fail    error
}

func (w *slowWriter) Write(p []byte) (int, error) {
	if w.fail != nil {
		return 0, w.fail
	}
	time.Sleep(w.delay)
	w.written += len(p)
	return len(p), nil
}

func TestStreamToWriterSlowClientGetsFullOutput(t *testing.T) {
	const want = 256 * 1024

	cmd := &Command{
		Binary: "/bin/sh",
		Args:   []string{"-c", "dd if=/dev/zero bs=1024 count=256 2>/dev/null"},
	}
	w := &slowWriter{delay: 2 * time.Millisecond}

	err := cmd.StreamToWriter(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, want, w.written)
	assert.Equal(t, uint64(want), cmd.BytesWritten())
}

func TestStreamToWriterCancellationKillsProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cmd := &Command{Binary: "/bin/sh", Args: []string{"-c", "sleep 30"}}

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := cmd.StreamToWriter(ctx, io.Discard)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestStreamToWriterReportsStderrTail(t *testing.T) {
	cmd := &Command{Binary: "/bin/sh", Args: []string{"-c", "echo boom >&2; exit 1"}}

	err := cmd.StreamToWriter(context.Background(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestStreamToWriterWriteFailureSurfaces(t *testing.T) {
	cmd := &Command{
		Binary: "/bin/sh",
		Args:   []string{"-c", "dd if=/dev/zero bs=1024 count=1024 2>/dev/null"},
	}
	w := &slowWriter{fail: errors.New("client went away")}

	err := cmd.StreamToWriter(context.Background(), w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client went away")
}

func TestStreamToWriterSingleUse(t *testing.T) {
	cmd := &Command{Binary: "/bin/sh", Args: []string{"-c", "true"}}
	require.NoError(t, cmd.StreamToWriter(context.Background(), io.Discard))

	err := cmd.StreamToWriter(context.Background(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}