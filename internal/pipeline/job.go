package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/TEGAR-SRC/yt-dw/internal/ffmpeg"
	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/pkg/bytesize"
)

// Job is one running delivery pipeline. It lives as long as the client
// connection it feeds.
type Job struct {
	ID          string
	ContentType string
	Strategy    media.Strategy

	cmd    *ffmpeg.Command
	logger *slog.Logger
}

// Stream runs the pipeline, copying output bytes to w until done. Client
// disconnects surface as a context cancellation, which kills the underlying
// process; that case is reported as-is so the caller can tell a dead client
// from a dead pipeline.
func (j *Job) Stream(ctx context.Context, w io.Writer) error {
	start := time.Now()
	j.logger.Info("pipeline started",
		slog.String("job_id", j.ID),
		slog.String("strategy", string(j.Strategy)),
	)

	err := j.cmd.StreamToWriter(ctx, w)
	written := j.cmd.BytesWritten()

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			j.logger.Info("pipeline cancelled",
				slog.String("job_id", j.ID),
				slog.String("bytes_written", bytesize.Format(bytesize.Size(written))),
				slog.Duration("duration", time.Since(start)),
			)
			return err
		}
		j.logger.Error("pipeline failed",
			slog.String("job_id", j.ID),
			slog.String("bytes_written", bytesize.Format(bytesize.Size(written))),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", media.ErrPipelineFailure, err)
	}

	j.logger.Info("pipeline finished",
		slog.String("job_id", j.ID),
		slog.String("bytes_written", bytesize.Format(bytesize.Size(written))),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// BytesWritten reports how many bytes this job has sent so far.
func (j *Job) BytesWritten() uint64 {
	return j.cmd.BytesWritten()
}

// Stats exposes a snapshot of the underlying process stats.
func (j *Job) Stats() ffmpeg.ProcessStats {
	return j.cmd.Stats()
}

// CommandLine returns the full command for diagnostics.
func (j *Job) CommandLine() string {
	return j.cmd.String()
}
