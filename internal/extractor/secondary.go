package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/internal/observability"
)

// secondaryDump is the envelope around the secondary backend's JSON output.
type secondaryDump struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Formats []SecondaryFormat `json:"formats"`
}

// SecondaryClient shells out to an external extractor binary and parses its
// single-item JSON dump. It is consulted only when the primary backend's
// catalog is missing or capped at low resolution, so the slower subprocess
// round trip stays off the hot path.
type SecondaryClient struct {
	binaryPath string
	timeout    time.Duration
	logger     *slog.Logger

	// runCommand is swappable for tests.
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)
}

// NewSecondaryClient creates a secondary backend client driving the binary at
// binaryPath.
func NewSecondaryClient(binaryPath string, timeout time.Duration, logger *slog.Logger) *SecondaryClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &SecondaryClient{
		binaryPath: binaryPath,
		timeout:    timeout,
		logger:     observability.WithComponent(logger, "extractor.secondary"),
		runCommand: runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Formats implements Secondary.
func (s *SecondaryClient) Formats(ctx context.Context, url string) ([]SecondaryFormat, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := []string{"-J", "--no-playlist", url}
	start := time.Now()
	stdout, stderr, err := s.runCommand(ctx, s.binaryPath, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: secondary backend timed out after %s", media.ErrSourceUnavailable, s.timeout)
		}
		return nil, fmt.Errorf("%w: secondary backend: %v: %s", media.ErrSourceUnavailable, err, firstLine(stderr))
	}

	var dump secondaryDump
	if err := json.Unmarshal(stdout, &dump); err != nil {
		return nil, fmt.Errorf("%w: parsing secondary backend output: %v", media.ErrSourceUnavailable, err)
	}

	s.logger.Debug("secondary formats fetched",
		slog.String("content_id", dump.ID),
		slog.Int("formats", len(dump.Formats)),
		slog.Duration("duration", time.Since(start)),
	)
	return dump.Formats, nil
}

func firstLine(b []byte) string {
	line, _, _ := strings.Cut(strings.TrimSpace(string(b)), "\n")
	return line
}
