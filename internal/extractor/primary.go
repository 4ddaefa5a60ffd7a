package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/internal/observability"
)

// PrimaryClient adapts the innertube client to the Primary interface.
type PrimaryClient struct {
	client  youtube.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewPrimaryClient creates a primary backend client. httpClient is the
// transport used for all upstream calls; pass nil to use the default.
func NewPrimaryClient(httpClient *http.Client, timeout time.Duration, logger *slog.Logger) *PrimaryClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrimaryClient{
		client:  youtube.Client{HTTPClient: httpClient},
		timeout: timeout,
		logger:  observability.WithComponent(logger, "extractor.primary"),
	}
}

// GetInfo implements Primary. Direct URLs are copied through when the backend
// already exposed them; ciphered formats come back with an empty URL and are
// resolved lazily via StreamURL when delivery actually needs them.
func (p *PrimaryClient) GetInfo(ctx context.Context, url string) (*MediaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	video, err := p.client.GetVideoContext(ctx, url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: primary backend timed out: %v", media.ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("%w: primary backend: %v", media.ErrSourceUnavailable, err)
	}

	info := &MediaInfo{
		ID:       video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
		Views:    video.Views,
		Formats:  make([]PrimaryFormat, 0, len(video.Formats)),
	}
	for _, f := range video.Formats {
		info.Formats = append(info.Formats, PrimaryFormat{
			ItagNo:         f.ItagNo,
			MimeType:       f.MimeType,
			Quality:        f.Quality,
			QualityLabel:   f.QualityLabel,
			Bitrate:        f.Bitrate,
			AverageBitrate: f.AverageBitrate,
			FPS:            f.FPS,
			Width:          f.Width,
			Height:         f.Height,
			ContentLength:  f.ContentLength,
			AudioChannels:  f.AudioChannels,
			AudioQuality:   f.AudioQuality,
			URL:            f.URL,
		})
	}

	p.logger.Debug("primary metadata fetched",
		slog.String("content_id", video.ID),
		slog.Int("formats", len(info.Formats)),
		slog.Duration("duration", time.Since(start)),
	)
	return info, nil
}

// StreamURL implements Primary. It re-fetches the item so signature deciphering
// runs against a fresh player response.
func (p *PrimaryClient) StreamURL(ctx context.Context, url string, itag int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	video, err := p.client.GetVideoContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: primary backend: %v", media.ErrSourceUnavailable, err)
	}
	for i := range video.Formats {
		if video.Formats[i].ItagNo == itag {
			streamURL, err := p.client.GetStreamURLContext(ctx, video, &video.Formats[i])
			if err != nil {
				return "", fmt.Errorf("%w: resolving stream url for itag %d: %v", media.ErrSourceUnavailable, itag, err)
			}
			return streamURL, nil
		}
	}
	return "", fmt.Errorf("%w: itag %d not offered by primary backend", media.ErrFormatNotFound, itag)
}
