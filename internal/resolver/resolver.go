// Package resolver orchestrates a request end to end: extract metadata,
// build the catalog, decide on backend fallback, synthesize the ladder, and
// for deliveries run the planner and hand the plan to the pipeline assembler.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/TEGAR-SRC/yt-dw/internal/cache"
	"github.com/TEGAR-SRC/yt-dw/internal/catalog"
	"github.com/TEGAR-SRC/yt-dw/internal/extractor"
	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/internal/observability"
	"github.com/TEGAR-SRC/yt-dw/internal/pipeline"
	"github.com/TEGAR-SRC/yt-dw/internal/planner"
)

// fallbackMaxHeight is the primary-catalog ceiling at or below which the
// secondary backend is consulted for something better.
const fallbackMaxHeight = 360

// Result is the resolved catalog view for one content item.
type Result struct {
	ID           string
	Title        string
	Author       string
	Duration     time.Duration
	Views        int
	VideoFormats []media.LadderEntry
	AudioFormats []media.RankedFormat

	catalog catalog.Catalog
}

// Delivery is a ready-to-stream job plus the response metadata the HTTP
// layer needs.
type Delivery struct {
	Job         *pipeline.Job
	Filename    string
	ContentType string
}

// Resolver wires the extraction backends, cache, planner, and assembler.
type Resolver struct {
	primary   extractor.Primary
	secondary extractor.Secondary
	cache     *cache.ResultCache
	planner   *planner.Planner
	assembler *pipeline.Assembler
	logger    *slog.Logger
}

// New creates a Resolver.
func New(primary extractor.Primary, secondary extractor.Secondary, resultCache *cache.ResultCache, plnr *planner.Planner, assembler *pipeline.Assembler, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		primary:   primary,
		secondary: secondary,
		cache:     resultCache,
		planner:   plnr,
		assembler: assembler,
		logger:    observability.WithComponent(logger, "resolver"),
	}
}

// Resolve fetches metadata and builds the exposed catalog: the standardized
// video ladder plus the ranked audio list.
func (r *Resolver) Resolve(ctx context.Context, url string) (*Result, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty content url", media.ErrInvalidInput)
	}
	defer observability.TimedOperation(ctx, r.logger, "resolve")()

	info, err := r.primary.GetInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	cat := catalog.Build(catalog.FromPrimary(info.Formats))
	cat = r.maybeFallback(ctx, url, info.ID, cat)

	return &Result{
		ID:           info.ID,
		Title:        info.Title,
		Author:       info.Author,
		Duration:     info.Duration,
		Views:        info.Views,
		VideoFormats: catalog.Ladder(cat.Videos),
		AudioFormats: cat.Audios,
		catalog:      cat,
	}, nil
}

// maybeFallback consults the secondary backend when the primary catalog has
// no video or tops out at low resolution. A usable secondary result replaces
// the corresponding catalog partition wholesale; secondary failure keeps the
// primary catalog and is never surfaced to the caller.
func (r *Resolver) maybeFallback(ctx context.Context, url, contentID string, cat catalog.Catalog) catalog.Catalog {
	if len(cat.Videos) > 0 && cat.MaxHeight() > fallbackMaxHeight {
		return cat
	}

	r.logger.Info("primary catalog capped, trying secondary backend",
		slog.String("content_id", contentID),
		slog.Int("max_height", cat.MaxHeight()),
	)

	raw, err := r.secondary.Formats(ctx, url)
	if err != nil {
		r.logger.Warn("secondary backend failed, keeping primary catalog",
			slog.String("content_id", contentID),
			slog.String("error", err.Error()),
		)
		return cat
	}

	secondary := catalog.Build(catalog.FromSecondary(raw))
	if len(secondary.Videos) > 0 {
		cat.Videos = secondary.Videos
	}
	if len(secondary.Audios) > 0 {
		cat.Audios = secondary.Audios
	}
	if r.cache != nil {
		r.cache.Put(contentID, raw)
	}

	r.logger.Info("secondary catalog adopted",
		slog.String("content_id", contentID),
		slog.Int("video_formats", len(secondary.Videos)),
		slog.Int("audio_formats", len(secondary.Audios)),
	)
	return cat
}

// Deliver resolves the content, plans the delivery for the requested kind
// and quality token, and assembles the streaming job.
func (r *Resolver) Deliver(ctx context.Context, url string, kind media.StreamKind, qualityToken string) (*Delivery, error) {
	quality, err := media.ParseQuality(qualityToken)
	if err != nil {
		return nil, err
	}

	result, err := r.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}

	plan, err := r.planner.Plan(ctx, kind, result.ID, quality, result.catalog)
	if err != nil {
		return nil, err
	}

	if err := r.resolveSourceURLs(ctx, url, kind, &plan); err != nil {
		return nil, err
	}

	job, err := r.assembler.Assemble(kind, plan)
	if err != nil {
		return nil, err
	}

	return &Delivery{
		Job:         job,
		Filename:    SuggestedFilename(result.Title, quality, kind),
		ContentType: job.ContentType,
	}, nil
}

// resolveSourceURLs fills in direct media URLs the catalog did not already
// carry. Primary formats are re-resolved by itag; a missing audio URL is a
// degraded path, not a failure.
func (r *Resolver) resolveSourceURLs(ctx context.Context, url string, kind media.StreamKind, plan *media.DeliveryPlan) error {
	if plan.Video != nil && plan.Video.SourceURL == "" {
		resolved, err := r.streamURL(ctx, url, plan.Video.ID)
		if err != nil {
			return err
		}
		plan.Video.SourceURL = resolved
	}

	if plan.Audio != nil && plan.Audio.SourceURL == "" {
		resolved, err := r.streamURL(ctx, url, plan.Audio.ID)
		if err != nil {
			if kind == media.StreamAudio {
				return err
			}
			r.logger.Warn("audio source unresolvable, continuing without it",
				slog.String("format_id", plan.Audio.ID),
				slog.String("error", err.Error()),
			)
			plan.Audio = nil
			return nil
		}
		plan.Audio.SourceURL = resolved
	}
	return nil
}

func (r *Resolver) streamURL(ctx context.Context, url, formatID string) (string, error) {
	itag, err := strconv.Atoi(formatID)
	if err != nil {
		return "", fmt.Errorf("%w: no direct url for format %q", media.ErrSourceUnavailable, formatID)
	}
	return r.primary.StreamURL(ctx, url, itag)
}
