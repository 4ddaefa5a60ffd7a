// Package planner turns a requested quality token and a built catalog into a
// concrete delivery plan: which source format(s) to pull and which pipeline
// strategy to run them through.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TEGAR-SRC/yt-dw/internal/cache"
	"github.com/TEGAR-SRC/yt-dw/internal/catalog"
	"github.com/TEGAR-SRC/yt-dw/internal/httpclient"
	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/internal/observability"
)

// Planner selects delivery strategies. The cache is consulted for direct
// source URLs left behind by an earlier fallback extraction, saving a backend
// round trip when the same content is delivered shortly after being browsed.
type Planner struct {
	cache  *cache.ResultCache
	client *httpclient.Client
	logger *slog.Logger
}

// New creates a Planner. client verifies cached source URLs before they are
// committed to a plan; pass nil to skip verification.
func New(resultCache *cache.ResultCache, client *httpclient.Client, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		cache:  resultCache,
		client: client,
		logger: observability.WithComponent(logger, "planner"),
	}
}

// Plan builds the delivery plan for one request.
//
// For video delivery the quality token resolves strictly against the video
// catalog: a format ID that only exists among audio formats reports
// ErrFormatNotFound rather than silently switching kinds. A merge plan with
// no standalone audio available is still produced, with a nil Audio; the
// assembler substitutes a degraded-path input downstream.
func (p *Planner) Plan(ctx context.Context, kind media.StreamKind, contentID string, q media.Quality, cat catalog.Catalog) (media.DeliveryPlan, error) {
	var (
		plan media.DeliveryPlan
		err  error
	)
	switch kind {
	case media.StreamAudio:
		plan, err = p.planAudio(q, cat)
	default:
		plan, err = p.planVideo(q, cat)
	}
	if err != nil {
		return media.DeliveryPlan{}, err
	}

	p.applyCachedURLs(ctx, contentID, &plan)

	p.logger.Debug("delivery plan built",
		slog.String("content_id", contentID),
		slog.String("quality", q.String()),
		slog.String("strategy", string(plan.Strategy)),
	)
	return plan, nil
}

func (p *Planner) planVideo(q media.Quality, cat catalog.Catalog) (media.DeliveryPlan, error) {
	switch q.Kind {
	case media.QualityBest:
		return planBestVideo(cat)
	case media.QualityScale:
		return planDownscale(q.Height, cat)
	default:
		return planVideoByID(q.Itag, cat)
	}
}

func planBestVideo(cat catalog.Catalog) (media.DeliveryPlan, error) {
	best := cat.BestVideo()
	if best == nil {
		return media.DeliveryPlan{}, fmt.Errorf("%w: catalog has no video formats", media.ErrNoViableSource)
	}
	if best.Kind == media.KindProgressive {
		return media.DeliveryPlan{Strategy: media.StrategyPassthrough, Video: best}, nil
	}
	return media.DeliveryPlan{Strategy: media.StrategyMerge, Video: best, Audio: cat.BestAudio()}, nil
}

// planDownscale satisfies a synthetic ladder rung: pick the best source
// strictly taller than the rung, preferring video-only (the video stream gets
// re-encoded either way, so embedded audio buys nothing), and recompute the
// even target width from that source's aspect ratio.
func planDownscale(targetHeight int, cat catalog.Catalog) (media.DeliveryPlan, error) {
	source := tallestViableSource(cat.Videos, targetHeight, media.KindVideoOnly)
	if source == nil {
		source = tallestViableSource(cat.Videos, targetHeight, media.KindProgressive)
	}
	if source == nil {
		return media.DeliveryPlan{}, fmt.Errorf("%w: no source taller than %dp to downscale from", media.ErrFormatNotFound, targetHeight)
	}

	plan := media.DeliveryPlan{
		Strategy:     media.StrategyTranscodeDownscale,
		Video:        source,
		TargetHeight: targetHeight,
		TargetWidth:  catalog.EvenScaledWidth(*source, targetHeight),
	}
	if !source.HasAudio {
		plan.Audio = cat.BestAudio()
	}
	return plan, nil
}

func planVideoByID(id string, cat catalog.Catalog) (media.DeliveryPlan, error) {
	for i := range cat.Videos {
		if cat.Videos[i].ID != id {
			continue
		}
		v := cat.Videos[i]
		if v.HasAudio {
			return media.DeliveryPlan{Strategy: media.StrategyPassthrough, Video: &v}, nil
		}
		return media.DeliveryPlan{Strategy: media.StrategyMerge, Video: &v, Audio: cat.BestAudio()}, nil
	}
	return media.DeliveryPlan{}, fmt.Errorf("%w: format %q not in video catalog", media.ErrFormatNotFound, id)
}

func (p *Planner) planAudio(q media.Quality, cat catalog.Catalog) (media.DeliveryPlan, error) {
	switch q.Kind {
	case media.QualityBest:
		if audio := cat.BestAudio(); audio != nil {
			return media.DeliveryPlan{Strategy: media.StrategyPassthrough, Audio: audio}, nil
		}
		// Fall back to stripping the audio track out of a progressive stream.
		for i := range cat.Videos {
			if cat.Videos[i].HasAudio {
				a := cat.Videos[i]
				return media.DeliveryPlan{Strategy: media.StrategyPassthrough, Audio: &a}, nil
			}
		}
		return media.DeliveryPlan{}, fmt.Errorf("%w: catalog has no audio streams", media.ErrNoViableSource)
	case media.QualityScale:
		return media.DeliveryPlan{}, fmt.Errorf("%w: scale selector is not valid for audio delivery", media.ErrInvalidInput)
	default:
		for i := range cat.Audios {
			if cat.Audios[i].ID == q.Itag {
				a := cat.Audios[i]
				return media.DeliveryPlan{Strategy: media.StrategyPassthrough, Audio: &a}, nil
			}
		}
		return media.DeliveryPlan{}, fmt.Errorf("%w: format %q not in audio catalog", media.ErrFormatNotFound, q.Itag)
	}
}

// tallestViableSource returns the highest-scored record of the given kind
// strictly taller than targetHeight.
func tallestViableSource(videos []media.RankedFormat, targetHeight int, kind media.Kind) *media.RankedFormat {
	var best *media.RankedFormat
	for i := range videos {
		v := &videos[i]
		if v.Kind != kind || v.Height <= targetHeight {
			continue
		}
		if best == nil || v.Score > best.Score {
			best = v
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// applyCachedURLs swaps in direct source URLs from a fresh fallback
// extraction when the cache still holds one for the chosen format. Cached
// URLs are best-effort: a URL the upstream no longer honors (it may expire
// well inside the cache TTL) evicts the whole entry and is not applied, so
// the resolver falls back to a fresh resolution instead.
func (p *Planner) applyCachedURLs(ctx context.Context, contentID string, plan *media.DeliveryPlan) {
	if p.cache == nil || contentID == "" {
		return
	}
	formats, ok := p.cache.Get(contentID)
	if !ok {
		return
	}
	for _, target := range []*media.RankedFormat{plan.Video, plan.Audio} {
		if target == nil {
			continue
		}
		for _, f := range formats {
			if f.FormatID != target.ID || f.URL == "" {
				continue
			}
			if !p.verifyURL(ctx, f.URL) {
				p.logger.Warn("cached source url no longer honored, evicting entry",
					slog.String("content_id", contentID),
					slog.String("format_id", f.FormatID),
				)
				p.cache.Delete(contentID)
				return
			}
			target.SourceURL = f.URL
			p.logger.Debug("using cached source url",
				slog.String("content_id", contentID),
				slog.String("format_id", f.FormatID),
			)
			break
		}
	}
}

// verifyURL checks that the upstream still answers for a cached media URL.
// With no client configured the URL is trusted as-is.
func (p *Planner) verifyURL(ctx context.Context, rawURL string) bool {
	if p.client == nil {
		return true
	}
	resp, err := p.client.Head(ctx, rawURL)
	if err != nil {
		return false
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
