// Package pipeline turns a delivery plan into a running streaming job. The
// assembler only builds argument lists; process lifecycle lives in the Job.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/TEGAR-SRC/yt-dw/internal/ffmpeg"
	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/internal/observability"
)

// Assembler builds streaming jobs from delivery plans. All strategies emit a
// fragmented mp4 so the response is playable as it downloads.
type Assembler struct {
	binaryPath   string
	preset       string
	audioBitrate string
	logger       *slog.Logger
}

// New creates an Assembler driving the ffmpeg binary at binaryPath.
func New(binaryPath, preset, audioBitrate string, logger *slog.Logger) *Assembler {
	if preset == "" {
		preset = "veryfast"
	}
	if audioBitrate == "" {
		audioBitrate = "128k"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		binaryPath:   binaryPath,
		preset:       preset,
		audioBitrate: audioBitrate,
		logger:       observability.WithComponent(logger, "pipeline"),
	}
}

// Assemble builds the job for a plan. Every source the plan references must
// already carry a resolved SourceURL.
func (a *Assembler) Assemble(kind media.StreamKind, plan media.DeliveryPlan) (*Job, error) {
	if kind == media.StreamAudio {
		return a.assembleAudio(plan)
	}

	switch plan.Strategy {
	case media.StrategyPassthrough:
		return a.assemblePassthrough(plan)
	case media.StrategyMerge:
		return a.assembleMerge(plan)
	case media.StrategyTranscodeDownscale:
		return a.assembleDownscale(plan)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", media.ErrPipelineFailure, plan.Strategy)
	}
}

// assemblePassthrough stream-copies a single progressive source. No
// re-encoding, so this is the cheapest and lowest-latency path.
func (a *Assembler) assemblePassthrough(plan media.DeliveryPlan) (*Job, error) {
	if plan.Video == nil || plan.Video.SourceURL == "" {
		return nil, fmt.Errorf("%w: passthrough plan has no resolved video source", media.ErrPipelineFailure)
	}

	cmd := ffmpeg.NewCommandBuilder(a.binaryPath).
		AddInput(plan.Video.SourceURL, ffmpeg.ReconnectArgs...).
		VideoCodec("copy").
		AudioCodec("copy").
		FragmentedMP4().
		Build()

	return a.newJob(cmd, "video/mp4", plan), nil
}

// assembleMerge remuxes a video-only source with a standalone audio source.
// Video is stream-copied; audio is re-encoded to aac so any source codec fits
// the mp4 container. Output stops with the shorter input.
func (a *Assembler) assembleMerge(plan media.DeliveryPlan) (*Job, error) {
	if plan.Video == nil || plan.Video.SourceURL == "" {
		return nil, fmt.Errorf("%w: merge plan has no resolved video source", media.ErrPipelineFailure)
	}

	if plan.Audio == nil || plan.Audio.SourceURL == "" {
		// Only reachable when the catalog holds no audio record at all:
		// the planner attaches the best audio whenever one exists and the
		// resolver already retried fresh URL resolution, so there is no
		// substitute stream left to open. Ship the video without sound
		// rather than failing the whole request.
		a.logger.Warn("merge without audio source, delivering video-only stream",
			slog.String("video_format", plan.Video.ID),
		)
		cmd := ffmpeg.NewCommandBuilder(a.binaryPath).
			AddInput(plan.Video.SourceURL, ffmpeg.ReconnectArgs...).
			VideoCodec("copy").
			FragmentedMP4().
			Build()
		return a.newJob(cmd, "video/mp4", plan), nil
	}

	cmd := ffmpeg.NewCommandBuilder(a.binaryPath).
		AddInput(plan.Video.SourceURL, ffmpeg.ReconnectArgs...).
		AddInput(plan.Audio.SourceURL, ffmpeg.ReconnectArgs...).
		Map("0:v:0").
		Map("1:a:0").
		VideoCodec("copy").
		AudioCodec("aac").
		AudioBitrate(a.audioBitrate).
		Shortest().
		FragmentedMP4().
		Build()

	return a.newJob(cmd, "video/mp4", plan), nil
}

// assembleDownscale re-encodes the video source at the synthesized target
// dimensions, pulling in a second audio input when the source has none.
func (a *Assembler) assembleDownscale(plan media.DeliveryPlan) (*Job, error) {
	if plan.Video == nil || plan.Video.SourceURL == "" {
		return nil, fmt.Errorf("%w: downscale plan has no resolved video source", media.ErrPipelineFailure)
	}
	if plan.TargetWidth <= 0 || plan.TargetHeight <= 0 {
		return nil, fmt.Errorf("%w: downscale plan has no target dimensions", media.ErrPipelineFailure)
	}

	b := ffmpeg.NewCommandBuilder(a.binaryPath).
		AddInput(plan.Video.SourceURL, ffmpeg.ReconnectArgs...)

	hasAudioInput := false
	if !plan.Video.HasAudio {
		if plan.Audio != nil && plan.Audio.SourceURL != "" {
			b.AddInput(plan.Audio.SourceURL, ffmpeg.ReconnectArgs...).
				Map("0:v:0").
				Map("1:a:0")
			hasAudioInput = true
		} else {
			a.logger.Warn("downscale without audio source, delivering video-only stream",
				slog.String("video_format", plan.Video.ID),
			)
		}
	}

	b.Scale(plan.TargetWidth, plan.TargetHeight).
		VideoCodec("libx264").
		Preset(a.preset)
	if plan.Video.HasAudio || hasAudioInput {
		b.AudioCodec("aac").AudioBitrate(a.audioBitrate)
	}
	if hasAudioInput {
		b.Shortest()
	}
	cmd := b.FragmentedMP4().Build()

	return a.newJob(cmd, "video/mp4", plan), nil
}

// assembleAudio extracts and re-encodes the audio track alone.
func (a *Assembler) assembleAudio(plan media.DeliveryPlan) (*Job, error) {
	if plan.Audio == nil || plan.Audio.SourceURL == "" {
		return nil, fmt.Errorf("%w: audio plan has no resolved source", media.ErrPipelineFailure)
	}

	cmd := ffmpeg.NewCommandBuilder(a.binaryPath).
		AddInput(plan.Audio.SourceURL, ffmpeg.ReconnectArgs...).
		NoVideo().
		AudioCodec("aac").
		AudioBitrate(a.audioBitrate).
		OutputArgs("-movflags", "frag_keyframe+empty_moov").
		Format("mp4").
		Build()

	return a.newJob(cmd, "audio/mp4", plan), nil
}

func (a *Assembler) newJob(cmd *ffmpeg.Command, contentType string, plan media.DeliveryPlan) *Job {
	id := ulid.Make().String()
	a.logger.Debug("job assembled",
		slog.String("job_id", id),
		slog.String("strategy", string(plan.Strategy)),
		slog.String("command", cmd.String()),
	)
	return &Job{
		ID:          id,
		ContentType: contentType,
		Strategy:    plan.Strategy,
		cmd:         cmd,
		logger:      a.logger,
	}
}
