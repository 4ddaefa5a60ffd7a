package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
)

func ranked(id, url string, hasVideo, hasAudio bool) *media.RankedFormat {
	return &media.RankedFormat{
		FormatRecord: media.FormatRecord{
			ID: id, HasVideo: hasVideo, HasAudio: hasAudio, SourceURL: url,
		},
	}
}

func TestAssemblePassthrough(t *testing.T) {
	a := New("ffmpeg", "veryfast", "128k", nil)
	plan := media.DeliveryPlan{
		Strategy: media.StrategyPassthrough,
		Video:    ranked("22", "https://cdn.example/22", true, true),
	}

	job, err := a.Assemble(media.StreamVideo, plan)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", job.ContentType)
	assert.NotEmpty(t, job.ID)

	line := job.CommandLine()
	assert.Contains(t, line, "-c:v copy")
	assert.Contains(t, line, "-c:a copy")
	assert.NotContains(t, line, "libx264")
	assert.Contains(t, line, "frag_keyframe")
}

func TestAssembleMerge(t *testing.T) {
	a := New("ffmpeg", "veryfast", "128k", nil)
	plan := media.DeliveryPlan{
		Strategy: media.StrategyMerge,
		Video:    ranked("137", "https://cdn.example/v", true, false),
		Audio:    ranked("140", "https://cdn.example/a", false, true),
	}

	job, err := a.Assemble(media.StreamVideo, plan)
	require.NoError(t, err)

	line := job.CommandLine()
	assert.Contains(t, line, "-i https://cdn.example/v")
	assert.Contains(t, line, "-i https://cdn.example/a")
	assert.Contains(t, line, "-map 0:v:0 -map 1:a:0")
	assert.Contains(t, line, "-c:v copy")
	assert.Contains(t, line, "-c:a aac")
	assert.Contains(t, line, "-b:a 128k")
	assert.Contains(t, line, "-shortest")
}

// A merge plan lacking any audio source still yields a runnable job.
func TestAssembleMergeWithoutAudio(t *testing.T) {
	a := New("ffmpeg", "veryfast", "128k", nil)
	plan := media.DeliveryPlan{
		Strategy: media.StrategyMerge,
		Video:    ranked("137", "https://cdn.example/v", true, false),
	}

	job, err := a.Assemble(media.StreamVideo, plan)
	require.NoError(t, err)

	line := job.CommandLine()
	assert.Contains(t, line, "-c:v copy")
	assert.Equal(t, 1, strings.Count(line, " -i "))
}

func TestAssembleDownscale(t *testing.T) {
	a := New("ffmpeg", "fast", "160k", nil)
	plan := media.DeliveryPlan{
		Strategy:     media.StrategyTranscodeDownscale,
		Video:        ranked("137", "https://cdn.example/v", true, false),
		Audio:        ranked("140", "https://cdn.example/a", false, true),
		TargetWidth:  854,
		TargetHeight: 480,
	}

	job, err := a.Assemble(media.StreamVideo, plan)
	require.NoError(t, err)

	line := job.CommandLine()
	assert.Contains(t, line, "-vf scale=854:480")
	assert.Contains(t, line, "-c:v libx264")
	assert.Contains(t, line, "-preset fast")
	assert.Contains(t, line, "-c:a aac")
	assert.Contains(t, line, "-b:a 160k")
}

func TestAssembleDownscaleMissingDimensions(t *testing.T) {
	a := New("ffmpeg", "", "", nil)
	plan := media.DeliveryPlan{
		Strategy: media.StrategyTranscodeDownscale,
		Video:    ranked("137", "https://cdn.example/v", true, false),
	}

	_, err := a.Assemble(media.StreamVideo, plan)
	assert.ErrorIs(t, err, media.ErrPipelineFailure)
}

func TestAssembleAudio(t *testing.T) {
	a := New("ffmpeg", "veryfast", "128k", nil)
	plan := media.DeliveryPlan{
		Strategy: media.StrategyPassthrough,
		Audio:    ranked("140", "https://cdn.example/a", false, true),
	}

	job, err := a.Assemble(media.StreamAudio, plan)
	require.NoError(t, err)
	assert.Equal(t, "audio/mp4", job.ContentType)

	line := job.CommandLine()
	assert.Contains(t, line, "-vn")
	assert.Contains(t, line, "-c:a aac")
	assert.Contains(t, line, "-f mp4")
}

func TestAssembleUnresolvedSource(t *testing.T) {
	a := New("ffmpeg", "", "", nil)
	plan := media.DeliveryPlan{
		Strategy: media.StrategyPassthrough,
		Video:    ranked("22", "", true, true),
	}

	_, err := a.Assemble(media.StreamVideo, plan)
	assert.ErrorIs(t, err, media.ErrPipelineFailure)
}
