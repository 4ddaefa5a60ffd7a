package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
)

func TestVideoScoreBands(t *testing.T) {
	tests := []struct {
		name string
		rec  media.FormatRecord
		want float64
	}{
		{"4k60", media.FormatRecord{Width: 3840, Height: 2160, FPS: 60, Bitrate: 20000}, 100 + 20 + 20},
		{"1080p30", media.FormatRecord{Width: 1920, Height: 1080, FPS: 30, Bitrate: 4000}, 80 + 15 + 4},
		{"720p24", media.FormatRecord{Width: 1280, Height: 720, FPS: 24, Bitrate: 2500}, 60 + 10 + 2.5},
		{"480p", media.FormatRecord{Width: 854, Height: 480, FPS: 15, Bitrate: 1000}, 40 + 5 + 1},
		{"tiny", media.FormatRecord{Width: 256, Height: 144}, 20 + 5 + 0},
		{"bitrate capped", media.FormatRecord{Width: 3840, Height: 2160, FPS: 60, Bitrate: 90000}, 100 + 20 + 20},
		{"unknown resolution", media.FormatRecord{FPS: 30, Bitrate: 1000}, 20 + 15 + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, VideoScore(tt.rec), 1e-9)
		})
	}
}

func TestAudioScoreBands(t *testing.T) {
	assert.Equal(t, 100.0, AudioScore(media.FormatRecord{AudioBitrate: 320}))
	assert.Equal(t, 80.0, AudioScore(media.FormatRecord{AudioBitrate: 256}))
	assert.Equal(t, 60.0, AudioScore(media.FormatRecord{AudioBitrate: 192}))
	assert.Equal(t, 40.0, AudioScore(media.FormatRecord{AudioBitrate: 128}))
	assert.Equal(t, 20.0, AudioScore(media.FormatRecord{AudioBitrate: 96}))
	assert.Equal(t, 20.0, AudioScore(media.FormatRecord{}))
}

// The video-only penalty is a pinned behavior: a video-only record scores
// exactly 5 below an otherwise identical progressive one.
func TestVideoOnlyPenalty(t *testing.T) {
	base := media.FormatRecord{Width: 1920, Height: 1080, FPS: 30, Bitrate: 4000}

	progressive := base
	progressive.HasVideo = true
	progressive.HasAudio = true

	videoOnly := base
	videoOnly.HasVideo = true

	p := Rank(progressive)
	v := Rank(videoOnly)
	assert.Equal(t, media.KindProgressive, p.Kind)
	assert.Equal(t, media.KindVideoOnly, v.Kind)
	assert.InDelta(t, 5.0, p.Score-v.Score, 1e-9)
}

func TestRankAudioOnly(t *testing.T) {
	r := Rank(media.FormatRecord{HasAudio: true, AudioBitrate: 192})
	assert.Equal(t, media.KindAudioOnly, r.Kind)
	assert.Equal(t, 60.0, r.Score)
}
