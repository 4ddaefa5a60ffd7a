package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
)

func videoRecord(id string, w, h int, fps float64, kbps int, audio bool) media.FormatRecord {
	return media.FormatRecord{
		ID: id, HasVideo: true, HasAudio: audio,
		Width: w, Height: h, FPS: fps, Bitrate: kbps, Container: "mp4",
	}
}

func audioRecord(id string, kbps int) media.FormatRecord {
	return media.FormatRecord{ID: id, HasAudio: true, AudioBitrate: kbps, Bitrate: kbps, Container: "m4a"}
}

func TestBuildPartitionsAndRanks(t *testing.T) {
	records := []media.FormatRecord{
		audioRecord("140", 129),
		videoRecord("18", 640, 360, 30, 700, true),
		videoRecord("137", 1920, 1080, 30, 4400, false),
		videoRecord("22", 1280, 720, 30, 1500, true),
		audioRecord("251", 160),
	}

	c := Build(records)
	require.Len(t, c.Videos, 3)
	require.Len(t, c.Audios, 2)

	// Progressive records come first, best score first, then video-only.
	assert.Equal(t, "22", c.Videos[0].ID)
	assert.Equal(t, "18", c.Videos[1].ID)
	assert.Equal(t, "137", c.Videos[2].ID)
	assert.Equal(t, media.KindVideoOnly, c.Videos[2].Kind)

	assert.Equal(t, "251", c.Audios[0].ID)
	assert.Equal(t, 1080, c.MaxHeight())
	assert.Equal(t, "22", c.BestVideo().ID)
	assert.Equal(t, "251", c.BestAudio().ID)
}

func TestBuildDeduplicates(t *testing.T) {
	records := []media.FormatRecord{
		videoRecord("hi", 1920, 1080, 30, 5000, false),
		videoRecord("lo", 1920, 1080, 30, 3000, false),
		// Same resolution but different kind stays.
		videoRecord("prog", 1920, 1080, 30, 3000, true),
		// Different fps stays.
		videoRecord("hfr", 1920, 1080, 60, 3000, false),
	}

	c := Build(records)
	require.Len(t, c.Videos, 3)

	ids := []string{c.Videos[0].ID, c.Videos[1].ID, c.Videos[2].ID}
	assert.Contains(t, ids, "hi")
	assert.Contains(t, ids, "prog")
	assert.Contains(t, ids, "hfr")
	assert.NotContains(t, ids, "lo")
}

func TestBuildIdempotent(t *testing.T) {
	records := []media.FormatRecord{
		videoRecord("a", 1920, 1080, 30, 5000, false),
		videoRecord("b", 1920, 1080, 30, 3000, false),
		videoRecord("c", 1280, 720, 30, 1500, true),
		audioRecord("d", 129),
	}

	first := Build(records)
	second := Build(records)
	assert.Equal(t, first, second)
}

func TestBuildStableForEqualScores(t *testing.T) {
	// Both bitrates land in the same score band; discovery order must be
	// preserved for the tie.
	records := []media.FormatRecord{
		audioRecord("first", 192),
		audioRecord("second", 200),
	}

	c := Build(records)
	require.Len(t, c.Audios, 2)
	assert.Equal(t, "first", c.Audios[0].ID)
	assert.Equal(t, "second", c.Audios[1].ID)
}

func TestEmptyCatalog(t *testing.T) {
	c := Build(nil)
	assert.Nil(t, c.BestVideo())
	assert.Nil(t, c.BestAudio())
	assert.Zero(t, c.MaxHeight())
}
