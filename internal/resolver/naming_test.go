package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My Video", "My Video"},
		{"illegal chars", `a/b\c:d*e?f"g<h>i|j`, "a b c d e f g h i j"},
		{"control chars dropped", "ab\x01cd\x7fef", "abcdef"},
		{"whitespace collapsed", "  too   many    spaces  ", "too many spaces"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("x", 400)
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), maxFilenameBase)
	assert.NotEmpty(t, got)
}

func TestSuggestedFilename(t *testing.T) {
	best := media.Quality{Kind: media.QualityBest}
	assert.Equal(t, "Clip [best].mp4", SuggestedFilename("Clip", best, media.StreamVideo))

	scale := media.Quality{Kind: media.QualityScale, Height: 480}
	assert.Equal(t, "Clip [480p].mp4", SuggestedFilename("Clip", scale, media.StreamVideo))

	itag := media.Quality{Kind: media.QualityItag, Itag: "22"}
	assert.Equal(t, "Clip [itag 22].mp4", SuggestedFilename("Clip", itag, media.StreamVideo))

	assert.Equal(t, "Clip [audio].m4a", SuggestedFilename("Clip", best, media.StreamAudio))

	// Untitled content still gets a usable name.
	assert.Equal(t, "download [best].mp4", SuggestedFilename("", best, media.StreamVideo))
}
