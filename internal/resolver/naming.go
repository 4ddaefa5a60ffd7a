package resolver

import (
	"fmt"
	"strings"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
)

// maxFilenameBase caps the sanitized title length so the full filename stays
// within common filesystem limits.
const maxFilenameBase = 150

// SuggestedFilename derives a download filename from the content title, a
// quality tag, and the delivered container.
func SuggestedFilename(title string, quality media.Quality, kind media.StreamKind) string {
	base := SanitizeFilename(title)
	if base == "" {
		base = "download"
	}

	ext := ".mp4"
	if kind == media.StreamAudio {
		ext = ".m4a"
	}
	return fmt.Sprintf("%s [%s]%s", base, qualityTag(quality, kind), ext)
}

func qualityTag(quality media.Quality, kind media.StreamKind) string {
	if kind == media.StreamAudio {
		if quality.Kind == media.QualityItag {
			return "audio " + quality.Itag
		}
		return "audio"
	}
	switch quality.Kind {
	case media.QualityScale:
		return fmt.Sprintf("%dp", quality.Height)
	case media.QualityItag:
		return "itag " + quality.Itag
	default:
		return "best"
	}
}

// filenameReplacer maps characters illegal on common filesystems to spaces.
var filenameReplacer = strings.NewReplacer(
	"/", " ", "\\", " ", ":", " ", "*", " ", "?", " ",
	"\"", " ", "<", " ", ">", " ", "|", " ", "\x00", " ",
)

// SanitizeFilename strips characters that are illegal in common filesystems,
// collapses runs of whitespace, and caps the length.
func SanitizeFilename(name string) string {
	cleaned := filenameReplacer.Replace(name)

	var b strings.Builder
	for _, r := range cleaned {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	collapsed := strings.Join(strings.Fields(b.String()), " ")

	if len(collapsed) > maxFilenameBase {
		runes := []rune(collapsed)
		for len(string(runes)) > maxFilenameBase {
			runes = runes[:len(runes)-1]
		}
		collapsed = strings.TrimSpace(string(runes))
	}
	return collapsed
}
