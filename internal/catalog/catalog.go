package catalog

import (
	"fmt"
	"sort"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
)

// Catalog is the ranked view of one content item's formats. Videos holds the
// deduplicated progressive and video-only records, highest score first within
// each kind; Audios holds the audio-only records, highest score first.
type Catalog struct {
	Videos []media.RankedFormat
	Audios []media.RankedFormat
}

// Build partitions, ranks, sorts, and deduplicates normalized records into a
// catalog. Sorting is stable, so records with equal scores keep their
// discovery order, and the whole operation is idempotent: rebuilding from the
// same input yields the same catalog.
func Build(records []media.FormatRecord) Catalog {
	var progressive, videoOnly, audioOnly []media.RankedFormat
	for _, rec := range records {
		ranked := Rank(rec)
		switch ranked.Kind {
		case media.KindProgressive:
			progressive = append(progressive, ranked)
		case media.KindVideoOnly:
			videoOnly = append(videoOnly, ranked)
		default:
			audioOnly = append(audioOnly, ranked)
		}
	}

	sortByScore(progressive)
	sortByScore(videoOnly)
	sortByScore(audioOnly)

	videos := make([]media.RankedFormat, 0, len(progressive)+len(videoOnly))
	videos = append(videos, progressive...)
	videos = append(videos, videoOnly...)

	return Catalog{
		Videos: dedupeVideos(videos),
		Audios: audioOnly,
	}
}

func sortByScore(formats []media.RankedFormat) {
	sort.SliceStable(formats, func(i, j int) bool {
		return formats[i].Score > formats[j].Score
	})
}

// dedupeVideos drops later records that repeat an earlier record's
// (resolution, fps, kind) key. The input is ordered best-first, so the kept
// occurrence is always the highest-scored one.
func dedupeVideos(videos []media.RankedFormat) []media.RankedFormat {
	seen := make(map[string]struct{}, len(videos))
	out := make([]media.RankedFormat, 0, len(videos))
	for _, v := range videos {
		key := fmt.Sprintf("%dx%d@%g/%s", v.Width, v.Height, v.FPS, v.Kind)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// MaxHeight returns the tallest known video height in the catalog, 0 when no
// video record carries a known resolution.
func (c Catalog) MaxHeight() int {
	maxHeight := 0
	for _, v := range c.Videos {
		if v.Height > maxHeight {
			maxHeight = v.Height
		}
	}
	return maxHeight
}

// BestVideo returns the highest-ranked video record, nil when none exist.
func (c Catalog) BestVideo() *media.RankedFormat {
	if len(c.Videos) == 0 {
		return nil
	}
	v := c.Videos[0]
	return &v
}

// BestAudio returns the highest-ranked audio-only record, nil when none exist.
func (c Catalog) BestAudio() *media.RankedFormat {
	if len(c.Audios) == 0 {
		return nil
	}
	a := c.Audios[0]
	return &a
}
