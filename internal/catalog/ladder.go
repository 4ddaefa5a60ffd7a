package catalog

import (
	"math"
	"sort"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
)

// StandardRungs is the fixed ascending set of standard vertical resolutions
// the ladder is built from.
var StandardRungs = []int{144, 240, 360, 480, 720, 1080, 1440, 2160, 4320}

// Ladder expands a deduplicated video catalog into the standardized quality
// ladder. Missing rungs below the tallest actual height become synthetic
// downscale entries; rungs above it are never emitted, so the ladder can
// never promise a resolution the source material does not have. Actual
// heights that fall between rungs are kept as-is.
//
// When no record carries a known height the catalog cannot be standardized
// and is returned unchanged, entry per record, marked non-standardized.
func Ladder(videos []media.RankedFormat) []media.LadderEntry {
	best := bestByPixels(videos)
	if best == nil {
		return rawEntries(videos)
	}

	highestActual := 0
	byHeight := make(map[int]media.RankedFormat)
	for _, v := range videos {
		if v.Height <= 0 {
			continue
		}
		if v.Height > highestActual {
			highestActual = v.Height
		}
		if cur, ok := byHeight[v.Height]; !ok || v.Score > cur.Score {
			byHeight[v.Height] = v
		}
	}

	entries := make([]media.LadderEntry, 0, len(StandardRungs)+len(byHeight))
	onRung := make(map[int]bool, len(StandardRungs))
	for _, rung := range StandardRungs {
		if rung > highestActual {
			break
		}
		onRung[rung] = true
		if actual, ok := byHeight[rung]; ok {
			entries = append(entries, actualEntry(rung, actual))
			continue
		}
		if best.Height > rung {
			entries = append(entries, syntheticEntry(rung, *best))
		}
	}

	// Off-rung actual heights are preserved, never hidden behind the grid.
	for height, actual := range byHeight {
		if !onRung[height] {
			entries = append(entries, actualEntry(height, actual))
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TargetHeight != entries[j].TargetHeight {
			return entries[i].TargetHeight < entries[j].TargetHeight
		}
		return !entries[i].Synthetic && entries[j].Synthetic
	})
	return entries
}

func rawEntries(videos []media.RankedFormat) []media.LadderEntry {
	entries := make([]media.LadderEntry, 0, len(videos))
	for _, v := range videos {
		entries = append(entries, media.LadderEntry{
			TargetHeight: v.Height,
			SourceID:     v.ID,
			Width:        v.Width,
			Height:       v.Height,
			FPS:          v.FPS,
			Bitrate:      v.Bitrate,
			HasAudio:     v.HasAudio,
		})
	}
	return entries
}

func actualEntry(height int, v media.RankedFormat) media.LadderEntry {
	return media.LadderEntry{
		TargetHeight: height,
		SourceID:     v.ID,
		Standardized: true,
		Width:        v.Width,
		Height:       v.Height,
		FPS:          v.FPS,
		Bitrate:      v.Bitrate,
		HasAudio:     v.HasAudio,
	}
}

// syntheticEntry builds a downscale placeholder at the given rung from the
// best source. The width follows the source aspect ratio rounded to an even
// value for encoder compatibility. Synthetic entries always imply an
// audio-inclusive transcode at delivery time, hence HasAudio is fixed true.
func syntheticEntry(rung int, best media.RankedFormat) media.LadderEntry {
	return media.LadderEntry{
		TargetHeight: rung,
		Synthetic:    true,
		Standardized: true,
		Width:        EvenScaledWidth(best, rung),
		Height:       rung,
		FPS:          best.FPS,
		Bitrate:      best.Bitrate,
		HasAudio:     true,
	}
}

// EvenScaledWidth computes the width a source scales to at targetHeight,
// preserving its aspect ratio and rounding to the nearest even integer.
func EvenScaledWidth(source media.RankedFormat, targetHeight int) int {
	aspect := source.AspectRatio()
	if aspect == 0 {
		return 0
	}
	return int(math.Round(float64(targetHeight)*aspect/2)) * 2
}

func bestByPixels(videos []media.RankedFormat) *media.RankedFormat {
	var best *media.RankedFormat
	for i := range videos {
		if videos[i].Pixels() <= 0 {
			continue
		}
		if best == nil || videos[i].Pixels() > best.Pixels() {
			best = &videos[i]
		}
	}
	return best
}
