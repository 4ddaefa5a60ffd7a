package catalog

import "github.com/TEGAR-SRC/yt-dw/internal/media"

// videoOnlyPenalty is subtracted from video-only scores so a progressive
// record wins the tie against an otherwise-equal video-only record, which
// would need a merge step to deliver.
const videoOnlyPenalty = 5

// Resolution band thresholds, in pixels per frame.
const (
	pixels4K    = 3840 * 2160
	pixels1080p = 1920 * 1080
	pixels720p  = 1280 * 720
	pixels480p  = 854 * 480
)

// VideoScore scores a record that carries video. Resolution dominates, then
// frame rate, then a bitrate term capped so it can only break ties within a
// band.
func VideoScore(f media.FormatRecord) float64 {
	return resolutionBand(f.Pixels()) + fpsBand(f.FPS) + min(float64(f.Bitrate)/1000, 20)
}

// AudioScore scores a record by its audio bitrate alone.
func AudioScore(f media.FormatRecord) float64 {
	switch kbps := f.AudioBitrate; {
	case kbps >= 320:
		return 100
	case kbps >= 256:
		return 80
	case kbps >= 192:
		return 60
	case kbps >= 128:
		return 40
	default:
		return 20
	}
}

func resolutionBand(pixels int) float64 {
	switch {
	case pixels >= pixels4K:
		return 100
	case pixels >= pixels1080p:
		return 80
	case pixels >= pixels720p:
		return 60
	case pixels >= pixels480p:
		return 40
	default:
		return 20
	}
}

func fpsBand(fps float64) float64 {
	switch {
	case fps >= 60:
		return 20
	case fps >= 30:
		return 15
	case fps >= 24:
		return 10
	default:
		return 5
	}
}

// Rank classifies a record and attaches its score.
func Rank(f media.FormatRecord) media.RankedFormat {
	ranked := media.RankedFormat{FormatRecord: f}
	switch {
	case f.HasVideo && f.HasAudio:
		ranked.Kind = media.KindProgressive
		ranked.Score = VideoScore(f)
	case f.HasVideo:
		ranked.Kind = media.KindVideoOnly
		ranked.Score = VideoScore(f) - videoOnlyPenalty
	default:
		ranked.Kind = media.KindAudioOnly
		ranked.Score = AudioScore(f)
	}
	return ranked
}
