// Package catalog reconciles the raw format descriptors of both extraction
// backends into one ranked, deduplicated, gap-filled quality catalog. All
// functions here are pure mappings over value types; nothing in this package
// performs I/O.
package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/TEGAR-SRC/yt-dw/internal/extractor"
	"github.com/TEGAR-SRC/yt-dw/internal/media"
)

// FromPrimary normalizes the primary backend's descriptors. Audio presence is
// structural (a positive channel count), video presence comes from the mime
// type. Records without a derivable container are dropped, as are records
// carrying neither stream.
func FromPrimary(raw []extractor.PrimaryFormat) []media.FormatRecord {
	records := make([]media.FormatRecord, 0, len(raw))
	for _, f := range raw {
		container := containerFromMime(f.MimeType)
		if container == "" {
			continue
		}

		hasVideo := strings.HasPrefix(f.MimeType, "video/")
		hasAudio := f.AudioChannels > 0
		if !hasVideo && !hasAudio {
			continue
		}

		bitrate := f.AverageBitrate
		if bitrate == 0 {
			bitrate = f.Bitrate
		}
		bitrateKbps := bitrate / 1000

		rec := media.FormatRecord{
			ID:         strconv.Itoa(f.ItagNo),
			HasVideo:   hasVideo,
			HasAudio:   hasAudio,
			Width:      f.Width,
			Height:     f.Height,
			FPS:        float64(f.FPS),
			Bitrate:    bitrateKbps,
			Container:  container,
			ApproxSize: f.ContentLength,
			SourceURL:  f.URL,
		}
		if hasAudio && !hasVideo {
			rec.AudioBitrate = bitrateKbps
		}
		records = append(records, rec)
	}
	return records
}

// FromSecondary normalizes the secondary backend's descriptors. Stream
// presence comes from codec strings, with the literal "none" meaning absent.
func FromSecondary(raw []extractor.SecondaryFormat) []media.FormatRecord {
	records := make([]media.FormatRecord, 0, len(raw))
	for _, f := range raw {
		if f.Ext == "" {
			continue
		}
		hasVideo := f.HasVideo()
		hasAudio := f.HasAudio()
		if !hasVideo && !hasAudio {
			continue
		}

		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}

		rec := media.FormatRecord{
			ID:           f.FormatID,
			HasVideo:     hasVideo,
			HasAudio:     hasAudio,
			Width:        f.Width,
			Height:       f.Height,
			FPS:          f.FPS,
			Bitrate:      int(math.Round(f.TBR)),
			AudioBitrate: int(math.Round(f.ABR)),
			Container:    f.Ext,
			ApproxSize:   size,
			SourceURL:    f.URL,
		}
		if hasAudio && !hasVideo && rec.AudioBitrate == 0 {
			rec.AudioBitrate = rec.Bitrate
		}
		records = append(records, rec)
	}
	return records
}

// containerFromMime extracts the container name from a mime type such as
// "video/mp4; codecs=\"avc1.640028\"".
func containerFromMime(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	_, subtype, ok := strings.Cut(strings.TrimSpace(base), "/")
	if !ok {
		return ""
	}
	return strings.TrimSpace(subtype)
}
