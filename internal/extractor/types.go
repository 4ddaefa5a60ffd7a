// Package extractor talks to the upstream media backends and returns their
// raw, backend-shaped format descriptors. Normalization into the canonical
// shape happens one layer up, in the catalog package.
package extractor

import (
	"context"
	"time"
)

// MediaInfo is the backend-independent envelope around a single media item.
type MediaInfo struct {
	ID       string
	Title    string
	Author   string
	Duration time.Duration
	Views    int
	Formats  []PrimaryFormat
}

// PrimaryFormat is the primary backend's raw descriptor. Stream presence is
// signalled structurally: AudioChannels > 0 means the format carries audio,
// Width/Height > 0 means it carries video. Bitrate is bit/s as the backend
// reports it.
type PrimaryFormat struct {
	ItagNo         int
	MimeType       string
	Quality        string
	QualityLabel   string
	Bitrate        int
	AverageBitrate int
	FPS            int
	Width          int
	Height         int
	ContentLength  int64
	AudioChannels  int
	AudioQuality   string
	URL            string
}

// SecondaryFormat is the secondary backend's raw descriptor as emitted by its
// JSON dump. Stream presence is signalled by codec strings: the literal
// "none" (or an empty string) means the stream is absent. TBR and ABR are
// kbit/s.
type SecondaryFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	TBR            float64 `json:"tbr"`
	ABR            float64 `json:"abr"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	URL            string  `json:"url"`
}

// HasVideo reports whether the descriptor carries a video stream.
func (f SecondaryFormat) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the descriptor carries an audio stream.
func (f SecondaryFormat) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// Primary is the main metadata backend.
type Primary interface {
	// GetInfo fetches metadata and the raw format list for a media URL or ID.
	GetInfo(ctx context.Context, url string) (*MediaInfo, error)
	// StreamURL resolves the direct media URL for one format of the item.
	StreamURL(ctx context.Context, url string, itag int) (string, error)
}

// Secondary is the fallback backend consulted when the primary's catalog is
// missing or capped at low resolution.
type Secondary interface {
	// Formats fetches the raw format list for a media URL or ID.
	Formats(ctx context.Context, url string) ([]SecondaryFormat, error)
}
