// Package media defines the canonical, backend-agnostic value types shared by
// the catalog, planner, and pipeline layers. All types here are value objects
// owned by the request that computed them; the result cache is the only place
// where data crosses request boundaries.
package media

// Kind classifies a ranked format by which elementary streams it carries.
type Kind string

// Kind constants.
const (
	KindProgressive Kind = "progressive" // video + audio in one stream
	KindVideoOnly   Kind = "video_only"
	KindAudioOnly   Kind = "audio_only"
)

// StreamKind selects the delivery path requested by the client.
type StreamKind string

// StreamKind constants.
const (
	StreamVideo StreamKind = "video"
	StreamAudio StreamKind = "audio"
)

// FormatRecord is the canonical shape a raw backend descriptor is normalized
// into. Either HasVideo or HasAudio holds; records with neither are discarded
// at the normalization boundary. Width and Height are either both positive or
// both zero (unknown resolution). Missing numeric fields are zero, never
// absent, so downstream comparisons are total-ordered.
type FormatRecord struct {
	ID       string  `json:"id"`
	HasVideo bool    `json:"has_video"`
	HasAudio bool    `json:"has_audio"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	FPS      float64 `json:"fps,omitempty"`
	// Bitrate is the total bitrate in kbit/s.
	Bitrate int `json:"bitrate,omitempty"`
	// AudioBitrate is the audio bitrate in kbit/s.
	AudioBitrate int    `json:"audio_bitrate,omitempty"`
	Container    string `json:"container"`
	// ApproxSize is the approximate payload size in bytes, 0 when unknown.
	ApproxSize int64 `json:"approx_size,omitempty"`
	// SourceURL is the direct media URL when the backend exposed one.
	SourceURL string `json:"-"`
}

// Pixels returns the pixel count of the frame, 0 when the resolution is unknown.
func (f FormatRecord) Pixels() int {
	return f.Width * f.Height
}

// AspectRatio returns width/height, or 0 when the resolution is unknown.
func (f FormatRecord) AspectRatio() float64 {
	if f.Width <= 0 || f.Height <= 0 {
		return 0
	}
	return float64(f.Width) / float64(f.Height)
}

// RankedFormat is a FormatRecord with its computed quality score and kind.
// Within a kind, Score is monotonic with perceived quality: resolution
// dominates, then frame rate, then bitrate for video; bitrate alone for audio.
type RankedFormat struct {
	FormatRecord
	Score float64 `json:"score"`
	Kind  Kind    `json:"kind"`
}

// LadderEntry is one rung of the standardized quality ladder. Synthetic
// entries have no source format at their exact height and are satisfied at
// delivery time by downscaling a taller source; a synthetic entry's height is
// always strictly below the highest actual height (no upscaling, ever).
type LadderEntry struct {
	TargetHeight int    `json:"target_height"`
	SourceID     string `json:"source_id,omitempty"`
	Synthetic    bool   `json:"synthetic"`
	// Standardized is false only when no record in the catalog carried a
	// known height, in which case the catalog is exposed as-is.
	Standardized bool    `json:"standardized"`
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	FPS          float64 `json:"fps,omitempty"`
	Bitrate      int     `json:"bitrate,omitempty"`
	HasAudio     bool    `json:"has_audio"`
}

// Strategy names a concrete delivery pipeline shape.
type Strategy string

// Strategy constants.
const (
	// StrategyPassthrough stream-copies a single progressive or audio-only
	// source into the output container. No re-encoding.
	StrategyPassthrough Strategy = "passthrough"
	// StrategyMerge remuxes a video-only source with a standalone audio
	// source into one output.
	StrategyMerge Strategy = "merge"
	// StrategyTranscodeDownscale re-encodes a taller source down to the
	// requested target dimensions.
	StrategyTranscodeDownscale Strategy = "transcode_downscale"
)

// DeliveryPlan is the planner's decision: the strategy plus the source
// record(s) it requires. Merge requires a Video without embedded audio and an
// Audio source (Audio may still be nil if no standalone audio exists; the
// assembler then substitutes a degraded path). TranscodeDownscale requires a
// Video strictly taller than TargetHeight.
type DeliveryPlan struct {
	Strategy     Strategy
	Video        *RankedFormat
	Audio        *RankedFormat
	TargetWidth  int
	TargetHeight int
}
