package media

import "errors"

// Sentinel errors shared across the extraction, planning, and delivery
// layers. HTTP handlers map these onto status codes; everything else wraps
// them with context via fmt.Errorf and %w.
var (
	// ErrInvalidInput marks malformed client input (bad URL, bad quality token).
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable marks upstream failure on every configured backend.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrFormatNotFound marks a quality selector that matched nothing in the
	// catalog or ladder.
	ErrFormatNotFound = errors.New("format not found")

	// ErrNoViableSource marks a catalog that cannot satisfy the requested
	// stream kind at all (for example an audio request against a source with
	// no audio streams).
	ErrNoViableSource = errors.New("no viable source")

	// ErrPipelineFailure marks a delivery pipeline that started but did not
	// complete.
	ErrPipelineFailure = errors.New("pipeline failure")
)
