package media

import (
	"fmt"
	"strconv"
	"strings"
)

// QualityKind discriminates the quality selector variants.
type QualityKind string

// QualityKind constants.
const (
	QualityBest  QualityKind = "best"
	QualityItag  QualityKind = "itag"
	QualityScale QualityKind = "scale"
)

// Quality is a parsed quality selector. Exactly one of Itag or Height is
// meaningful, depending on Kind.
type Quality struct {
	Kind   QualityKind
	Itag   string
	Height int
}

// String renders the selector back into the token form ParseQuality accepts.
func (q Quality) String() string {
	switch q.Kind {
	case QualityItag:
		return "itag_" + q.Itag
	case QualityScale:
		return fmt.Sprintf("scale_%d", q.Height)
	default:
		return "best"
	}
}

// ParseQuality parses a quality token.
//
//	"best"        -> highest-ranked source
//	"itag_<id>"   -> the source with that exact format ID
//	"scale_<h>"   -> ladder rung at height h (synthetic rungs downscale)
//	"<id>"        -> bare format ID shorthand, same as itag_<id>
//
// An empty token and unparsable scale heights are rejected with
// ErrInvalidInput.
func ParseQuality(token string) (Quality, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Quality{}, fmt.Errorf("%w: empty quality token", ErrInvalidInput)
	}
	if token == "best" {
		return Quality{Kind: QualityBest}, nil
	}
	if id, ok := strings.CutPrefix(token, "itag_"); ok {
		if id == "" {
			return Quality{}, fmt.Errorf("%w: empty itag in quality token %q", ErrInvalidInput, token)
		}
		return Quality{Kind: QualityItag, Itag: id}, nil
	}
	if raw, ok := strings.CutPrefix(token, "scale_"); ok {
		h, err := strconv.Atoi(raw)
		if err != nil || h <= 0 {
			return Quality{}, fmt.Errorf("%w: bad scale height in quality token %q", ErrInvalidInput, token)
		}
		return Quality{Kind: QualityScale, Height: h}, nil
	}
	// Bare format ID shorthand.
	return Quality{Kind: QualityItag, Itag: token}, nil
}
