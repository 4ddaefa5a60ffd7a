// Package handlers provides the HTTP API handlers for yt-dw.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/internal/resolver"
)

// InfoHandler serves the resolved format catalog for a content URL.
type InfoHandler struct {
	resolver *resolver.Resolver
}

// NewInfoHandler creates an info handler.
func NewInfoHandler(r *resolver.Resolver) *InfoHandler {
	return &InfoHandler{resolver: r}
}

// InfoInput is the query input for the info endpoint.
type InfoInput struct {
	URL string `query:"url" required:"true" doc:"Content URL or ID to resolve"`
}

// InfoResponse is the resolved catalog for one content item.
type InfoResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Author          string               `json:"author"`
	DurationSeconds int                  `json:"duration_seconds"`
	Views           int                  `json:"views"`
	VideoFormats    []media.LadderEntry  `json:"video_formats"`
	AudioFormats    []media.RankedFormat `json:"audio_formats"`
}

// InfoOutput wraps the response body.
type InfoOutput struct {
	Body InfoResponse
}

// Register registers the info route.
func (h *InfoHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getInfo",
		Method:      http.MethodGet,
		Path:        "/api/v1/info",
		Summary:     "Resolve format catalog",
		Description: "Resolves a content URL into its standardized video quality ladder and ranked audio formats",
		Tags:        []string{"Catalog"},
	}, h.GetInfo)
}

// GetInfo resolves the catalog for one content URL.
func (h *InfoHandler) GetInfo(ctx context.Context, input *InfoInput) (*InfoOutput, error) {
	result, err := h.resolver.Resolve(ctx, input.URL)
	if err != nil {
		return nil, mapResolveError(err)
	}

	return &InfoOutput{Body: InfoResponse{
		ID:              result.ID,
		Title:           result.Title,
		Author:          result.Author,
		DurationSeconds: int(result.Duration.Seconds()),
		Views:           result.Views,
		VideoFormats:    result.VideoFormats,
		AudioFormats:    result.AudioFormats,
	}}, nil
}

// mapResolveError converts domain sentinels into huma status errors.
func mapResolveError(err error) error {
	switch {
	case errors.Is(err, media.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, media.ErrFormatNotFound), errors.Is(err, media.ErrNoViableSource):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, media.ErrSourceUnavailable):
		return huma.Error502BadGateway(err.Error())
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
