package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/internal/observability"
	"github.com/TEGAR-SRC/yt-dw/internal/resolver"
)

// DownloadHandler streams delivery pipelines to clients. It is registered as
// a raw chi route: the response is a live byte stream, not a serialized
// body, so it bypasses the huma layer.
type DownloadHandler struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewDownloadHandler creates a download handler.
func NewDownloadHandler(r *resolver.Resolver, logger *slog.Logger) *DownloadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DownloadHandler{
		resolver: r,
		logger:   observability.WithComponent(logger, "http.download"),
	}
}

// Register registers the download route.
func (h *DownloadHandler) Register(router *chi.Mux) {
	router.Get("/download", h.Download)
}

// Download resolves, plans, and streams one delivery.
//
// Query parameters: url (required), type (video|audio, default video),
// quality (default best). Errors before the first byte map onto status
// codes; once streaming has begun a failure simply truncates the download.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	kind := media.StreamVideo
	switch query.Get("type") {
	case "", "video":
	case "audio":
		kind = media.StreamAudio
	default:
		http.Error(w, "type must be video or audio", http.StatusBadRequest)
		return
	}

	quality := query.Get("quality")
	if quality == "" {
		quality = "best"
	}

	ctx := r.Context()
	delivery, err := h.resolver.Deliver(ctx, query.Get("url"), kind, quality)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", delivery.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", delivery.Filename))
	w.WriteHeader(http.StatusOK)

	fw := newFlushWriter(w)
	if err := delivery.Job.Stream(ctx, fw); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Headers are gone; the client sees a truncated body.
		observability.LoggerFromContext(ctx).Error("delivery stream aborted",
			slog.String("job_id", delivery.Job.ID),
			slog.Uint64("bytes_written", delivery.Job.BytesWritten()),
			slog.String("error", err.Error()),
		)
	}
}

func (h *DownloadHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, media.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, media.ErrFormatNotFound), errors.Is(err, media.ErrNoViableSource):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, media.ErrSourceUnavailable):
		status, message = http.StatusBadGateway, err.Error()
	default:
		h.logger.ErrorContext(ctx, "delivery setup failed", slog.String("error", err.Error()))
	}
	http.Error(w, message, status)
}

// flushWriter flushes after every write so fragments reach the client as
// soon as ffmpeg emits them.
type flushWriter struct {
	w     io.Writer
	flush func()
}

func newFlushWriter(w http.ResponseWriter) *flushWriter {
	fw := &flushWriter{w: w, flush: func() {}}
	if f, ok := w.(http.Flusher); ok {
		fw.flush = f.Flush
	}
	return fw
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if n > 0 {
		fw.flush()
	}
	return n, err
}
