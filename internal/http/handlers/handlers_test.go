package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEGAR-SRC/yt-dw/internal/cache"
	"github.com/TEGAR-SRC/yt-dw/internal/extractor"
	"github.com/TEGAR-SRC/yt-dw/internal/media"
	"github.com/TEGAR-SRC/yt-dw/internal/pipeline"
	"github.com/TEGAR-SRC/yt-dw/internal/planner"
	"github.com/TEGAR-SRC/yt-dw/internal/resolver"
)

type stubPrimary struct {
	info *extractor.MediaInfo
	err  error
}

func (s *stubPrimary) GetInfo(ctx context.Context, url string) (*extractor.MediaInfo, error) {
	return s.info, s.err
}

func (s *stubPrimary) StreamURL(ctx context.Context, url string, itag int) (string, error) {
	return "https://cdn.example/stream", nil
}

type stubSecondary struct{}

func (stubSecondary) Formats(ctx context.Context, url string) ([]extractor.SecondaryFormat, error) {
	return nil, media.ErrSourceUnavailable
}

func testResolver(p extractor.Primary) *resolver.Resolver {
	rc := cache.New(time.Minute, nil)
	return resolver.New(p, stubSecondary{}, rc, planner.New(rc, nil, nil), pipeline.New("ffmpeg", "veryfast", "128k", nil), nil)
}

func testInfo() *extractor.MediaInfo {
	return &extractor.MediaInfo{
		ID:    "vid1",
		Title: "Clip",
		Formats: []extractor.PrimaryFormat{
			{ItagNo: 22, MimeType: `video/mp4; codecs="avc1"`, Width: 1280, Height: 720, FPS: 30, Bitrate: 1500000, AudioChannels: 2, URL: "https://cdn.example/22"},
		},
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("1.2.3", "6.1")

	out, err := h.GetHealth(context.Background(), &HealthInput{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Body.Status)
	assert.Equal(t, "1.2.3", out.Body.Version)
	assert.Equal(t, "6.1", out.Body.FFmpegVersion)
	assert.Positive(t, out.Body.Goroutines)
}

func TestInfoHandler(t *testing.T) {
	h := NewInfoHandler(testResolver(&stubPrimary{info: testInfo()}))

	out, err := h.GetInfo(context.Background(), &InfoInput{URL: "https://example/watch?v=vid1"})
	require.NoError(t, err)
	assert.Equal(t, "vid1", out.Body.ID)
	assert.NotEmpty(t, out.Body.VideoFormats)
}

func TestInfoHandlerSourceUnavailable(t *testing.T) {
	h := NewInfoHandler(testResolver(&stubPrimary{err: media.ErrSourceUnavailable}))

	_, err := h.GetInfo(context.Background(), &InfoInput{URL: "https://example/watch?v=bad"})
	require.Error(t, err)
	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.GetStatus())
}

func TestDownloadBadType(t *testing.T) {
	h := NewDownloadHandler(testResolver(&stubPrimary{info: testInfo()}), nil)

	rec := httptest.NewRecorder()
	h.Download(rec, httptest.NewRequest(http.MethodGet, "/download?url=x&type=subtitles", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadMissingURL(t *testing.T) {
	h := NewDownloadHandler(testResolver(&stubPrimary{info: testInfo()}), nil)

	rec := httptest.NewRecorder()
	h.Download(rec, httptest.NewRequest(http.MethodGet, "/download", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadBadQuality(t *testing.T) {
	h := NewDownloadHandler(testResolver(&stubPrimary{info: testInfo()}), nil)

	rec := httptest.NewRecorder()
	h.Download(rec, httptest.NewRequest(http.MethodGet, "/download?url=x&quality=scale_abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadUnknownFormat(t *testing.T) {
	h := NewDownloadHandler(testResolver(&stubPrimary{info: testInfo()}), nil)

	rec := httptest.NewRecorder()
	h.Download(rec, httptest.NewRequest(http.MethodGet, "/download?url=x&quality=itag_999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadSourceUnavailable(t *testing.T) {
	h := NewDownloadHandler(testResolver(&stubPrimary{err: media.ErrSourceUnavailable}), nil)

	rec := httptest.NewRecorder()
	h.Download(rec, httptest.NewRequest(http.MethodGet, "/download?url=x", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
