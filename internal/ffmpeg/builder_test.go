package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderStreamCopy(t *testing.T) {
	cmd := NewCommandBuilder("/usr/bin/ffmpeg").
		AddInput("https://cdn.example/source", ReconnectArgs...).
		VideoCodec("copy").
		AudioCodec("copy").
		FragmentedMP4().
		Build()

	line := cmd.String()
	assert.True(t, strings.HasPrefix(line, "/usr/bin/ffmpeg -hide_banner -loglevel error"))
	assert.Contains(t, line, "-reconnect 1")
	assert.Contains(t, line, "-i https://cdn.example/source")
	assert.Contains(t, line, "-c:v copy")
	assert.Contains(t, line, "-c:a copy")
	assert.Contains(t, line, "-movflags frag_keyframe+empty_moov+default_base_moof")
	assert.True(t, strings.HasSuffix(line, "pipe:1"))
}

func TestBuilderMergeMapsInputsInOrder(t *testing.T) {
	cmd := NewCommandBuilder("ffmpeg").
		AddInput("https://cdn.example/video").
		AddInput("https://cdn.example/audio").
		Map("0:v:0").
		Map("1:a:0").
		VideoCodec("copy").
		AudioCodec("aac").
		AudioBitrate("128k").
		Shortest().
		FragmentedMP4().
		Build()

	line := cmd.String()
	videoIdx := strings.Index(line, "-i https://cdn.example/video")
	audioIdx := strings.Index(line, "-i https://cdn.example/audio")
	assert.Greater(t, audioIdx, videoIdx)
	assert.Contains(t, line, "-map 0:v:0 -map 1:a:0")
	assert.Contains(t, line, "-b:a 128k")
	assert.Contains(t, line, "-shortest")
}

func TestBuilderDownscaleFilter(t *testing.T) {
	cmd := NewCommandBuilder("ffmpeg").
		AddInput("https://cdn.example/1080p").
		Scale(854, 480).
		VideoCodec("libx264").
		Preset("veryfast").
		AudioCodec("aac").
		FragmentedMP4().
		Build()

	line := cmd.String()
	assert.Contains(t, line, "-vf scale=854:480")
	assert.Contains(t, line, "-c:v libx264")
	assert.Contains(t, line, "-preset veryfast")
}

func TestBuilderAudioOnly(t *testing.T) {
	cmd := NewCommandBuilder("ffmpeg").
		AddInput("https://cdn.example/audio").
		NoVideo().
		AudioCodec("aac").
		AudioBitrate("128k").
		Format("mp4").
		OutputArgs("-movflags", "frag_keyframe+empty_moov").
		Build()

	line := cmd.String()
	assert.Contains(t, line, "-vn")
	assert.Contains(t, line, "-f mp4")
}

func TestParseVersion(t *testing.T) {
	out := "ffmpeg version 6.1.1-3ubuntu5 Copyright (c) 2000-2023 the FFmpeg developers\nbuilt with gcc\n"
	assert.Equal(t, "6.1.1-3ubuntu5", parseVersion(out))
	assert.Empty(t, parseVersion("garbage"))
}

func TestCountingWriter(t *testing.T) {
	var sink strings.Builder
	pm := NewProcessMonitor(0)
	cw := NewCountingWriter(&sink, pm)

	n, err := cw.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, uint64(5), pm.BytesWritten())
}
