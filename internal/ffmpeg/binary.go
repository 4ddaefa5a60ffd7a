package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/TEGAR-SRC/yt-dw/internal/util"
)

// EnvBinaryPath overrides ffmpeg discovery when set.
const EnvBinaryPath = "YTDW_FFMPEG_BINARY"

// BinaryInfo describes the detected ffmpeg binary.
type BinaryInfo struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

var versionRe = regexp.MustCompile(`ffmpeg version (\S+)`)

// Detect locates the ffmpeg binary and reads its version. configuredPath, if
// non-empty, short-circuits discovery.
func Detect(ctx context.Context, configuredPath string) (*BinaryInfo, error) {
	path := configuredPath
	if path == "" {
		found, err := util.FindBinary("ffmpeg", EnvBinaryPath)
		if err != nil {
			return nil, fmt.Errorf("locating ffmpeg: %w", err)
		}
		path = found
	}

	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}

	info := &BinaryInfo{Path: path, Version: parseVersion(string(out))}
	if info.Version == "" {
		return nil, fmt.Errorf("unrecognized version output from %s", path)
	}
	return info, nil
}

func parseVersion(out string) string {
	firstLine, _, _ := strings.Cut(out, "\n")
	m := versionRe.FindStringSubmatch(firstLine)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
