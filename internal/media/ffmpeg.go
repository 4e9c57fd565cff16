package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// FFmpegExtractor slices a video into frames at 1 fps using the ffmpeg binary.
type FFmpegExtractor struct {
	binary string
}

// NewFFmpegExtractor returns an extractor driving the given ffmpeg binary.
func NewFFmpegExtractor(binary string) *FFmpegExtractor {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegExtractor{binary: binary}
}

// Extract writes one PNG per second of video into a fresh temp directory and
// returns the sorted frame paths. The caller removes the directory.
func (e *FFmpegExtractor) Extract(ctx context.Context, videoPath string) ([]string, error) {
	outDir, err := os.MkdirTemp("", "frames-")
	if err != nil {
		return nil, fmt.Errorf("create frame directory: %w", err)
	}

	pattern := filepath.Join(outDir, "frame_%04d.png")
	cmd := exec.CommandContext(ctx, e.binary,
		"-i", videoPath,
		"-vf", "fps=1",
		"-f", "image2",
		"-vcodec", "png",
		"-y",
		pattern,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(outDir)
		return nil, fmt.Errorf("ffmpeg extract: %w: %s", err, truncate(string(out), 512))
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		os.RemoveAll(outDir)
		return nil, fmt.Errorf("list frame directory: %w", err)
	}

	frames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".png") {
			frames = append(frames, filepath.Join(outDir, entry.Name()))
		}
	}
	sort.Strings(frames)
	return frames, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
