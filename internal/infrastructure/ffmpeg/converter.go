package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Anzel0/New-Bot/internal/domain"
)

const (
	defaultBinary = "ffmpeg"
	defaultPreset = "veryfast"
	defaultCRF    = 28
)

// Named quality levels mapped to x264 CRF values.
var namedQuality = map[string]int{
	"auto":      23,
	"auto:best": 18,
	"auto:good": 23,
	"auto:eco":  26,
	"auto:low":  28,
}

// Converter compresses videos locally using FFmpeg
type Converter struct {
	binary string
	preset string
}

// NewConverter creates a new FFmpeg converter
func NewConverter(binary, preset string) *Converter {
	if binary == "" {
		binary = defaultBinary
	}
	if preset == "" {
		preset = defaultPreset
	}
	return &Converter{binary: binary, preset: preset}
}

// Transform encodes videoPath according to spec and returns the local output.
func (c *Converter) Transform(ctx context.Context, videoPath string, spec domain.TransformSpec) (domain.Artifact, error) {
	outputPath := OutputPath(videoPath)
	cmd := exec.CommandContext(ctx, c.binary, c.Args(videoPath, outputPath, spec)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(outputPath)
		return domain.Artifact{}, fmt.Errorf("failed to compress video: %w: %s", err, lastLine(stderr.String()))
	}
	if _, err := os.Stat(outputPath); err != nil {
		return domain.Artifact{}, fmt.Errorf("compressed file missing: %w", err)
	}
	return domain.Artifact{Path: outputPath}, nil
}

// Args builds the ffmpeg argument list for a spec.
func (c *Converter) Args(videoPath, outputPath string, spec domain.TransformSpec) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y", "-i", videoPath}
	if h, ok := spec.Lookup(domain.DirectiveHeight); ok {
		if height, err := strconv.Atoi(h); err == nil && height > 0 {
			// -2 keeps the width even, which libx264 requires.
			args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", height))
		}
	}
	q, _ := spec.Lookup(domain.DirectiveQuality)
	args = append(args,
		"-c:v", "libx264",
		"-preset", c.preset,
		"-crf", strconv.Itoa(CRF(q)),
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		outputPath,
	)
	return args
}

// CRF maps a quality directive to an x264 CRF value. "auto:N" selects N.
func CRF(quality string) int {
	if crf, ok := namedQuality[quality]; ok {
		return crf
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(quality, "auto:")); err == nil && n >= 0 && n <= 51 {
		return n
	}
	return defaultCRF
}

// OutputPath derives the compressed file path from the input path.
func OutputPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + "_compressed.mp4"
}

// CheckFFmpeg checks if FFmpeg is available
func CheckFFmpeg(ctx context.Context, binary string) error {
	if binary == "" {
		binary = defaultBinary
	}
	cmd := exec.CommandContext(ctx, binary, "-version")
	return cmd.Run()
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
