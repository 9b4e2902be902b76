// Package media wraps the ffmpeg operations the pipeline needs around its
// core: merging generated subtitles into a container and extracting audio.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"subtitle/internal/fileutil"
	"subtitle/internal/services"
)

// DefaultFFmpegBinary is used when no binary path is configured.
const DefaultFFmpegBinary = "ffmpeg"

// Processor invokes ffmpeg for container-level operations.
type Processor struct {
	ffmpegBinary string
	overwrite    bool
}

// NewProcessor creates a media processor. An empty binary falls back to
// the ffmpeg on PATH.
func NewProcessor(ffmpegBinary string, overwrite bool) *Processor {
	if ffmpegBinary == "" {
		ffmpegBinary = DefaultFFmpegBinary
	}
	return &Processor{ffmpegBinary: ffmpegBinary, overwrite: overwrite}
}

// MergeSubtitles muxes a subtitle file into a video container as a soft
// subtitle track, copying the audio and video streams. The subtitle codec
// follows the output container: mov_text for mp4/m4v/mov, srt otherwise.
func (p *Processor) MergeSubtitles(ctx context.Context, videoPath, subtitlePath, outputPath string) error {
	if !fileutil.FileExists(videoPath) {
		return services.Wrap(services.ErrNotFound, "media", "merge",
			fmt.Sprintf("video file not found: %s", videoPath), nil)
	}
	if !fileutil.FileExists(subtitlePath) {
		return services.Wrap(services.ErrNotFound, "media", "merge",
			fmt.Sprintf("subtitle file not found: %s", subtitlePath), nil)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
	}
	if p.overwrite {
		args = append(args, "-y")
	}
	args = append(args,
		"-i", videoPath,
		"-i", subtitlePath,
		"-c:v", "copy",
		"-c:a", "copy",
		"-c:s", subtitleCodecFor(outputPath),
		outputPath,
	)

	cmd := exec.CommandContext(ctx, p.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return services.Wrap(services.ErrVideoProcessing, "media", "merge",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}

// ExtractAudio pulls the audio stream out of a video as a mono 16kHz WAV,
// the sample layout the recognition engine expects. It returns the output
// path, which defaults to the video path with a .wav extension.
func (p *Processor) ExtractAudio(ctx context.Context, videoPath, outputPath string) (string, error) {
	if !fileutil.FileExists(videoPath) {
		return "", services.Wrap(services.ErrNotFound, "media", "extract audio",
			fmt.Sprintf("video file not found: %s", videoPath), nil)
	}
	if outputPath == "" {
		outputPath = strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
	}
	if p.overwrite {
		args = append(args, "-y")
	}
	args = append(args,
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outputPath,
	)

	cmd := exec.CommandContext(ctx, p.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", services.Wrap(services.ErrVideoProcessing, "media", "extract audio",
			strings.TrimSpace(string(output)), err)
	}
	return outputPath, nil
}

func subtitleCodecFor(outputPath string) string {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mp4", ".m4v", ".mov":
		return "mov_text"
	default:
		return "srt"
	}
}
