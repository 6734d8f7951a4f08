package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Compile-time check that FFmpegToolchain implements Toolchain.
var _ Toolchain = (*FFmpegToolchain)(nil)

// FFmpegToolchain implements Toolchain using the ffmpeg and ffprobe CLIs.
type FFmpegToolchain struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	// ffprobePath is the path to the ffprobe binary. Defaults to "ffprobe".
	ffprobePath string
}

// NewFFmpegToolchain creates a new FFmpegToolchain.
// Empty paths default to "ffmpeg" and "ffprobe" (found via PATH).
func NewFFmpegToolchain(ffmpegPath, ffprobePath string) *FFmpegToolchain {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegToolchain{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// ProbeDuration returns the duration in seconds of a media file.
// It uses ffprobe to extract the duration metadata. An absent or
// unparseable duration field yields 0 without an error.
func (t *FFmpegToolchain) ProbeDuration(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, t.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("ffprobe %s: %w, stderr: %s", path, err, stderr.String())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" || out == "N/A" {
		return 0, nil
	}
	duration, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, nil
	}
	return duration, nil
}

// ExtractThumbnail captures a single frame at the given timestamp, scaled to
// 1280x720, and writes it to outputPath.
func (t *FFmpegToolchain) ExtractThumbnail(ctx context.Context, videoPath, outputPath string, atSeconds float64) error {
	filter := fmt.Sprintf("scale=%d:%d", ThumbnailWidth, ThumbnailHeight)

	args := []string{
		"-y", // Overwrite output file without asking
		"-ss", fmt.Sprintf("%.3f", atSeconds), // Seek before the input for a fast single-frame capture
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", filter,
		outputPath,
	}

	return t.runFFmpeg(ctx, args)
}

// MuxAudio lays the audio track over the video. The video stream is copied
// without re-encoding, audio is re-encoded to AAC, and -shortest truncates
// the output to the shorter input (the narration rarely matches the video
// length exactly).
func (t *FFmpegToolchain) MuxAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy", // Copy video stream (no re-encoding)
		"-c:a", "aac", // Encode audio as AAC
		"-map", "0:v:0", // Video from first input
		"-map", "1:a:0", // Audio from second input
		"-shortest", // End output when the shortest input ends
		outputPath,
	}

	return t.runFFmpeg(ctx, args)
}

// CopyFile copies a file from src to dst via a streaming copy.
func (t *FFmpegToolchain) CopyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - src is provided by trusted internal code
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination file: %w", err)
	}
	return nil
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (t *FFmpegToolchain) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
