// Package media provides the local multimedia toolchain used by the
// processing pipeline: duration probing, thumbnail extraction, and muxing a
// narration track onto a video.
package media

import "context"

// Thumbnail dimensions for published videos.
const (
	ThumbnailWidth  = 1280
	ThumbnailHeight = 720
)

// Toolchain defines the interface for local media operations.
// Implementations should use ffmpeg or similar tools. All operations return
// an error on non-zero process exit; translating that into record-level
// failure is the pipeline's job.
type Toolchain interface {
	// ProbeDuration returns the duration in seconds of a media file.
	// A missing or unparseable duration field yields 0 rather than an error;
	// only a failed probe invocation is reported as an error.
	ProbeDuration(ctx context.Context, path string) (float64, error)

	// ExtractThumbnail captures a single 1280x720 frame at the given
	// timestamp and writes it to outputPath. The toolchain clamps the
	// timestamp if the video is shorter.
	ExtractThumbnail(ctx context.Context, videoPath, outputPath string, atSeconds float64) error

	// MuxAudio lays the audio track over the video, copying the video
	// stream unmodified and re-encoding the audio to AAC. The output is
	// truncated to the shorter of the two input streams.
	MuxAudio(ctx context.Context, videoPath, audioPath, outputPath string) error

	// CopyFile copies a file byte-for-byte. Used to publish the original
	// video untouched when no narration track was produced.
	CopyFile(src, dst string) error
}
