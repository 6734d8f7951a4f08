// Package speech converts generated scripts into narration audio via a
// remote voice-synthesis service. The whole package is optional: without a
// configured backend, or when the backend misbehaves, synthesis reports
// "absent" and the pipeline publishes the video without a narration track.
package speech

import "context"

// Synthesizer defines the interface for text-to-speech conversion.
type Synthesizer interface {
	// Synthesize converts text into an audio file at outputPath and returns
	// that path. An empty path with a nil error means no audio was produced;
	// synthesis failures degrade to absent audio rather than erroring.
	Synthesize(ctx context.Context, text, outputPath string) (string, error)
}

// Compile-time check that Noop implements Synthesizer.
var _ Synthesizer = (*Noop)(nil)

// Noop is the Synthesizer used when no backend is configured.
// It always reports absent audio.
type Noop struct{}

// NewNoop creates a no-op synthesizer.
func NewNoop() *Noop {
	return &Noop{}
}

// Synthesize reports absent audio without touching the filesystem.
func (n *Noop) Synthesize(_ context.Context, _, _ string) (string, error) {
	return "", nil
}
