// Package script generates short "brain rot" commentary scripts for uploaded
// videos. The primary path calls a remote text-generation service; a static
// per-style template bank is the mandatory fallback, so generation never
// fails outright.
package script

import (
	"context"
	"math/rand"
)

// Style selects the flavor of generated commentary.
type Style string

// The closed set of supported commentary styles.
const (
	StyleHype       Style = "hype"
	StyleRoast      Style = "roast"
	StyleWholesome  Style = "wholesome"
	StyleConspiracy Style = "conspiracy"
	StyleShocked    Style = "shocked"
)

// styles holds every supported style, in a fixed order for deterministic tests.
var styles = []Style{StyleHype, StyleRoast, StyleWholesome, StyleConspiracy, StyleShocked}

// Styles returns the closed set of supported styles.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// IsValid returns true if the style is one of the supported set.
func (s Style) IsValid() bool {
	for _, known := range styles {
		if s == known {
			return true
		}
	}
	return false
}

// RandomStyle picks a style uniformly at random.
func RandomStyle() Style {
	return styles[rand.Intn(len(styles))] // #nosec G404 - style choice needs no crypto randomness
}

// Generator defines the interface for producing commentary scripts.
type Generator interface {
	// Generate produces a commentary script for the given video title.
	// An empty style means "pick one at random". Implementations must fall
	// back to templates rather than fail; a returned error indicates a
	// programming error, not an upstream outage.
	Generate(ctx context.Context, videoTitle string, style Style) (string, error)
}
