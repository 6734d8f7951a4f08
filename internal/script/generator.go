package script

import (
	"context"
	"fmt"
	"log/slog"
)

// Compile-time check that BrainRotGenerator implements Generator.
var _ Generator = (*BrainRotGenerator)(nil)

// stylePrompts holds the system prompt for each commentary style.
var stylePrompts = map[Style]string{
	StyleHype:       "You are a brain rot content generator. Create short, chaotic, hyped-up commentary for videos that would appeal to Gen Z/Alpha humor. Everything is the best thing you have ever seen. Use memes and internet slang like \"no cap\", \"deadass\", \"fr fr\", \"bussin\". Keep it under 30 seconds of speech.",
	StyleRoast:      "You are a brain rot content generator. Create short, playfully mean roast commentary for videos. Dunk on the video while clearly loving it. Use internet slang like \"no cap\", \"deadass\", \"unserious\". Keep it under 30 seconds of speech.",
	StyleWholesome:  "You are a brain rot content generator. Create short, aggressively wholesome commentary for videos, still in chaotic Gen Z voice. Use internet slang like \"fr fr\", \"healed me\", \"protect at all costs\". Keep it under 30 seconds of speech.",
	StyleConspiracy: "You are a brain rot content generator. Create short, unhinged conspiracy-theory commentary for videos. Everything is connected and they do not want you to know. Use internet slang. Keep it under 30 seconds of speech.",
	StyleShocked:    "You are a brain rot content generator. Create short, utterly shocked commentary for videos. You cannot believe what you are watching. Use internet slang like \"deadass\", \"I am shook\". Keep it under 30 seconds of speech.",
}

// BrainRotGenerator produces commentary via a remote completion backend with
// a mandatory template fallback. A nil Completer means templates-only mode.
type BrainRotGenerator struct {
	completer Completer
	logger    *slog.Logger
}

// NewBrainRotGenerator creates a generator. Pass a nil completer to force
// deterministic template-only output (offline or testing deployments).
func NewBrainRotGenerator(completer Completer, logger *slog.Logger) *BrainRotGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrainRotGenerator{
		completer: completer,
		logger:    logger,
	}
}

// Generate produces a commentary script for the video title. The remote path
// is attempted when configured; any failure, timeout, malformed payload, or
// response under the minimum viable length falls through to the template
// bank, which never fails.
func (g *BrainRotGenerator) Generate(ctx context.Context, videoTitle string, style Style) (string, error) {
	if !style.IsValid() {
		style = RandomStyle()
	}

	if g.completer == nil {
		return TemplateScript(videoTitle, style), nil
	}

	userPrompt := fmt.Sprintf("Generate brain rot commentary for a video titled: %q", videoTitle)
	raw, err := g.completer.Complete(ctx, stylePrompts[style], userPrompt)
	if err != nil {
		g.logger.Warn("remote script generation failed, using template",
			slog.String("style", string(style)),
			slog.String("error", err.Error()),
		)
		return TemplateScript(videoTitle, style), nil
	}

	cleaned := sanitize(raw)
	if len(cleaned) < minViableLength {
		g.logger.Warn("remote script too short, using template",
			slog.String("style", string(style)),
			slog.Int("length", len(cleaned)),
		)
		return TemplateScript(videoTitle, style), nil
	}

	return cleaned, nil
}
