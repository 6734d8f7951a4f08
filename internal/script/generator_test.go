package script

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter returns a canned response or error.
type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestBrainRotGenerator_NilCompleterUsesTemplates(t *testing.T) {
	gen := NewBrainRotGenerator(nil, nil)

	got, err := gen.Generate(context.Background(), "Epic Baron Steal", StyleHype)
	require.NoError(t, err)
	assert.Equal(t, TemplateScript("Epic Baron Steal", StyleHype), got)
}

func TestBrainRotGenerator_RemoteSuccess(t *testing.T) {
	fake := &fakeCompleter{response: "No cap this baron steal is the greatest play in ranked history fr fr."}
	gen := NewBrainRotGenerator(fake, nil)

	got, err := gen.Generate(context.Background(), "Epic Baron Steal", StyleHype)
	require.NoError(t, err)
	assert.Equal(t, "No cap this baron steal is the greatest play in ranked history fr fr.", got)
	assert.Equal(t, 1, fake.calls)
}

func TestBrainRotGenerator_RemoteErrorFallsBack(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("connection refused")}
	gen := NewBrainRotGenerator(fake, nil)

	got, err := gen.Generate(context.Background(), "Epic Baron Steal", StyleRoast)
	require.NoError(t, err, "upstream failures must not surface to callers")
	assert.Equal(t, TemplateScript("Epic Baron Steal", StyleRoast), got)
}

func TestBrainRotGenerator_ShortResponseFallsBack(t *testing.T) {
	fake := &fakeCompleter{response: "lol nice"}
	gen := NewBrainRotGenerator(fake, nil)

	got, err := gen.Generate(context.Background(), "Epic Baron Steal", StyleShocked)
	require.NoError(t, err)
	assert.Equal(t, TemplateScript("Epic Baron Steal", StyleShocked), got)
}

func TestBrainRotGenerator_SanitizesRemoteOutput(t *testing.T) {
	fake := &fakeCompleter{response: "Commentary: \"No cap this baron steal broke the entire server fr fr.\""}
	gen := NewBrainRotGenerator(fake, nil)

	got, err := gen.Generate(context.Background(), "Epic Baron Steal", StyleHype)
	require.NoError(t, err)
	assert.Equal(t, "No cap this baron steal broke the entire server fr fr.", got)
}

func TestBrainRotGenerator_InvalidStylePicksOne(t *testing.T) {
	gen := NewBrainRotGenerator(nil, nil)

	got, err := gen.Generate(context.Background(), "Epic Baron Steal", Style("nonsense"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(got), 20)
	assert.Contains(t, got, "Epic Baron Steal")
}
