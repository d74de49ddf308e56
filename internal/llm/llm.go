package llm

import (
	"context"
	"errors"
)

// Turn is one prior exchange in a follow-up question conversation.
// The caller owns the history and replays it on every request.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SpeechResult is the synthesized audio payload from the provider.
type SpeechResult struct {
	AudioBase64 string
	MimeType    string
}

// Client abstracts the model provider for analysis, question answering,
// and speech synthesis.
type Client interface {
	// Generate runs a single-shot completion and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateStream runs an incremental completion, invoking emit for each
	// text fragment as soon as the provider produces it. A non-nil error from
	// emit stops consumption of further fragments.
	GenerateStream(ctx context.Context, prompt string, emit func(chunk string) error) error
	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, text, voiceName, stylePrompt string) (SpeechResult, error)
}

// ErrNotConfigured is returned by the placeholder client when no provider
// credentials are present.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is a stub implementation used when no API key is set.
type PlaceholderClient struct{}

func (PlaceholderClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}

func (PlaceholderClient) GenerateStream(ctx context.Context, prompt string, emit func(string) error) error {
	_ = ctx
	_ = prompt
	_ = emit
	return ErrNotConfigured
}

func (PlaceholderClient) Synthesize(ctx context.Context, text, voiceName, stylePrompt string) (SpeechResult, error) {
	_ = ctx
	_ = text
	_ = voiceName
	_ = stylePrompt
	return SpeechResult{}, ErrNotConfigured
}

var _ Client = PlaceholderClient{}
