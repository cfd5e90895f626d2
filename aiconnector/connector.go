// Package aiconnector is the engine's capability interface over external AI
// services (transcription, captioning, moderation, generation), named but
// out of the core engine's scope (spec §9: "model as a capability interface
// with named operations; the engine owns an erased handle supplied at
// construction"). Grounded on ai-connectors/src/traits.rs and
// ai-connectors/src/manager.rs.
package aiconnector

import "context"

// TranscriptionSegment is one timed span of a Transcription.
type TranscriptionSegment struct {
	Start float64
	End   float64
	Text  string
}

// Transcription is the result of converting audio to text.
type Transcription struct {
	Text       string
	Language   string
	Segments   []TranscriptionSegment
	Confidence float64
}

// Caption is one timed subtitle line.
type Caption struct {
	Start float64
	End   float64
	Text  string
}

// Captions groups a set of Caption entries under one language.
type Captions struct {
	Entries  []Caption
	Language string
}

// Moderation is the result of a content-moderation check.
type Moderation struct {
	Flagged    bool
	Categories []string
	Severity   float64
}

// TokenUsage reports how many tokens a text-generation call consumed.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}

// Generation is the result of a text-generation call.
type Generation struct {
	Text  string
	Model string
	Usage TokenUsage
}

// Connector is one AI service backend. Implementations wrap a specific
// provider; the engine never depends on a concrete implementation.
type Connector interface {
	// Name identifies the connector for routing and logging.
	Name() string

	// Available reports whether the connector is configured and usable.
	Available() bool

	Transcribe(ctx context.Context, audio []byte, language string) (Transcription, error)
	GenerateCaptions(ctx context.Context, t Transcription, language string) (Captions, error)
	Moderate(ctx context.Context, content, contentType string) (Moderation, error)
	GenerateText(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (Generation, error)
	Summarize(ctx context.Context, text string, maxLength int) (string, error)
	Translate(ctx context.Context, text, fromLanguage, toLanguage string) (string, error)
}
