// Package speechtotext defines the recognizer contract consumed by the
// orchestration core. Implementations expose recognition results as a
// pull-based event stream rather than registered callbacks, so the
// utterance aggregation above it stays a pure state machine over an input
// sequence.
package speechtotext

import "time"

// RecognitionEvent is a single result emitted by a recognizer.
type RecognitionEvent struct {
	// Transcript is the recognized text fragment. May be empty on pure
	// lifecycle events such as end-of-utterance markers.
	Transcript string
	// IsFinal reports whether the fragment is stable and will not be
	// revised by later events.
	IsFinal bool
	// IsEndOfUtterance marks the recognizer's own end-of-speech decision.
	IsEndOfUtterance bool
	// Timestamp records when the event was received.
	Timestamp time.Time
}

type TranscriptionOptions struct {
	// Model selects the recognition model.
	Model string
	// Language selects the recognition language.
	Language string
	// SampleRate and Encoding describe the submitted audio.
	SampleRate int
	Encoding   string
	// EventBuffer sizes the event channel. Zero means the implementation
	// default.
	EventBuffer int
}

type TranscriptionOption func(*TranscriptionOptions)

func WithModel(model string) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.Model = model }
}

func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.Language = language }
}

func WithSampleRate(sampleRate int) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.SampleRate = sampleRate }
}

func WithEncoding(encoding string) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.Encoding = encoding }
}

func WithEventBuffer(size int) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.EventBuffer = size }
}
