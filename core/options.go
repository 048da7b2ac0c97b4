package orchestration

import (
	"context"

	"github.com/rapidanswer/rapidanswer-core/core/audio"
	"github.com/rapidanswer/rapidanswer-core/core/events"
	"github.com/rapidanswer/rapidanswer-core/core/intent"
	"github.com/rapidanswer/rapidanswer-core/core/llms"
	"github.com/rapidanswer/rapidanswer-core/core/search"
	"github.com/rapidanswer/rapidanswer-core/core/speechtotext"
	"github.com/rapidanswer/rapidanswer-core/core/texttospeech"
)

// Recognizer streams user audio to a speech-to-text backend and exposes
// recognition events for the orchestrator to pull. The events channel
// closes when the stream ends; Err explains a non-graceful close.
type Recognizer interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	Events() <-chan speechtotext.RecognitionEvent
	SendAudio(audio []byte) error
	CloseStream() error
	Err() error
	Close(ctx context.Context) error
}

// ReplyEngine produces a streamed reply to a prompt.
type ReplyEngine interface {
	PromptWithStream(ctx context.Context, prompt string, opts ...llms.StreamingPromptOption) llms.Stream
}

// Synthesizer converts a sentence to speech, emitting audio chunks
// through the configured callback as they arrive.
type Synthesizer interface {
	EncodingInfo() audio.EncodingInfo
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) error
}

// SearchClient grounds factual utterances with web results.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

type OrchestratorOption func(*Orchestrator)

// WithClassifier routes each utterance through an intent classifier
// that decides on search grounding and speech speed. Without one every
// turn takes the plain conversational path.
func WithClassifier(classifier intent.Classifier) OrchestratorOption {
	return func(o *Orchestrator) { o.classifier = classifier }
}

// WithSearchClient enables search grounding for utterances the
// classifier marks as needing it.
func WithSearchClient(searchClient SearchClient) OrchestratorOption {
	return func(o *Orchestrator) { o.searchClient = searchClient }
}

// WithEventEmitter registers the callback that receives every session
// event. The callback runs on pipeline goroutines and must not block
// for long.
func WithEventEmitter(emit func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) {
		if emit != nil {
			o.emit = emit
		}
	}
}

// WithHistoryWindow caps how many completed exchanges the session keeps
// for prompting. Zero keeps everything.
func WithHistoryWindow(exchanges int) OrchestratorOption {
	return func(o *Orchestrator) {
		if exchanges >= 0 {
			o.historyWindow = exchanges
		}
	}
}

// WithTranscriptionOptions forwards options to the recognizer when the
// session's transcription stream is opened.
func WithTranscriptionOptions(opts ...speechtotext.TranscriptionOption) OrchestratorOption {
	return func(o *Orchestrator) {
		o.transcriptionOpts = append(o.transcriptionOpts, opts...)
	}
}
