// Package orchestration runs turn-based voice conversations: it
// aggregates recognized speech into utterances, answers each one with a
// streamed, sentence-by-sentence synthesized reply, and cuts the reply
// short when the user barges in.
package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rapidanswer/rapidanswer-core/core/events"
	"github.com/rapidanswer/rapidanswer-core/core/intent"
	"github.com/rapidanswer/rapidanswer-core/core/speechtotext"
)

const utteranceQueueCapacity = 10

// Orchestrator drives one conversation session. Utterances are answered
// strictly one at a time in arrival order; a new utterance that lands
// while the assistant is speaking interrupts the current turn first.
type Orchestrator struct {
	recognizer        Recognizer
	replyEngine       ReplyEngine
	synthesizer       Synthesizer
	classifier        intent.Classifier
	searchClient      SearchClient
	emit              eventEmitter
	transcriptionOpts []speechtotext.TranscriptionOption
	historyWindow     int

	history    *ChatHistory
	aggregator *utteranceAggregator
	monitor    *bargeInMonitor

	utterances chan string

	turnMu     sync.Mutex
	activeTurn *activeTurn

	closeOnce sync.Once
	closing   chan struct{}
	done      chan struct{}
}

func NewOrchestrator(
	recognizer Recognizer,
	replyEngine ReplyEngine,
	synthesizer Synthesizer,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		recognizer:  recognizer,
		replyEngine: replyEngine,
		synthesizer: synthesizer,
		emit:        noopEventEmitter,

		monitor:    &bargeInMonitor{},
		utterances: make(chan string, utteranceQueueCapacity),
		closing:    make(chan struct{}),
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(o)
	}

	o.history = newChatHistory(o.historyWindow)
	o.aggregator = newUtteranceAggregator(
		o.monitor.NewUtterance,
		func(transcript string) { o.emit(events.NewUserTranscriptInterim(transcript)) },
		o.enqueueUtterance,
	)

	return o
}

// Run opens the transcription stream and processes the session until the
// recognizer stream ends, Close is called, or ctx is cancelled. It
// returns the recognizer's error if the stream ended abnormally.
func (o *Orchestrator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer close(o.done)

	if err := o.recognizer.Transcribe(ctx, o.transcriptionOpts...); err != nil {
		return fmt.Errorf("failed to open transcription stream: %w", err)
	}

	go o.aggregator.Watch(ctx)

	turnsDone := make(chan struct{})
	go func() {
		defer close(turnsDone)
		o.processUtterances(ctx)
	}()

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-o.closing:
			break loop
		case event, ok := <-o.recognizer.Events():
			if !ok {
				runErr = o.recognizer.Err()
				break loop
			}
			o.handleRecognition(event)
		}
	}

	cancel()
	<-turnsDone
	if err := o.recognizer.Close(context.Background()); err != nil {
		logger.WarnContext(ctx, "Failed to close recognizer", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("transcription stream ended: %w", runErr)
	}
	return nil
}

// SendAudio forwards raw user audio to the recognizer.
func (o *Orchestrator) SendAudio(audio []byte) error {
	return o.recognizer.SendAudio(audio)
}

// StopUtterance finalizes the in-progress utterance immediately instead
// of waiting for the recognizer or the silence timeout.
func (o *Orchestrator) StopUtterance() {
	o.aggregator.StopUtterance()
}

// NotifyPlaybackEnded records that the client has drained its audio
// buffer, so new speech no longer counts as an interruption.
func (o *Orchestrator) NotifyPlaybackEnded() {
	o.monitor.PlaybackEnded()
}

// CancelTurn aborts the turn currently being answered, if any. It
// reports whether a turn was cancelled.
func (o *Orchestrator) CancelTurn() bool {
	o.turnMu.Lock()
	turn := o.activeTurn
	o.turnMu.Unlock()

	if turn == nil || !turn.Cancel() {
		return false
	}

	o.emit(events.NewPlaybackStopRequested())
	o.monitor.PlaybackEnded()
	return true
}

// History exposes the session's completed exchanges.
func (o *Orchestrator) History() *ChatHistory {
	return o.history
}

// Close winds the session down gracefully: the recognizer stream is
// flushed and Run returns once in-flight events are handled.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		if err := o.recognizer.CloseStream(); err != nil {
			logger.Warn("Failed to close transcription stream", "error", err)
		}
		close(o.closing)
	})
}

func (o *Orchestrator) handleRecognition(event speechtotext.RecognitionEvent) {
	if !event.IsFinal && strings.TrimSpace(event.Transcript) != "" {
		o.maybeInterrupt()
	}

	o.aggregator.Submit(event)
}

// maybeInterrupt cancels the assistant's turn when the user talks over
// it. At most one interruption fires per utterance.
func (o *Orchestrator) maybeInterrupt() {
	o.turnMu.Lock()
	turn := o.activeTurn
	o.turnMu.Unlock()

	if turn == nil || !o.monitor.ShouldInterrupt() {
		return
	}

	o.emit(events.NewPlaybackStopRequested())
	o.monitor.PlaybackEnded()
	turn.Cancel()
}

func (o *Orchestrator) enqueueUtterance(utterance string) {
	o.emit(events.NewUserUtteranceFinal(utterance))

	select {
	case o.utterances <- utterance:
	case <-o.done:
	}
}

func (o *Orchestrator) processUtterances(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case utterance := <-o.utterances:
			o.processTurn(ctx, utterance)
		}
	}
}

func (o *Orchestrator) processTurn(ctx context.Context, utterance string) {
	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	turn := newActiveTurn(utterance, cancel)

	o.turnMu.Lock()
	o.activeTurn = turn
	o.turnMu.Unlock()
	defer func() {
		o.turnMu.Lock()
		o.activeTurn = nil
		o.turnMu.Unlock()
	}()

	o.monitor.TurnStarted()

	pipeline := newResponsePipeline(o.replyEngine, o.synthesizer, o.classifier, o.searchClient, o.history, o.emit)
	if err := pipeline.Run(turnCtx, turn); err != nil {
		logger.ErrorContext(ctx, "Turn processing failed", "error", err)
	}

	// Completed turns keep the playback belief until the client reports
	// its buffer drained; anything else stops playback now.
	if turn.Status() != turnStatusCompleted {
		o.monitor.PlaybackEnded()
	}
}
