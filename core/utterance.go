package orchestration

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rapidanswer/rapidanswer-core/core/speechtotext"
)

// UnclearUtterance replaces an utterance whose finalized transcript came
// out empty. Downstream the assistant answers it with a clarification
// request instead of a normal reply.
const UnclearUtterance = "[AUDIO_UNCLEAR]"

const (
	utteranceSilenceTimeout = 3 * time.Second
	silencePollInterval     = time.Second
)

// utteranceAggregator accumulates finalized transcript fragments into
// whole utterances. An utterance closes on an end-of-utterance signal
// from the recognizer, an explicit stop from the client, or a stretch of
// silence. Whichever arrives first wins; an open latch makes the other
// paths no-ops until new speech starts the next utterance.
type utteranceAggregator struct {
	mu         sync.Mutex
	fragments  []string
	open       bool
	lastUpdate time.Time

	silenceTimeout time.Duration
	pollInterval   time.Duration

	onStart   func()
	onInterim func(transcript string)
	onFinal   func(utterance string)
}

func newUtteranceAggregator(onStart func(), onInterim func(string), onFinal func(string)) *utteranceAggregator {
	return &utteranceAggregator{
		silenceTimeout: utteranceSilenceTimeout,
		pollInterval:   silencePollInterval,

		onStart:   onStart,
		onInterim: onInterim,
		onFinal:   onFinal,
	}
}

// Submit feeds a recognition event into the aggregator. Interim events
// only refresh the silence clock and surface a preview; final events
// append their fragment. End-of-utterance events close out the current
// utterance after absorbing any fragment they carry.
func (a *utteranceAggregator) Submit(event speechtotext.RecognitionEvent) {
	a.mu.Lock()

	started := false
	if transcript := strings.TrimSpace(event.Transcript); transcript != "" {
		if !a.open {
			a.open = true
			started = true
		}
		a.lastUpdate = time.Now()

		if event.IsFinal {
			a.fragments = append(a.fragments, transcript)
		}
	}

	var finalized string
	var finalize bool
	if event.IsEndOfUtterance && a.open {
		finalized = a.finalizeLocked()
		finalize = true
	}

	interim := a.onInterim
	a.mu.Unlock()

	if started && a.onStart != nil {
		a.onStart()
	}
	if !event.IsFinal && event.Transcript != "" && interim != nil {
		interim(event.Transcript)
	}
	if finalize {
		a.onFinal(finalized)
	}
}

// StopUtterance closes the current utterance out of band, typically on
// an explicit stop control from the client.
func (a *utteranceAggregator) StopUtterance() {
	a.mu.Lock()
	if !a.open {
		a.mu.Unlock()
		return
	}
	finalized := a.finalizeLocked()
	a.mu.Unlock()

	a.onFinal(finalized)
}

// Watch polls for trailing silence and finalizes the utterance after
// the timeout elapses with no recognizer activity. The silence path only
// fires once at least one fragment has accumulated; a stream of bare
// interim events keeps the utterance open until an explicit signal.
func (a *utteranceAggregator) Watch(ctx context.Context) {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		a.mu.Lock()
		if !a.open || len(a.fragments) == 0 || time.Since(a.lastUpdate) < a.silenceTimeout {
			a.mu.Unlock()
			continue
		}
		finalized := a.finalizeLocked()
		a.mu.Unlock()

		a.onFinal(finalized)
	}
}

func (a *utteranceAggregator) finalizeLocked() string {
	utterance := strings.TrimSpace(strings.Join(a.fragments, " "))
	if utterance == "" {
		utterance = UnclearUtterance
	}

	a.fragments = nil
	a.open = false

	return utterance
}
