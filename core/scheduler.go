package orchestration

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rapidanswer/rapidanswer-core/core/audio"
	"github.com/rapidanswer/rapidanswer-core/core/texttospeech"
)

const interSentenceSilenceMs = 200

// synthesisScheduler synthesizes sentences concurrently while keeping
// their audio in spoken order. Each sentence gets a goroutine holding
// two gates: it may only forward audio once its predecessor's gate is
// open, and it opens its own gate when done so the successor can start
// forwarding. The first sentence's predecessor gate starts open.
//
// Gates open exactly once, on success, failure, and cancellation alike,
// so a failed sentence never wedges the chain.
//
// Schedule must only be called from a single goroutine.
type synthesisScheduler struct {
	synthesizer Synthesizer
	speed       float64
	encoding    audio.EncodingInfo
	frames      chan<- *AudioFrame

	predecessorGate chan struct{}
	pending         sync.WaitGroup
}

func newSynthesisScheduler(synthesizer Synthesizer, speed float64, frames chan<- *AudioFrame) *synthesisScheduler {
	firstGate := make(chan struct{})
	close(firstGate)

	return &synthesisScheduler{
		synthesizer:     synthesizer,
		speed:           speed,
		encoding:        synthesizer.EncodingInfo(),
		frames:          frames,
		predecessorGate: firstGate,
	}
}

// Schedule starts synthesis for a sentence immediately. Delivery of its
// audio still waits for every earlier sentence to finish.
func (s *synthesisScheduler) Schedule(ctx context.Context, sentence string) {
	predecessor := s.predecessorGate
	completed := make(chan struct{})
	s.predecessorGate = completed

	s.pending.Add(1)
	go s.synthesize(ctx, sentence, predecessor, completed)
}

func (s *synthesisScheduler) synthesize(ctx context.Context, sentence string, predecessor, completed chan struct{}) {
	defer s.pending.Done()
	defer close(completed)

	ctx, span := tracer.Start(ctx, "synthesize sentence")
	defer span.End()
	span.SetAttributes(attribute.Int("sentence.length", len(sentence)))

	cleared := false
	err := s.synthesizer.Synthesize(ctx, sentence,
		texttospeech.WithSpeedMultiplier(s.speed),
		texttospeech.WithEncodingInfo(s.encoding),
		texttospeech.WithAudioChunkCallback(func(chunk []byte) {
			if !cleared {
				select {
				case <-predecessor:
					cleared = true
				case <-ctx.Done():
					return
				}
			}
			s.push(ctx, &AudioFrame{
				PCM:        chunk,
				SampleRate: s.encoding.SampleRate,
				Channels:   s.encoding.Channels,
			})
		}),
	)
	if err != nil {
		// A single failed sentence should not bring the turn down; the
		// gap is audible but the rest of the reply still plays.
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "Sentence synthesis failed", "error", err)
	}

	if !cleared {
		select {
		case <-predecessor:
		case <-ctx.Done():
			return
		}
	}
	if ctx.Err() != nil {
		return
	}

	s.push(ctx, &AudioFrame{
		PCM:        s.silencePad(),
		SampleRate: s.encoding.SampleRate,
		Channels:   s.encoding.Channels,
	})
	s.push(ctx, &AudioFrame{
		SampleRate: s.encoding.SampleRate,
		Channels:   s.encoding.Channels,
		Boundary:   true,
	})
}

func (s *synthesisScheduler) push(ctx context.Context, frame *AudioFrame) {
	select {
	case s.frames <- frame:
	case <-ctx.Done():
	}
}

func (s *synthesisScheduler) silencePad() []byte {
	pad := make([]byte, s.encoding.BytesFor(interSentenceSilenceMs))
	if silence := s.encoding.SilenceValue(); silence != 0 {
		for i := range pad {
			pad[i] = silence
		}
	}
	return pad
}

// Join blocks until every scheduled sentence has finished, successfully
// or not.
func (s *synthesisScheduler) Join() {
	s.pending.Wait()
}
