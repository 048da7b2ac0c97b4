package orchestration

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rapidanswer/rapidanswer-core/core/audio"
	"github.com/rapidanswer/rapidanswer-core/core/texttospeech"
)

// fakeSynthesizer emits each sentence's text as a single PCM chunk,
// optionally after a per-sentence delay or failing outright.
type fakeSynthesizer struct {
	delays   map[string]time.Duration
	failures map[string]bool
}

func (s *fakeSynthesizer) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (s *fakeSynthesizer) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) error {
	options := texttospeech.SynthesisOptions{SpeedMultiplier: texttospeech.DefaultSpeedMultiplier}
	for _, opt := range opts {
		opt(&options)
	}

	if delay := s.delays[text]; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if s.failures[text] {
		return fmt.Errorf("synthesis rejected %q", text)
	}

	if options.AudioChunkCallback != nil {
		options.AudioChunkCallback([]byte(text))
	}
	return nil
}

// drainFrames reads frames until the expected number of sentence
// boundaries has passed.
func drainFrames(t *testing.T, frames <-chan *AudioFrame, boundaries int) []*AudioFrame {
	t.Helper()

	var collected []*AudioFrame
	seen := 0
	for seen < boundaries {
		select {
		case frame := <-frames:
			collected = append(collected, frame)
			if frame.Boundary {
				seen++
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out draining frames, got %d of %d boundaries", seen, boundaries)
		}
	}
	return collected
}

func audiblePCM(frames []*AudioFrame) string {
	var out strings.Builder
	for _, frame := range frames {
		if frame.Boundary || len(frame.PCM) == 0 {
			continue
		}
		if bytes.IndexFunc(frame.PCM, func(r rune) bool { return r != 0 }) == -1 {
			continue
		}
		out.Write(frame.PCM)
	}
	return out.String()
}

func TestSchedulerDeliversSentencesInOrder(t *testing.T) {
	synthesizer := &fakeSynthesizer{delays: map[string]time.Duration{
		"First sentence.": 80 * time.Millisecond,
	}}
	frames := make(chan *AudioFrame, deliveryFrameBuffer)
	scheduler := newSynthesisScheduler(synthesizer, 1.0, frames)

	ctx := context.Background()
	scheduler.Schedule(ctx, "First sentence.")
	scheduler.Schedule(ctx, "Second sentence.")
	scheduler.Schedule(ctx, "Third sentence.")

	collected := drainFrames(t, frames, 3)
	scheduler.Join()

	got := audiblePCM(collected)
	want := "First sentence.Second sentence.Third sentence."
	if got != want {
		t.Fatalf("expected in-order audio %q, got %q", want, got)
	}
}

func TestSchedulerFailedSentenceDoesNotWedgeSuccessors(t *testing.T) {
	synthesizer := &fakeSynthesizer{failures: map[string]bool{"Broken sentence.": true}}
	frames := make(chan *AudioFrame, deliveryFrameBuffer)
	scheduler := newSynthesisScheduler(synthesizer, 1.0, frames)

	ctx := context.Background()
	scheduler.Schedule(ctx, "Broken sentence.")
	scheduler.Schedule(ctx, "Working sentence.")

	collected := drainFrames(t, frames, 2)
	scheduler.Join()

	if got := audiblePCM(collected); got != "Working sentence." {
		t.Fatalf("expected only the working sentence's audio, got %q", got)
	}
}

func TestSchedulerInsertsSilencePadBetweenSentences(t *testing.T) {
	synthesizer := &fakeSynthesizer{}
	frames := make(chan *AudioFrame, deliveryFrameBuffer)
	scheduler := newSynthesisScheduler(synthesizer, 1.0, frames)

	scheduler.Schedule(context.Background(), "Hello there.")

	collected := drainFrames(t, frames, 1)
	scheduler.Join()

	if len(collected) != 3 {
		t.Fatalf("expected audio, pad and boundary frames, got %d", len(collected))
	}

	pad := collected[1]
	wantLen := audio.GetDefaultEncodingInfo().BytesFor(interSentenceSilenceMs)
	if len(pad.PCM) != wantLen {
		t.Fatalf("expected %d bytes of silence, got %d", wantLen, len(pad.PCM))
	}
	if !collected[2].Boundary {
		t.Fatalf("expected trailing boundary frame")
	}
}

func TestSchedulerCancellationReleasesJoin(t *testing.T) {
	synthesizer := &fakeSynthesizer{delays: map[string]time.Duration{
		"Slow sentence.": 5 * time.Second,
	}}
	frames := make(chan *AudioFrame, deliveryFrameBuffer)
	scheduler := newSynthesisScheduler(synthesizer, 1.0, frames)

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Schedule(ctx, "Slow sentence.")
	scheduler.Schedule(ctx, "Queued sentence.")
	cancel()

	joined := make(chan struct{})
	go func() {
		scheduler.Join()
		close(joined)
	}()

	select {
	case <-joined:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for cancelled scheduler to drain")
	}
}
