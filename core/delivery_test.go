package orchestration

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rapidanswer/rapidanswer-core/core/events"
)

func TestDeliveryQueueForwardsFramesUntilSentinel(t *testing.T) {
	frames := make(chan *AudioFrame, 8)
	var emitted []events.Event
	queue := newDeliveryQueue(frames, func(event events.Event) {
		emitted = append(emitted, event)
	})

	frames <- &AudioFrame{PCM: []byte("one"), SampleRate: 24000, Channels: 1}
	frames <- &AudioFrame{Boundary: true}
	frames <- &AudioFrame{PCM: []byte("two"), SampleRate: 24000, Channels: 1}
	frames <- nil

	if err := queue.Run(context.Background()); err != nil {
		t.Fatalf("expected clean stop at sentinel, got %v", err)
	}

	if len(emitted) != 2 {
		t.Fatalf("expected two speech frame events, got %d", len(emitted))
	}
	first, ok := emitted[0].(events.AssistantSpeechFrame)
	if !ok {
		t.Fatalf("expected speech frame event, got %T", emitted[0])
	}
	if !bytes.Equal(first.PCM, []byte("one")) {
		t.Fatalf("expected first frame %q, got %q", "one", first.PCM)
	}
	second := emitted[1].(events.AssistantSpeechFrame)
	if !bytes.Equal(second.PCM, []byte("two")) {
		t.Fatalf("expected second frame %q, got %q", "two", second.PCM)
	}
}

func TestDeliveryQueueStopsOnContextCancel(t *testing.T) {
	frames := make(chan *AudioFrame)
	queue := newDeliveryQueue(frames, noopEventEmitter)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- queue.Run(ctx) }()

	cancel()
	select {
	case err := <-stopped:
		if err == nil {
			t.Fatalf("expected a context error on cancellation")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for delivery queue to stop")
	}
}
