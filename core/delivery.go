package orchestration

import (
	"context"

	"github.com/rapidanswer/rapidanswer-core/core/events"
)

// deliveryFrameBuffer bounds how far synthesis can run ahead of
// delivery before backpressure kicks in.
const deliveryFrameBuffer = 64

// deliveryQueue is the single consumer of the turn's audio frames. It
// forwards each frame as an event in queue order and stops at the nil
// sentinel pushed once the last sentence has finished.
type deliveryQueue struct {
	frames <-chan *AudioFrame
	emit   eventEmitter
}

func newDeliveryQueue(frames <-chan *AudioFrame, emit eventEmitter) *deliveryQueue {
	return &deliveryQueue{frames: frames, emit: emit}
}

func (q *deliveryQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame := <-q.frames:
			if frame == nil {
				return nil
			}
			if frame.Boundary {
				continue
			}
			q.emit(events.NewAssistantSpeechFrame(frame.PCM, frame.SampleRate, frame.Channels))
		}
	}
}
