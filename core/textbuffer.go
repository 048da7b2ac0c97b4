package orchestration

import (
	"strings"
	"sync"
)

// textBuffer bridges the reply generation worker and the sentence
// processing worker. The producer appends deltas as they stream in and
// the single consumer drains them through Chunks, blocking until more
// text arrives or the stream is marked complete.
type textBuffer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	chunks   []string
	consumed int
	complete bool
	cleared  bool
}

func newTextBuffer() *textBuffer {
	b := &textBuffer{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *textBuffer) AddChunk(chunk string) {
	b.mu.Lock()
	b.chunks = append(b.chunks, chunk)
	b.mu.Unlock()
	b.cond.Broadcast()
}

func (b *textBuffer) TextComplete() {
	b.mu.Lock()
	b.complete = true
	b.mu.Unlock()
	b.cond.Broadcast()
}

// Chunks yields buffered deltas in arrival order. It returns once every
// delta has been consumed and the producer signalled completion, or
// immediately after Clear.
func (b *textBuffer) Chunks(yield func(string) bool) {
	for {
		b.mu.Lock()
		for !b.cleared && !b.complete && b.consumed >= len(b.chunks) {
			b.cond.Wait()
		}

		if b.cleared || (b.complete && b.consumed >= len(b.chunks)) {
			b.mu.Unlock()
			return
		}

		chunk := b.chunks[b.consumed]
		b.consumed++
		b.mu.Unlock()

		if !yield(chunk) {
			return
		}
	}
}

func (b *textBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Join(b.chunks, "")
}

// Clear unblocks the consumer and makes Chunks return immediately. Used
// when the turn is cancelled mid-stream.
func (b *textBuffer) Clear() {
	b.mu.Lock()
	b.cleared = true
	b.mu.Unlock()
	b.cond.Broadcast()
}
