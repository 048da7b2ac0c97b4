package llms

import "context"

// Stream is an in-progress reply whose chunks are pulled by the consumer.
// The iterator ends after the provider's explicit end marker or an error;
// a chunk and an error are never yielded together.
type Stream interface {
	Chunks(ctx context.Context) func(func(StreamChunk, error) bool)
}
