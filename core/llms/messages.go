package llms

// EntryRole describes who authored a history entry.
type EntryRole string

const (
	EntryRoleUser      EntryRole = "user"
	EntryRoleAssistant EntryRole = "assistant"
)

// Entry is one half of a finished exchange in the conversation history.
// History is append-only and strictly chronological; an assistant entry
// always directly follows the user entry of the same turn.
type Entry struct {
	Role    EntryRole
	Content string
}

// StreamChunk is a single piece of an in-progress streamed reply.
type StreamChunk interface {
	// FinishReason is non-nil on the last chunk of a choice.
	FinishReason() *string
}

// ContentChunk is a StreamChunk carrying reply text.
type ContentChunk interface {
	StreamChunk
	Content() string
}
