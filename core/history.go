package orchestration

import (
	"sync"

	"github.com/jinzhu/copier"

	"github.com/rapidanswer/rapidanswer-core/core/llms"
)

// ChatHistory holds the session's completed exchanges. Cancelled and
// failed turns never reach it. A window of n keeps only the most recent
// n exchanges, trimmed in whole user/assistant pairs; zero means
// unbounded.
type ChatHistory struct {
	mu      sync.RWMutex
	entries []llms.Entry
	window  int
}

func newChatHistory(window int) *ChatHistory {
	return &ChatHistory{window: window}
}

func (h *ChatHistory) AppendExchange(utterance, reply string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries,
		llms.Entry{Role: llms.EntryRoleUser, Content: utterance},
		llms.Entry{Role: llms.EntryRoleAssistant, Content: reply},
	)

	if h.window > 0 && len(h.entries) > h.window*2 {
		h.entries = h.entries[len(h.entries)-h.window*2:]
	}
}

// Snapshot returns a deep copy safe to hand to a streaming prompt while
// new exchanges keep arriving.
func (h *ChatHistory) Snapshot() []llms.Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := []llms.Entry{}
	if err := copier.Copy(&entries, &h.entries); err != nil {
		return nil
	}
	return entries
}

func (h *ChatHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}
