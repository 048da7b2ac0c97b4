package orchestration

import (
	"testing"

	"github.com/rapidanswer/rapidanswer-core/core/llms"
)

func TestChatHistoryAppendsWholeExchanges(t *testing.T) {
	history := newChatHistory(0)

	history.AppendExchange("hello", "hi there")

	entries := history.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].Role != llms.EntryRoleUser || entries[0].Content != "hello" {
		t.Fatalf("unexpected user entry: %+v", entries[0])
	}
	if entries[1].Role != llms.EntryRoleAssistant || entries[1].Content != "hi there" {
		t.Fatalf("unexpected assistant entry: %+v", entries[1])
	}
}

func TestChatHistoryWindowTrimsWholeExchanges(t *testing.T) {
	history := newChatHistory(2)

	history.AppendExchange("one", "first")
	history.AppendExchange("two", "second")
	history.AppendExchange("three", "third")

	entries := history.Snapshot()
	if len(entries) != 4 {
		t.Fatalf("expected window of two exchanges, got %d entries", len(entries))
	}
	if entries[0].Content != "two" {
		t.Fatalf("expected oldest surviving entry %q, got %q", "two", entries[0].Content)
	}
	if entries[3].Content != "third" {
		t.Fatalf("expected newest entry %q, got %q", "third", entries[3].Content)
	}
}

func TestChatHistorySnapshotIsIsolated(t *testing.T) {
	history := newChatHistory(0)
	history.AppendExchange("hello", "hi")

	snapshot := history.Snapshot()
	snapshot[0].Content = "mutated"

	if got := history.Snapshot()[0].Content; got != "hello" {
		t.Fatalf("expected history to be unaffected by snapshot mutation, got %q", got)
	}
}
