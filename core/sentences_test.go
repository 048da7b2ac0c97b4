package orchestration

import (
	"strings"
	"testing"
)

func collectSplitter() (*sentenceSplitter, *[]string, *[]string) {
	deltas := &[]string{}
	sentences := &[]string{}
	splitter := newSentenceSplitter(
		func(delta string) { *deltas = append(*deltas, delta) },
		func(sentence string) { *sentences = append(*sentences, sentence) },
	)
	return splitter, deltas, sentences
}

func TestSentenceSplitterCutsOnTerminatingPunctuation(t *testing.T) {
	splitter, _, sentences := collectSplitter()

	for _, delta := range []string{"Hello", " there", ".", " How", " are", " you?"} {
		splitter.Push(delta)
	}

	if len(*sentences) != 2 {
		t.Fatalf("expected two sentences, got %d: %v", len(*sentences), *sentences)
	}
	if got := (*sentences)[0]; got != "Hello there." {
		t.Fatalf("expected first sentence %q, got %q", "Hello there.", got)
	}
	if got := (*sentences)[1]; got != "How are you?" {
		t.Fatalf("expected second sentence %q, got %q", "How are you?", got)
	}
}

func TestSentenceSplitterKeepsShortFragmentsBuffered(t *testing.T) {
	splitter, _, sentences := collectSplitter()

	splitter.Push("Dr.")
	if len(*sentences) != 0 {
		t.Fatalf("expected short fragment to stay buffered, got %v", *sentences)
	}

	splitter.Push(" Smith is here.")
	if len(*sentences) != 1 {
		t.Fatalf("expected one sentence, got %d: %v", len(*sentences), *sentences)
	}
	if got := (*sentences)[0]; got != "Dr. Smith is here." {
		t.Fatalf("expected %q, got %q", "Dr. Smith is here.", got)
	}
}

func TestSentenceSplitterFlushEmitsRemainderBelowThreshold(t *testing.T) {
	splitter, _, sentences := collectSplitter()

	splitter.Push("Yes")
	splitter.Flush()

	if len(*sentences) != 1 || (*sentences)[0] != "Yes" {
		t.Fatalf("expected flush to emit %q, got %v", "Yes", *sentences)
	}

	splitter.Flush()
	if len(*sentences) != 1 {
		t.Fatalf("expected second flush to emit nothing, got %v", *sentences)
	}
}

func TestSentenceSplitterPassesEveryDeltaThrough(t *testing.T) {
	splitter, deltas, _ := collectSplitter()

	input := []string{"The sky ", "is blue. ", "Water", " is wet! ", "Done"}
	for _, delta := range input {
		splitter.Push(delta)
	}
	splitter.Flush()

	if got := strings.Join(*deltas, ""); got != strings.Join(input, "") {
		t.Fatalf("expected deltas to reproduce the input, got %q", got)
	}
}

func TestSentenceSplitterSentencesCoverWholeReply(t *testing.T) {
	splitter, _, sentences := collectSplitter()

	input := []string{"First sentence here. ", "Second one! ", "And a tail"}
	for _, delta := range input {
		splitter.Push(delta)
	}
	splitter.Flush()

	joined := strings.Join(*sentences, " ")
	for _, want := range []string{"First sentence here.", "Second one!", "And a tail"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected sentences to contain %q, got %v", want, *sentences)
		}
	}
}
