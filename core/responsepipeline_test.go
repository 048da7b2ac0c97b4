package orchestration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rapidanswer/rapidanswer-core/core/intent"
	"github.com/rapidanswer/rapidanswer-core/core/llms"
	"github.com/rapidanswer/rapidanswer-core/core/search"
)

type fakeClassifier struct {
	classification intent.Classification
	err            error
}

func (c *fakeClassifier) Classify(context.Context, string) (intent.Classification, error) {
	if c.err != nil {
		return intent.Default(), c.err
	}
	return c.classification, nil
}

type fakeSearchClient struct {
	mu      sync.Mutex
	queries []string
	results []search.Result
	err     error
}

func (c *fakeSearchClient) Search(_ context.Context, query string) ([]search.Result, error) {
	c.mu.Lock()
	c.queries = append(c.queries, query)
	c.mu.Unlock()

	return c.results, c.err
}

func newTestPipeline(engine *fakeReplyEngine, classifier intent.Classifier, searchClient SearchClient) *responsePipeline {
	return newResponsePipeline(engine, &fakeSynthesizer{}, classifier, searchClient, newChatHistory(0), noopEventEmitter)
}

func runTurn(t *testing.T, pipeline *responsePipeline, utterance string) *activeTurn {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	turn := newActiveTurn(utterance, cancel)

	if err := pipeline.Run(ctx, turn); err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	return turn
}

func TestPipelineGroundsSearchableUtterances(t *testing.T) {
	engine := &fakeReplyEngine{deltas: []string{"It is sunny in Lisbon today."}}
	classifier := &fakeClassifier{classification: intent.Classification{NeedsSearch: true, SpeedMultiplier: 1.0}}
	searchClient := &fakeSearchClient{results: []search.Result{
		{Title: "Lisbon weather", URL: "https://example.com", Text: "Sunny, 24C"},
	}}
	pipeline := newTestPipeline(engine, classifier, searchClient)

	turn := runTurn(t, pipeline, "what's the weather in lisbon")

	if turn.Status() != turnStatusCompleted {
		t.Fatalf("expected completed turn, got %q", turn.Status())
	}
	if len(searchClient.queries) != 1 || searchClient.queries[0] != "what's the weather in lisbon" {
		t.Fatalf("expected the utterance to be searched, got %v", searchClient.queries)
	}
	if _, system := engine.lastPrompt(); system != searchSystemPrompt {
		t.Fatalf("expected search instructions, got %q", system)
	}
}

func TestPipelineSearchFailureFallsBackToPlainReply(t *testing.T) {
	engine := &fakeReplyEngine{deltas: []string{"I think it is sunny."}}
	classifier := &fakeClassifier{classification: intent.Classification{NeedsSearch: true, SpeedMultiplier: 1.0}}
	searchClient := &fakeSearchClient{err: fmt.Errorf("search backend down")}
	pipeline := newTestPipeline(engine, classifier, searchClient)

	turn := runTurn(t, pipeline, "what's the weather")

	if turn.Status() != turnStatusCompleted {
		t.Fatalf("expected completed turn despite search failure, got %q", turn.Status())
	}
	if _, system := engine.lastPrompt(); system != defaultSystemPrompt {
		t.Fatalf("expected plain instructions after search failure, got %q", system)
	}
}

func TestPipelineClassifierFailureUsesDefaults(t *testing.T) {
	engine := &fakeReplyEngine{deltas: []string{"Hello to you too."}}
	classifier := &fakeClassifier{err: fmt.Errorf("classifier unavailable")}
	searchClient := &fakeSearchClient{}
	pipeline := newTestPipeline(engine, classifier, searchClient)

	turn := runTurn(t, pipeline, "hello there")

	if turn.Status() != turnStatusCompleted {
		t.Fatalf("expected completed turn, got %q", turn.Status())
	}
	if len(searchClient.queries) != 0 {
		t.Fatalf("expected no search on classifier failure, got %v", searchClient.queries)
	}
}

func TestPipelineUnclearUtteranceSkipsRouting(t *testing.T) {
	engine := &fakeReplyEngine{deltas: []string{"Could you repeat that?"}}
	classifier := &fakeClassifier{classification: intent.Classification{NeedsSearch: true, SpeedMultiplier: 2.0}}
	searchClient := &fakeSearchClient{}
	pipeline := newTestPipeline(engine, classifier, searchClient)

	runTurn(t, pipeline, UnclearUtterance)

	if len(searchClient.queries) != 0 {
		t.Fatalf("expected no search for unclear audio, got %v", searchClient.queries)
	}
	if prompt, _ := engine.lastPrompt(); prompt != unclearUserPrompt {
		t.Fatalf("expected clarification prompt, got %q", prompt)
	}
}

func TestPipelineFailedStreamFailsTurn(t *testing.T) {
	pipeline := newResponsePipeline(failingReplyEngine{}, &fakeSynthesizer{}, nil, nil, newChatHistory(0), noopEventEmitter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	turn := newActiveTurn("hello", cancel)

	if err := pipeline.Run(ctx, turn); err == nil {
		t.Fatalf("expected a failed turn to return an error")
	}
	if turn.Status() != turnStatusFailed {
		t.Fatalf("expected failed status, got %q", turn.Status())
	}
	if got := pipeline.history.Len(); got != 0 {
		t.Fatalf("expected failed turn to stay out of history, got %d entries", got)
	}
}

type failingReplyEngine struct{}

func (failingReplyEngine) PromptWithStream(context.Context, string, ...llms.StreamingPromptOption) llms.Stream {
	return failingStream{}
}

type failingStream struct{}

func (failingStream) Chunks(context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		yield(nil, fmt.Errorf("stream exploded"))
	}
}
