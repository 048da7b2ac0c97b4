package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rapidanswer/rapidanswer-core/core/events"
	"github.com/rapidanswer/rapidanswer-core/core/intent"
	"github.com/rapidanswer/rapidanswer-core/core/llms"
	"github.com/rapidanswer/rapidanswer-core/core/search"
)

const (
	defaultSystemPrompt = "You are a helpful assistant. Keep responses conversational and concise."

	unclearSystemPrompt = "You are a helpful assistant. The user's audio was unclear, so respond as if you didn't hear them properly. Keep responses conversational and concise."
	unclearUserPrompt   = "I didn't hear you clearly. Could you repeat that?"

	searchSystemPrompt = "You are a helpful assistant. Use the provided search results to give a comprehensive, accurate answer. Keep responses conversational and concise."
)

// responsePipeline answers one utterance. Three workers run under a
// shared cancelable context: reply generation streams text into the
// buffer, reply text processing splits it into sentences and schedules
// synthesis, and audio delivery drains the frame queue in order. A
// failure in any worker cancels the others.
type responsePipeline struct {
	replyEngine  ReplyEngine
	synthesizer  Synthesizer
	classifier   intent.Classifier
	searchClient SearchClient
	history      *ChatHistory
	emit         eventEmitter

	textBuffer *textBuffer
	frames     chan *AudioFrame
}

// turnRoute is the routing decision for one turn, made before the reply
// stream starts.
type turnRoute struct {
	prompt         string
	systemPrompt   string
	searchContext  string
	classification intent.Classification
}

func newResponsePipeline(
	replyEngine ReplyEngine,
	synthesizer Synthesizer,
	classifier intent.Classifier,
	searchClient SearchClient,
	history *ChatHistory,
	emit eventEmitter,
) *responsePipeline {
	return &responsePipeline{
		replyEngine:  replyEngine,
		synthesizer:  synthesizer,
		classifier:   classifier,
		searchClient: searchClient,
		history:      history,
		emit:         emit,

		textBuffer: newTextBuffer(),
		frames:     make(chan *AudioFrame, deliveryFrameBuffer),
	}
}

func (p *responsePipeline) Run(ctx context.Context, turn *activeTurn) error {
	if p == nil || turn == nil {
		return fmt.Errorf("response pipeline and active turn are required")
	}

	ctx, span := tracer.Start(ctx, "process turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("turn.id", turn.ID),
		attribute.Int("turn.utterance_length", len(turn.Utterance)),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	route := p.route(ctx, turn)
	scheduler := newSynthesisScheduler(p.synthesizer, route.classification.SpeedMultiplier, p.frames)

	var workerErr error
	workerErrMu := sync.Mutex{}
	addWorkerErr := func(err error) {
		if err == nil {
			return
		}
		workerErrMu.Lock()
		workerErr = errors.Join(workerErr, err)
		workerErrMu.Unlock()
	}

	run := func(name string, f func(context.Context) error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				addWorkerErr(fmt.Errorf("%s worker panicked: %v", name, recovered))
				cancel()
			}
		}()

		if err := f(ctx); err != nil {
			addWorkerErr(fmt.Errorf("%s worker failed: %w", name, err))
			cancel()
		}
	}

	wg := &sync.WaitGroup{}
	wg.Add(3)
	go func() {
		defer wg.Done()
		run("reply generation", func(ctx context.Context) error {
			return p.generateReply(ctx, turn, route)
		})
	}()
	go func() {
		defer wg.Done()
		run("reply text processing", func(ctx context.Context) error {
			return p.processReplyText(ctx, turn, scheduler)
		})
	}()
	go func() {
		defer wg.Done()
		run("audio delivery", func(ctx context.Context) error {
			return newDeliveryQueue(p.frames, p.emit).Run(ctx)
		})
	}()

	wg.Wait()

	if turn.IsCancelled() {
		turn.settle(turnStatusCancelled)
		span.SetAttributes(attribute.String("turn.status", string(turnStatusCancelled)))
		p.emit(events.NewTurnCancelled())
		return nil
	}

	if workerErr != nil {
		turn.settle(turnStatusFailed)
		err := fmt.Errorf("one or more turn processes failed: %w", workerErr)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("turn.status", string(turnStatusFailed)))
		p.emit(events.NewTurnFailed(err))
		return err
	}

	turn.settle(turnStatusCompleted)
	span.SetAttributes(attribute.String("turn.status", string(turnStatusCompleted)))
	reply := p.textBuffer.String()
	p.history.AppendExchange(turn.Utterance, reply)
	p.emit(events.NewTurnCompleted(turn.Utterance, reply))
	return nil
}

// route decides how the utterance is answered: the clarification path
// for unclear audio, or a classifier-driven choice of search grounding
// and speech speed. Routing never fails a turn; every error falls back
// to plain conversational defaults.
func (p *responsePipeline) route(ctx context.Context, turn *activeTurn) turnRoute {
	ctx, span := tracer.Start(ctx, "route utterance")
	defer span.End()

	route := turnRoute{
		prompt:         turn.Utterance,
		systemPrompt:   defaultSystemPrompt,
		classification: intent.Default(),
	}

	if turn.Utterance == UnclearUtterance {
		route.prompt = unclearUserPrompt
		route.systemPrompt = unclearSystemPrompt
		span.SetAttributes(attribute.Bool("turn.unclear_audio", true))
		return route
	}

	if p.classifier != nil {
		classification, err := p.classifier.Classify(ctx, turn.Utterance)
		if err != nil {
			span.RecordError(err)
			logger.WarnContext(ctx, "Utterance classification failed, using defaults", "error", err)
		} else {
			route.classification = classification
		}
	}
	span.SetAttributes(
		attribute.Bool("turn.needs_search", route.classification.NeedsSearch),
		attribute.Float64("turn.speed_multiplier", route.classification.SpeedMultiplier),
	)

	if route.classification.NeedsSearch && p.searchClient != nil {
		results, err := p.searchClient.Search(ctx, turn.Utterance)
		if err != nil {
			span.RecordError(err)
			logger.WarnContext(ctx, "Search failed, answering without grounding", "error", err)
		} else if len(results) > 0 {
			route.searchContext = search.BuildContext(results)
			route.systemPrompt = searchSystemPrompt
		}
	}

	return route
}

func (p *responsePipeline) generateReply(ctx context.Context, turn *activeTurn, route turnRoute) error {
	ctx, span := tracer.Start(ctx, "generate reply")
	defer span.End()

	opts := []llms.StreamingPromptOption{
		llms.WithSystemPrompt(route.systemPrompt),
		llms.WithHistory(p.history.Snapshot()...),
	}
	if route.searchContext != "" {
		opts = append(opts, llms.WithSearchContext(route.searchContext))
	}

	stream := p.replyEngine.PromptWithStream(ctx, route.prompt, opts...)
	for chunk, err := range stream.Chunks(ctx) {
		if err != nil {
			err := fmt.Errorf("failed to stream reply: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if turn.IsCancelled() {
			break
		}

		if content, ok := chunk.(llms.ContentChunk); ok && content.Content() != "" {
			p.textBuffer.AddChunk(content.Content())
		}
	}

	p.textBuffer.TextComplete()
	return nil
}

func (p *responsePipeline) processReplyText(ctx context.Context, turn *activeTurn, scheduler *synthesisScheduler) error {
	ctx, span := tracer.Start(ctx, "process reply text")
	defer span.End()

	unhook := withContextCancelHook(ctx, p.textBuffer.Clear)
	defer close(unhook)

	sentences := 0
	splitter := newSentenceSplitter(
		func(delta string) { p.emit(events.NewAssistantReplySegment(delta)) },
		func(sentence string) {
			sentences++
			scheduler.Schedule(ctx, sentence)
		},
	)

	p.textBuffer.Chunks(func(chunk string) bool {
		if turn.IsCancelled() {
			return false
		}
		splitter.Push(chunk)
		return true
	})

	if !turn.IsCancelled() && ctx.Err() == nil {
		splitter.Flush()
		p.emit(events.NewAssistantReplyFinal())
	}
	span.SetAttributes(attribute.Int("reply.sentences", sentences))

	scheduler.Join()

	// The sentinel releases the delivery worker once the last sentence's
	// audio is through.
	select {
	case p.frames <- nil:
	case <-ctx.Done():
		// Best effort after cancellation; the delivery worker also exits
		// on the shared context.
		select {
		case p.frames <- nil:
		default:
		}
	}

	return nil
}
