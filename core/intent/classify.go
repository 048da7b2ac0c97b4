// Package intent decides, ahead of reply generation, whether a turn needs
// web-search augmentation and whether the user asked for a different
// speaking rate. Classification is best-effort: any failure falls back to
// safe defaults so the turn never stalls on it.
package intent

import (
	"context"
	_ "embed"

	"github.com/rapidanswer/rapidanswer-core/core/llms/groq"
	"go.opentelemetry.io/otel/codes"
)

//go:embed classifierInstructions.tmpl
var classifierSystemPrompt string

// Classification is the decision made for one finalized utterance.
type Classification struct {
	NeedsSearch     bool    `json:"needs_search" jsonschema:"title=NeedsSearch,description=Whether answering requires fresh information from the web"`
	SpeedMultiplier float64 `json:"speed_multiplier" jsonschema:"title=SpeedMultiplier,description=Requested speaking rate multiplier between 0.5 and 2.0; 1.0 when not requested"`
}

// Default is the classification used when the classifier is unavailable
// or fails.
func Default() Classification {
	return Classification{NeedsSearch: false, SpeedMultiplier: 1.0}
}

// Classifier produces a Classification for a transcript.
type Classifier interface {
	Classify(ctx context.Context, transcript string) (Classification, error)
}

// GroqClassifier classifies transcripts with a JSON-schema constrained
// Groq completion.
type GroqClassifier struct {
	apiKey string
	model  string
}

type GroqClassifierOption func(*GroqClassifier)

func WithModel(model string) GroqClassifierOption {
	return func(c *GroqClassifier) { c.model = model }
}

func NewGroqClassifier(apiKey string, opts ...GroqClassifierOption) *GroqClassifier {
	classifier := &GroqClassifier{apiKey: apiKey, model: groq.DefaultModel}
	for _, opt := range opts {
		opt(classifier)
	}
	return classifier
}

func (c *GroqClassifier) Classify(ctx context.Context, transcript string) (Classification, error) {
	ctx, span := tracer.Start(ctx, "classify turn intent")
	defer span.End()

	classification, err := groq.PromptJSONSchema(
		ctx, c.apiKey, c.model,
		transcript,
		classifierSystemPrompt,
		Default(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Default(), err
	}

	if classification.SpeedMultiplier < 0.5 || classification.SpeedMultiplier > 2.0 {
		classification.SpeedMultiplier = 1.0
	}

	return *classification, nil
}
