package llms

// StreamingPromptOptions configures a streamed reply request.
type StreamingPromptOptions struct {
	// Instructions is the system prompt for the request.
	Instructions string
	// History is the prior conversation, oldest first.
	History []Entry
	// SearchContext is optional retrieved material appended to the prompt.
	SearchContext string
}

// StructuredPromptOptions configures a JSON-schema constrained request.
type StructuredPromptOptions struct {
	Instructions string
	History      []Entry
}

// StreamingPromptOption mutates StreamingPromptOptions.
type StreamingPromptOption interface {
	ApplyToStreaming(*StreamingPromptOptions)
}

// StructuredPromptOption mutates StructuredPromptOptions.
type StructuredPromptOption interface {
	ApplyToStructured(*StructuredPromptOptions)
}

// PromptOption can configure both streaming and structured requests.
type PromptOption interface {
	StreamingPromptOption
	StructuredPromptOption
}

type systemPromptOption struct{ instructions string }

func (o systemPromptOption) ApplyToStreaming(opts *StreamingPromptOptions) {
	opts.Instructions = o.instructions
}

func (o systemPromptOption) ApplyToStructured(opts *StructuredPromptOptions) {
	opts.Instructions = o.instructions
}

// WithSystemPrompt overrides the system prompt for the request.
func WithSystemPrompt(instructions string) PromptOption {
	return systemPromptOption{instructions: instructions}
}

type historyOption struct{ history []Entry }

func (o historyOption) ApplyToStreaming(opts *StreamingPromptOptions) {
	opts.History = append(opts.History, o.history...)
}

func (o historyOption) ApplyToStructured(opts *StructuredPromptOptions) {
	opts.History = append(opts.History, o.history...)
}

// WithHistory adds prior conversation entries to the request.
func WithHistory(history ...Entry) PromptOption {
	return historyOption{history: history}
}

type searchContextOption struct{ context string }

func (o searchContextOption) ApplyToStreaming(opts *StreamingPromptOptions) {
	opts.SearchContext = o.context
}

// WithSearchContext attaches retrieved web-search material to the prompt.
func WithSearchContext(context string) StreamingPromptOption {
	return searchContextOption{context: context}
}
