package events

const (
	// KindAssistantReplySegment identifies streamed reply text deltas.
	KindAssistantReplySegment Kind = "assistant_response.segment"
	// KindAssistantReplyFinal identifies the end of the reply text stream.
	KindAssistantReplyFinal Kind = "assistant_response.final"
)

// AssistantReplySegment carries one streamed reply text delta.
type AssistantReplySegment struct {
	Base
	Segment string
}

// NewAssistantReplySegment creates a reply text delta event.
func NewAssistantReplySegment(segment string) AssistantReplySegment {
	return AssistantReplySegment{Base: NewBase(KindAssistantReplySegment), Segment: segment}
}

// AssistantReplyFinal marks the end of the reply text stream.
type AssistantReplyFinal struct{ Base }

// NewAssistantReplyFinal creates a reply stream completion event.
func NewAssistantReplyFinal() AssistantReplyFinal {
	return AssistantReplyFinal{Base: NewBase(KindAssistantReplyFinal)}
}
