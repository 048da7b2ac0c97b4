package events

const (
	// KindTurnCompleted identifies the terminal summary of a successful turn.
	KindTurnCompleted Kind = "turn_state.completed"
	// KindTurnCancelled identifies a turn cut short by barge-in.
	KindTurnCancelled Kind = "turn_state.cancelled"
	// KindTurnFailed identifies a turn that ended in a surfaced error.
	KindTurnFailed Kind = "turn_state.failed"
)

// TurnCompleted carries the terminal summary of a successful turn.
type TurnCompleted struct {
	Base
	Utterance string
	Reply     string
}

// NewTurnCompleted creates a turn summary event.
func NewTurnCompleted(utterance, reply string) TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted), Utterance: utterance, Reply: reply}
}

// TurnCancelled marks a turn cut short by barge-in.
type TurnCancelled struct{ Base }

// NewTurnCancelled creates a turn cancellation event.
func NewTurnCancelled() TurnCancelled {
	return TurnCancelled{Base: NewBase(KindTurnCancelled)}
}

// TurnFailed carries the error surfaced for an unrecoverable turn failure.
type TurnFailed struct {
	Base
	Err error
}

// NewTurnFailed creates a turn failure event.
func NewTurnFailed(err error) TurnFailed {
	return TurnFailed{Base: NewBase(KindTurnFailed), Err: err}
}
