package events

const (
	// KindUserTranscriptInterim identifies live in-progress speech previews.
	KindUserTranscriptInterim Kind = "user_input.transcript_interim"
	// KindUserUtteranceFinal identifies the finalized utterance for a turn.
	KindUserUtteranceFinal Kind = "user_input.utterance_final"
)

// UserTranscriptInterim carries a live preview of in-progress speech.
type UserTranscriptInterim struct {
	Base
	Transcript string
}

// NewUserTranscriptInterim creates an interim transcript preview event.
func NewUserTranscriptInterim(transcript string) UserTranscriptInterim {
	return UserTranscriptInterim{Base: NewBase(KindUserTranscriptInterim), Transcript: transcript}
}

// UserUtteranceFinal carries the finalized utterance handed to reply
// generation.
type UserUtteranceFinal struct {
	Base
	Transcript string
}

// NewUserUtteranceFinal creates a finalized utterance event.
func NewUserUtteranceFinal(transcript string) UserUtteranceFinal {
	return UserUtteranceFinal{Base: NewBase(KindUserUtteranceFinal), Transcript: transcript}
}
