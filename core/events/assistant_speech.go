package events

const (
	// KindAssistantSpeechFrame identifies synthesized speech audio frames.
	KindAssistantSpeechFrame Kind = "assistant_speech.frame"
	// KindPlaybackStopRequested identifies the stop-playback instruction.
	KindPlaybackStopRequested Kind = "assistant_playback.stop"
)

// AssistantSpeechFrame carries one synthesized PCM audio frame. Frames
// arrive in strict sentence order.
type AssistantSpeechFrame struct {
	Base
	PCM        []byte
	SampleRate int
	Channels   int
}

// NewAssistantSpeechFrame creates a speech audio frame event.
func NewAssistantSpeechFrame(pcm []byte, sampleRate, channels int) AssistantSpeechFrame {
	return AssistantSpeechFrame{
		Base:       NewBase(KindAssistantSpeechFrame),
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

// PlaybackStopRequested instructs the client to stop playing buffered
// audio immediately.
type PlaybackStopRequested struct{ Base }

// NewPlaybackStopRequested creates a stop-playback instruction event.
func NewPlaybackStopRequested() PlaybackStopRequested {
	return PlaybackStopRequested{Base: NewBase(KindPlaybackStopRequested)}
}
