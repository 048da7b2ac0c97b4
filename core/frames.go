package orchestration

// AudioFrame is a single chunk of synthesized speech on its way to the
// delivery queue. Boundary frames carry no PCM and mark the end of a
// sentence's audio.
type AudioFrame struct {
	PCM        []byte
	SampleRate int
	Channels   int

	// Boundary is set on the trailing frame of each sentence, after the
	// inter-sentence silence pad.
	Boundary bool
}
