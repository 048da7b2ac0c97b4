// Package texttospeech defines the synthesizer contract used by the
// synthesis scheduler. A synthesizer turns one sentence of text into a
// stream of raw audio chunks delivered through a callback as they become
// available.
package texttospeech

import "github.com/rapidanswer/rapidanswer-core/core/audio"

const DefaultSpeedMultiplier = 1.0

type SynthesisOptions struct {
	// SpeedMultiplier scales the speaking rate. 1.0 is the voice's
	// natural pace.
	SpeedMultiplier float64
	// EncodingInfo describes the requested output encoding.
	EncodingInfo audio.EncodingInfo
	// AudioChunkCallback receives raw audio chunks in synthesis order.
	// It may block; the synthesizer must tolerate backpressure.
	AudioChunkCallback func([]byte)
}

type SynthesisOption func(*SynthesisOptions)

func WithSpeedMultiplier(speed float64) SynthesisOption {
	return func(o *SynthesisOptions) {
		if speed > 0 {
			o.SpeedMultiplier = speed
		}
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SynthesisOption {
	return func(o *SynthesisOptions) { o.EncodingInfo = encodingInfo }
}

func WithAudioChunkCallback(callback func([]byte)) SynthesisOption {
	return func(o *SynthesisOptions) { o.AudioChunkCallback = callback }
}
