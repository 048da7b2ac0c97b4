package server

// Outbound message types sent to the browser client.
const (
	typeInterimTranscription = "interim_transcription"
	typeAIResponseStream     = "ai_response_stream"
	typeAudioStreamPCM       = "audio_stream_pcm"
	typeStopPlayback         = "stop_playback"
	typeVoiceResponse        = "voice_response"
	typeError                = "error"
)

// Inbound control message types. Audio itself arrives as binary frames.
const (
	typeStopUtterance = "stop_utterance"
	typePlaybackEnded = "playback_ended"
)

type interimTranscriptionMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func newInterimTranscriptionMessage(transcript string) interimTranscriptionMessage {
	return interimTranscriptionMessage{Type: typeInterimTranscription, Content: transcript}
}

type aiResponseStreamMessage struct {
	Type       string `json:"type"`
	Content    string `json:"content"`
	IsComplete bool   `json:"is_complete"`
}

func newAIResponseStreamMessage(content string, isComplete bool) aiResponseStreamMessage {
	return aiResponseStreamMessage{Type: typeAIResponseStream, Content: content, IsComplete: isComplete}
}

type audioStreamPCMMessage struct {
	Type       string `json:"type"`
	PCMChunk   string `json:"pcm_chunk"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

func newAudioStreamPCMMessage(pcmBase64 string, sampleRate, channels int) audioStreamPCMMessage {
	return audioStreamPCMMessage{
		Type:       typeAudioStreamPCM,
		PCMChunk:   pcmBase64,
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

type stopPlaybackMessage struct {
	Type string `json:"type"`
}

func newStopPlaybackMessage() stopPlaybackMessage {
	return stopPlaybackMessage{Type: typeStopPlayback}
}

type voiceResponseMessage struct {
	Type          string `json:"type"`
	Transcription string `json:"transcription"`
	AIResponse    string `json:"ai_response"`
}

func newVoiceResponseMessage(transcription, aiResponse string) voiceResponseMessage {
	return voiceResponseMessage{Type: typeVoiceResponse, Transcription: transcription, AIResponse: aiResponse}
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorMessage(message string) errorMessage {
	return errorMessage{Type: typeError, Message: message}
}

type controlMessage struct {
	Type string `json:"type"`
}
