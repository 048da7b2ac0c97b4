package server

import (
	"encoding/json"
	"testing"
)

func TestAudioStreamMessageWireFormat(t *testing.T) {
	raw, err := json.Marshal(newAudioStreamPCMMessage("cGNt", 24000, 1))
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if decoded["type"] != "audio_stream_pcm" {
		t.Fatalf("unexpected type: %v", decoded["type"])
	}
	if decoded["pcm_chunk"] != "cGNt" {
		t.Fatalf("unexpected pcm_chunk: %v", decoded["pcm_chunk"])
	}
	if decoded["sample_rate"] != float64(24000) || decoded["channels"] != float64(1) {
		t.Fatalf("unexpected encoding fields: %v", decoded)
	}
}

func TestResponseStreamMessageKeepsIsCompleteWhenFalse(t *testing.T) {
	raw, err := json.Marshal(newAIResponseStreamMessage("hello", false))
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	isComplete, present := decoded["is_complete"]
	if !present {
		t.Fatalf("expected is_complete to always be present")
	}
	if isComplete != false {
		t.Fatalf("expected is_complete false, got %v", isComplete)
	}
}

func TestControlMessageParsing(t *testing.T) {
	var control controlMessage
	if err := json.Unmarshal([]byte(`{"type":"stop_utterance"}`), &control); err != nil {
		t.Fatalf("failed to parse control message: %v", err)
	}
	if control.Type != typeStopUtterance {
		t.Fatalf("unexpected control type: %q", control.Type)
	}
}
