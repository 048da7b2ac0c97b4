package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	orchestration "github.com/rapidanswer/rapidanswer-core/core"
	"github.com/rapidanswer/rapidanswer-core/core/events"
)

// session ties one websocket connection to its own orchestrator. Binary
// frames carry microphone audio; text frames carry control messages.
// Pipeline events are translated back into client messages.
type session struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex

	orchestrator *orchestration.Orchestrator
}

func newSession(conn *websocket.Conn) *session {
	return &session{
		id:   uuid.NewString(),
		conn: conn,
	}
}

func (s *session) run(ctx context.Context, build func(emit func(events.Event)) *orchestration.Orchestrator) {
	ctx, span := tracer.Start(ctx, "voice session")
	defer span.End()

	s.orchestrator = build(s.handleEvent)

	runDone := make(chan error, 1)
	go func() { runDone <- s.orchestrator.Run(ctx) }()

	logger.InfoContext(ctx, "Voice session started", "session_id", s.id)
	s.readLoop(ctx)

	s.orchestrator.Close()
	if err := <-runDone; err != nil {
		logger.ErrorContext(ctx, "Voice session ended with error", "session_id", s.id, "error", err)
		s.send(newErrorMessage("transcription stream failed"))
		return
	}
	logger.InfoContext(ctx, "Voice session ended", "session_id", s.id)
}

func (s *session) readLoop(ctx context.Context) {
	for {
		messageType, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WarnContext(ctx, "Websocket read failed", "session_id", s.id, "error", err)
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if err := s.orchestrator.SendAudio(payload); err != nil {
				logger.WarnContext(ctx, "Failed to forward audio", "session_id", s.id, "error", err)
			}
		case websocket.TextMessage:
			s.handleControl(ctx, payload)
		}
	}
}

func (s *session) handleControl(ctx context.Context, payload []byte) {
	var control controlMessage
	if err := json.Unmarshal(payload, &control); err != nil {
		logger.WarnContext(ctx, "Unparseable control message", "session_id", s.id, "error", err)
		return
	}

	switch control.Type {
	case typeStopUtterance:
		s.orchestrator.StopUtterance()
	case typePlaybackEnded:
		s.orchestrator.NotifyPlaybackEnded()
	default:
		logger.WarnContext(ctx, "Unknown control message", "session_id", s.id, "type", control.Type)
	}
}

func (s *session) handleEvent(event events.Event) {
	switch typedEvent := event.(type) {
	case events.UserTranscriptInterim:
		s.send(newInterimTranscriptionMessage(typedEvent.Transcript))
	case events.AssistantReplySegment:
		s.send(newAIResponseStreamMessage(typedEvent.Segment, false))
	case events.AssistantReplyFinal:
		s.send(newAIResponseStreamMessage("", true))
	case events.AssistantSpeechFrame:
		encoded := base64.StdEncoding.EncodeToString(typedEvent.PCM)
		s.send(newAudioStreamPCMMessage(encoded, typedEvent.SampleRate, typedEvent.Channels))
	case events.PlaybackStopRequested:
		s.send(newStopPlaybackMessage())
	case events.TurnCompleted:
		s.send(newVoiceResponseMessage(typedEvent.Utterance, typedEvent.Reply))
	case events.TurnFailed:
		s.send(newErrorMessage("failed to answer, please try again"))
	}
}

func (s *session) send(message any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteJSON(message); err != nil {
		logger.Warn("Websocket write failed", "session_id", s.id, "error", err)
	}
}
