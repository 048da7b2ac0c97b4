// Package server exposes the voice pipeline over a websocket endpoint.
// Each connection gets its own recognizer stream, conversation history
// and turn pipeline.
package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	orchestration "github.com/rapidanswer/rapidanswer-core/core"
	"github.com/rapidanswer/rapidanswer-core/core/events"
	"github.com/rapidanswer/rapidanswer-core/core/intent"
	"github.com/rapidanswer/rapidanswer-core/core/llms/groq"
	"github.com/rapidanswer/rapidanswer-core/core/search"
	"github.com/rapidanswer/rapidanswer-core/core/speechtotext/deepgram"
	openaitts "github.com/rapidanswer/rapidanswer-core/core/texttospeech/openai"
	"github.com/rapidanswer/rapidanswer-core/internal/config"
)

type Server struct {
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func New(cfg *config.Config) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			// The browser client is served from arbitrary origins during
			// development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: the websocket endpoint and a health
// check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/voice", s.handleVoice)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sess := newSession(conn)
	sess.run(r.Context(), s.buildOrchestrator)
}

func (s *Server) buildOrchestrator(emit func(events.Event)) *orchestration.Orchestrator {
	providers := s.cfg.Providers

	groqOpts := []groq.ClientOption{}
	if providers.Groq.Model != "" {
		groqOpts = append(groqOpts, groq.WithModel(providers.Groq.Model))
	}

	ttsOpts := []openaitts.ClientOption{}
	if providers.OpenAI.Model != "" {
		ttsOpts = append(ttsOpts, openaitts.WithModel(providers.OpenAI.Model))
	}
	if providers.OpenAI.Voice != "" {
		ttsOpts = append(ttsOpts, openaitts.WithVoice(providers.OpenAI.Voice))
	}

	opts := []orchestration.OrchestratorOption{
		orchestration.WithEventEmitter(emit),
		orchestration.WithClassifier(intent.NewGroqClassifier(providers.Groq.APIKey)),
		orchestration.WithHistoryWindow(s.cfg.Conversation.HistoryWindow),
	}
	if providers.Exa.APIKey != "" {
		opts = append(opts, orchestration.WithSearchClient(search.NewClient(providers.Exa.APIKey)))
	}

	return orchestration.NewOrchestrator(
		deepgram.NewTranscriptionClient(providers.Deepgram.APIKey),
		groq.NewClient(providers.Groq.APIKey, groqOpts...),
		openaitts.NewClient(providers.OpenAI.APIKey, ttsOpts...),
		opts...,
	)
}
