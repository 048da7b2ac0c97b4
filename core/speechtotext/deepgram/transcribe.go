package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"

	"github.com/rapidanswer/rapidanswer-core/core/speechtotext"
	"github.com/rapidanswer/rapidanswer-core/internal/utils"
)

// Transcribe opens the live-transcription websocket and starts the event
// stream. The stream ends when the connection closes; a close with the
// normal status code is not an error.
func (c *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := &speechtotext.TranscriptionOptions{
		Model:      "nova-3",
		Language:   "en-US",
		SampleRate: 16000,
		Encoding:   "linear16",
	}
	for _, opt := range opts {
		opt(options)
	}

	conn, err := connectWebsocket(c.apiKey, *options)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	buffer := options.EventBuffer
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}

	c.conn = conn
	c.events = make(chan speechtotext.RecognitionEvent, buffer)
	c.lastMsgTs = time.Now()
	go c.readAndProcessMessages(ctx, conn)

	return nil
}

func connectWebsocket(apiKey string, options speechtotext.TranscriptionOptions) (*websocket.Conn, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.Encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", options.Model)
	queryParams.Set("language", options.Language)
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

// SendAudio forwards a raw audio chunk upstream.
func (c *TranscriptionClient) SendAudio(audio []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("transcription stream not open")
	}

	c.lastMsgTs = time.Now()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// CloseStream asks the recognizer to flush and finalize whatever it has.
// The recognizer answers with its remaining final results before closing.
func (c *TranscriptionClient) CloseStream() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		if err := c.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			return fmt.Errorf("failed to close deepgram stream through websocket: %w", err)
		}
	}
	return nil
}

func (c *TranscriptionClient) Close(_ context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		conn := c.conn
		c.conn = nil
		return conn.Close()
	}
	return nil
}

func (c *TranscriptionClient) sendKeepAlive() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		log.Println("Failed to write to deepgram client", "error", err)
	}
}

func (c *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn) {
	keepAliveCtx, keepAliveCancel := context.WithCancel(ctx)
	defer keepAliveCancel()
	go c.keepAlive(keepAliveCtx)

	defer c.closeOnce.Do(func() { close(c.events) })

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Println("Failed to read deepgram websocket message", "error", err)
				c.setErr(fmt.Errorf("transcription stream closed uncleanly: %w", err))
			}

			c.connMu.Lock()
			c.conn = nil
			c.connMu.Unlock()
			conn.Close()
			return
		}
		if msgType != websocket.BinaryMessage {
			c.processMessage(msg)
		}
	}
}

func (c *TranscriptionClient) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}
		if len(msgResp.Channel.Alternatives) == 0 {
			return
		}
		transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		if len(transcript) == 0 && !msgResp.SpeechFinal {
			return
		}

		c.events <- speechtotext.RecognitionEvent{
			Transcript:       transcript,
			IsFinal:          msgResp.IsFinal,
			IsEndOfUtterance: msgResp.IsFinal && msgResp.SpeechFinal,
			Timestamp:        time.Now(),
		}

	case api.TypeUtteranceEndResponse:
		var msgResp api.UtteranceEndResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		c.events <- speechtotext.RecognitionEvent{
			IsFinal:          true,
			IsEndOfUtterance: true,
			Timestamp:        time.Now(),
		}
	}
}

// keepAlive keeps the upstream socket open across pauses in the incoming
// audio. Deepgram drops connections that stay silent for too long.
func (c *TranscriptionClient) keepAlive(ctx context.Context) {
	const interval = 5 * time.Second
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastKeepAlive *time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Since(c.lastMsgTs) < interval {
				continue
			}
			if lastKeepAlive == nil || time.Since(*lastKeepAlive) >= interval {
				lastKeepAlive = utils.Ptr(time.Now())
				c.sendKeepAlive()
			}
		}
	}
}
