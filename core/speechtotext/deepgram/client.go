package deepgram

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rapidanswer/rapidanswer-core/core/speechtotext"
)

const defaultEventBuffer = 32

// TranscriptionClient streams audio to Deepgram's live-transcription
// websocket and exposes the results as a pull-based RecognitionEvent
// stream. One client serves one connection; create a fresh client per
// session.
type TranscriptionClient struct {
	apiKey string

	conn   *websocket.Conn
	connMu sync.Mutex

	events    chan speechtotext.RecognitionEvent
	closeOnce sync.Once

	lastMsgTs time.Time

	errMu sync.Mutex
	err   error
}

func NewTranscriptionClient(apiKey string) *TranscriptionClient {
	return &TranscriptionClient{apiKey: apiKey}
}

// Events returns the recognition event stream. The channel is closed when
// the upstream websocket closes; Err reports whether the closure was
// unclean.
func (c *TranscriptionClient) Events() <-chan speechtotext.RecognitionEvent {
	return c.events
}

// Err returns the terminal stream error, or nil after a normal close.
func (c *TranscriptionClient) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *TranscriptionClient) setErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		c.err = err
	}
}
