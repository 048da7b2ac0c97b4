package orchestration

import "sync/atomic"

// bargeInMonitor decides when fresh user speech should interrupt the
// assistant. An interruption fires at most once per utterance and only
// while the assistant is believed to be speaking; the belief is set when
// a turn starts producing audio and cleared on cancellation or when the
// client reports playback has drained.
type bargeInMonitor struct {
	playing     atomic.Bool
	interrupted atomic.Bool
}

// NewUtterance re-arms the monitor when the user starts speaking again.
func (m *bargeInMonitor) NewUtterance() {
	m.interrupted.Store(false)
}

func (m *bargeInMonitor) TurnStarted() {
	m.playing.Store(true)
}

func (m *bargeInMonitor) PlaybackEnded() {
	m.playing.Store(false)
}

// ShouldInterrupt reports whether the current speech activity warrants
// cutting the assistant off. The swap guarantees at most one positive
// answer per utterance even under concurrent callers.
func (m *bargeInMonitor) ShouldInterrupt() bool {
	if !m.playing.Load() {
		return false
	}
	return m.interrupted.CompareAndSwap(false, true)
}
