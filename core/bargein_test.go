package orchestration

import "testing"

func TestBargeInFiresOncePerUtterance(t *testing.T) {
	monitor := &bargeInMonitor{}
	monitor.TurnStarted()
	monitor.NewUtterance()

	if !monitor.ShouldInterrupt() {
		t.Fatalf("expected first speech during playback to interrupt")
	}
	if monitor.ShouldInterrupt() {
		t.Fatalf("expected repeated speech in the same utterance to be ignored")
	}

	monitor.TurnStarted()
	monitor.NewUtterance()
	if !monitor.ShouldInterrupt() {
		t.Fatalf("expected a fresh utterance to re-arm the interrupt")
	}
}

func TestBargeInRequiresPlayback(t *testing.T) {
	monitor := &bargeInMonitor{}
	monitor.NewUtterance()

	if monitor.ShouldInterrupt() {
		t.Fatalf("expected no interrupt while the assistant is silent")
	}

	monitor.TurnStarted()
	monitor.PlaybackEnded()
	if monitor.ShouldInterrupt() {
		t.Fatalf("expected no interrupt after playback drained")
	}
}
