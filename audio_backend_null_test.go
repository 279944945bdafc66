package main

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countingSource counts render calls and frames.
type countingSource struct {
	calls  atomic.Int64
	frames atomic.Int64
	delay  time.Duration
}

func (s *countingSource) Render(out []float32) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.calls.Add(1)
	s.frames.Add(int64(len(out)))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestNullOutput_PullsBlocks(t *testing.T) {
	n := NewNullOutput(testRate, 128)
	if err := n.Start(); err == nil {
		t.Fatal("expected Start to fail without a source")
	}
	src := &countingSource{}
	n.SetupPlayer(src)
	if err := n.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := n.Start(); err != nil {
		t.Fatalf("expected a second Start to be a no-op, got %v", err)
	}
	waitFor(t, "three blocks", func() bool { return n.Blocks() >= 3 })
	if got := src.frames.Load(); got != src.calls.Load()*128 {
		t.Fatalf("expected block-sized renders, got %d frames in %d calls", got, src.calls.Load())
	}
	if s := n.Status(); s.Backend != "null" || s.State != OutputRunning {
		t.Fatalf("unexpected status %s", s)
	}

	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n.IsStarted() || n.Status().State != OutputStopped {
		t.Fatalf("expected stopped output, got %s", n.Status())
	}
	calls := src.calls.Load()
	time.Sleep(10 * time.Millisecond)
	if src.calls.Load() != calls {
		t.Fatal("expected no renders after Close")
	}
}

func TestNullOutput_ReportsOverruns(t *testing.T) {
	// 64 frames at 48kHz is a 1.3ms budget.
	n := NewNullOutput(testRate, 64)
	src := &countingSource{delay: 5 * time.Millisecond}
	n.SetupPlayer(src)

	reports := make(chan OutputStatus, 16)
	n.SetStatusHandler(func(s OutputStatus) {
		select {
		case reports <- s:
		default:
		}
	})
	if err := n.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, "an overrun", func() bool { return n.Status().Overruns > 0 })
	if err := n.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	var sawOverrun bool
	for len(reports) > 0 {
		if s := <-reports; s.Overruns > 0 {
			sawOverrun = true
		}
	}
	if !sawOverrun {
		t.Fatal("expected the handler to hear about overruns")
	}
}

func TestParseAudioBackend(t *testing.T) {
	cases := map[string]int{"oto": AUDIO_BACKEND_OTO, "null": AUDIO_BACKEND_NULL, "none": AUDIO_BACKEND_NULL}
	for name, want := range cases {
		got, err := ParseAudioBackend(name)
		if err != nil || got != want {
			t.Fatalf("ParseAudioBackend(%q): expected %d, got %d (%v)", name, want, got, err)
		}
	}
	if _, err := ParseAudioBackend("alsa"); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
	if _, err := NewAudioOutput(99, DefaultEngineConfig()); err == nil {
		t.Fatal("expected an error for an unknown backend id")
	}
}

func TestOutputStatus_String(t *testing.T) {
	s := OutputStatus{Backend: "oto", State: OutputFailed, Err: errOutputTest, Overruns: 3}
	if got := s.String(); got != "oto: failed (device gone), 3 overruns" {
		t.Fatalf("unexpected status text %q", got)
	}
}

var errOutputTest = errors.New("device gone")
