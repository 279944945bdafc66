package main

import (
	"testing"
	"time"
)

func newTestTerminalHost(t *testing.T) (*TerminalHost, *SynthEngine) {
	t.Helper()
	e := newTestEngine(t, DefaultPatch())
	return NewTerminalHost(NewSynthActions(e)), e
}

func TestTerminalHost_HoldTimeout(t *testing.T) {
	h, e := newTestTerminalHost(t)
	start := time.Unix(1000, 0)
	c4 := semitoneFrequency(0, DEFAULT_OCTAVE)

	if h.HandleByte('a', start) {
		t.Fatal("expected a note key not to quit")
	}
	render(e, 1)
	if !e.HasVoice(c4) {
		t.Fatal("expected C4 to sound")
	}

	if got := h.expire(start.Add(TERM_HOLD_TIMEOUT - time.Millisecond)); len(got) != 0 {
		t.Fatalf("expected nothing released before the hold timeout, got %q", string(got))
	}
	if got := h.expire(start.Add(TERM_HOLD_TIMEOUT + time.Millisecond)); string(got) != "a" {
		t.Fatalf("expected 'a' released, got %q", string(got))
	}
	render(e, 1)
	if v := e.Voices(); len(v) != 1 || v[0].State != NoteReleased {
		t.Fatalf("expected C4 releasing, got %+v", v)
	}
}

func TestTerminalHost_AutoRepeatShortensTimeout(t *testing.T) {
	h, _ := newTestTerminalHost(t)
	start := time.Unix(1000, 0)
	h.HandleByte('s', start)
	h.HandleByte('s', start.Add(30*time.Millisecond))
	h.HandleByte('s', start.Add(60*time.Millisecond))

	if !h.actions.Keys().IsHeld('s') {
		t.Fatal("expected repeats to keep 's' held")
	}
	last := start.Add(60 * time.Millisecond)
	if got := h.expire(last.Add(TERM_REPEAT_TIMEOUT + time.Millisecond)); string(got) != "s" {
		t.Fatalf("expected 's' released after the repeat timeout, got %q", string(got))
	}
	if h.actions.Keys().IsHeld('s') {
		t.Fatal("expected 's' released")
	}
}

func TestTerminalHost_ControlKeys(t *testing.T) {
	h, e := newTestTerminalHost(t)
	now := time.Unix(1000, 0)

	h.HandleByte('2', now)
	if w := e.Patch().Waveform; w != WaveSawtooth {
		t.Fatalf("expected sawtooth, got %s", w)
	}
	h.HandleByte('4', now)
	if w := e.Patch().Waveform; w != WaveTriangle {
		t.Fatalf("expected triangle, got %s", w)
	}

	h.HandleByte('x', now)
	if o := h.actions.Keys().Octave(); o != DEFAULT_OCTAVE+1 {
		t.Fatalf("expected octave %d, got %d", DEFAULT_OCTAVE+1, o)
	}
	h.HandleByte('y', now)
	h.HandleByte('y', now)
	if o := h.actions.Keys().Octave(); o != DEFAULT_OCTAVE-1 {
		t.Fatalf("expected octave %d, got %d", DEFAULT_OCTAVE-1, o)
	}

	h.HandleByte('D', now) // shifted keys still play
	if !h.actions.Keys().IsHeld('d') {
		t.Fatal("expected 'D' to press 'd'")
	}
	h.HandleByte(' ', now)
	if len(h.actions.Keys().Held()) != 0 {
		t.Fatal("expected space to release every key")
	}
	if got := h.expire(now.Add(time.Hour)); len(got) != 0 {
		t.Fatalf("expected panic to forget pending keys, got %q", string(got))
	}
}

func TestTerminalHost_Quit(t *testing.T) {
	for _, b := range []byte{0x03, 0x1B} {
		h, _ := newTestTerminalHost(t)
		if !h.HandleByte(b, time.Now()) {
			t.Fatalf("expected byte 0x%02X to quit", b)
		}
		select {
		case <-h.quit:
		default:
			t.Fatalf("expected quit channel closed after 0x%02X", b)
		}
		// Close after quit is harmless
		if err := h.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
}
