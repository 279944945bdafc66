package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newBounceRunner(t *testing.T) (*ScriptRunner, *SynthEngine, *WAVBounce) {
	t.Helper()
	e := newTestEngine(t, DefaultPatch())
	b, err := CreateWAVBounce(filepath.Join(t.TempDir(), "script.wav"), e, testRate, 256)
	if err != nil {
		t.Fatalf("CreateWAVBounce: %v", err)
	}
	r := NewScriptRunner(e, BounceClock{Out: b})
	t.Cleanup(func() {
		r.Close()
		b.Close()
	})
	return r, e, b
}

func TestScriptRunner_PlaysNotesOffline(t *testing.T) {
	r, e, b := newBounceRunner(t)
	script := `
set_patch("wave=square attack=0")
local a = note("A", 4)
note_on(a)
note_on(note("C", 5))
wait(0.01)
assert(voices() == 2, "expected two voices")
note_off(a)
all_notes_off()
wait(0.2)
assert(voices() == 0, "expected silence")
`
	if err := r.RunString(context.Background(), script); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if b.Frames() != 480+9600 {
		t.Fatalf("expected %d bounced frames, got %d", 480+9600, b.Frames())
	}
	if p := e.Patch(); p.Waveform != WaveSquare || p.Attack != 0 {
		t.Fatalf("expected the script patch, got %+v", p)
	}
}

func TestScriptRunner_Setters(t *testing.T) {
	r, e, _ := newBounceRunner(t)
	script := `
set_waveform("tri")
set_attack(0.2)
set_decay(0.3)
set_sustain(0.4)
set_release(0.5)
`
	if err := r.RunString(context.Background(), script); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	want := Patch{Waveform: WaveTriangle, Attack: 0.2, Decay: 0.3, Sustain: 0.4, Release: 0.5}
	if p := e.Patch(); p != want {
		t.Fatalf("expected %+v, got %+v", want, p)
	}
}

func TestScriptRunner_RejectsBadArguments(t *testing.T) {
	cases := []string{
		`note_on(0)`,
		`note_on(-440)`,
		`note_on("loud")`,
		`note_off(-1)`,
		`note("H", 4)`,
		`note("C", 12)`,
		`set_waveform("noise")`,
		`set_sustain(1.5)`,
		`set_attack(-1)`,
		`set_patch("volume=11")`,
		`wait("soon")`,
	}
	for _, src := range cases {
		r, e, _ := newBounceRunner(t)
		if err := r.RunString(context.Background(), src); err == nil {
			t.Fatalf("%s: expected a script error", src)
		}
		render(e, 1)
		if e.VoiceCount() != 0 {
			t.Fatalf("%s: expected no voice to reach the engine", src)
		}
	}
}

func TestScriptRunner_Cancelled(t *testing.T) {
	e := newTestEngine(t, DefaultPatch())
	r := NewScriptRunner(e, RealtimeClock{})
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := r.RunString(ctx, `note_on(440) wait(10)`)
	if err == nil {
		t.Fatal("expected the cancelled script to fail")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("expected wait to return when the context is done")
	}
	if !strings.Contains(err.Error(), "script") {
		t.Fatalf("expected a script error, got %v", err)
	}
}

func TestRealtimeClock_Wait(t *testing.T) {
	c := RealtimeClock{}
	if err := c.Wait(context.Background(), 0); err != nil {
		t.Fatalf("expected zero wait to succeed, got %v", err)
	}
	start := time.Now()
	if err := c.Wait(context.Background(), 0.01); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("expected Wait to sleep")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Wait(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
