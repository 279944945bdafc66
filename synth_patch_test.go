package main

import (
	"errors"
	"testing"
)

func TestParsePatch_Defaults(t *testing.T) {
	p, err := ParsePatch("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != DefaultPatch() {
		t.Fatalf("expected default patch, got %+v", p)
	}
}

func TestParsePatch_Fields(t *testing.T) {
	p, err := ParsePatch("wave=saw, attack=0.05\ndecay=0.2\tSUSTAIN=0.5 release=0.3 mode=current")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Patch{
		Waveform:    WaveSawtooth,
		Attack:      0.05,
		Decay:       0.2,
		Sustain:     0.5,
		Release:     0.3,
		ReleaseMode: ReleaseFromCurrent,
	}
	if p != want {
		t.Fatalf("expected %+v, got %+v", want, p)
	}
}

func TestParsePatchOnto_KeepsBase(t *testing.T) {
	base := DefaultPatch()
	base.Waveform = WaveTriangle
	base.Release = 0.8
	p, err := ParsePatchOnto(base, "attack=0.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Waveform != WaveTriangle || p.Release != 0.8 || p.Attack != 0.2 {
		t.Fatalf("expected base fields kept, got %+v", p)
	}
}

func TestParsePatch_Errors(t *testing.T) {
	cases := []string{
		"wave",
		"wave=noise",
		"attack=fast",
		"attack=NaN",
		"sustain=1.5",
		"sustain=-0.1",
		"mode=never",
		"volume=1",
	}
	for _, text := range cases {
		if _, err := ParsePatch(text); !errors.Is(err, ErrBadPatch) {
			t.Fatalf("ParsePatch(%q): expected ErrBadPatch, got %v", text, err)
		}
	}
	if _, err := ParsePatch("wave=noise"); !errors.Is(err, ErrUnknownWaveform) {
		t.Fatalf("expected the waveform error to be wrapped, got %v", err)
	}
}

func TestParsePatch_NegativeDurationsClamp(t *testing.T) {
	p, err := ParsePatch("attack=-1 release=-0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Attack != 0 || p.Release != 0 {
		t.Fatalf("expected negative durations clamped to 0, got %+v", p)
	}
}

func TestFormatPatch_ParsesBack(t *testing.T) {
	p := Patch{
		Waveform:    WaveSquare,
		Attack:      0.123,
		Decay:       0.01,
		Sustain:     0.35,
		Release:     1,
		ReleaseMode: ReleaseFromCurrent,
	}
	text := FormatPatch(p)
	if text != "wave=square attack=0.123 decay=0.01 sustain=0.35 release=1 mode=current" {
		t.Fatalf("unexpected patch text %q", text)
	}
	got, err := ParsePatch(text)
	if err != nil || got != p {
		t.Fatalf("expected %+v, got %+v (%v)", p, got, err)
	}
}
