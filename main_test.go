package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := opts.engineConfig()
	if err != nil {
		t.Fatalf("engineConfig: %v", err)
	}
	if cfg != DefaultEngineConfig() {
		t.Fatalf("expected default config, got %+v", cfg)
	}
	if opts.ui != "ebiten" || opts.backend != "oto" {
		t.Fatalf("expected ebiten/oto defaults, got %s/%s", opts.ui, opts.backend)
	}
}

func TestParseOptions_PatchOverridesFlags(t *testing.T) {
	opts, err := parseOptions([]string{
		"-rate", "44100", "-block", "512",
		"-wave", "saw", "-attack", "0.3", "-sustain", "0.2",
		"-release-mode", "current",
		"-patch", "attack=0.05 wave=tri",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := opts.engineConfig()
	if err != nil {
		t.Fatalf("engineConfig: %v", err)
	}
	if cfg.SampleRate != 44100 || cfg.BlockSize != 512 {
		t.Fatalf("unexpected rate/block %d/%d", cfg.SampleRate, cfg.BlockSize)
	}
	want := Patch{
		Waveform:    WaveTriangle,
		Attack:      0.05,
		Decay:       DEFAULT_DECAY,
		Sustain:     0.2,
		Release:     DEFAULT_RELEASE,
		ReleaseMode: ReleaseFromCurrent,
	}
	if cfg.Patch != want {
		t.Fatalf("expected %+v, got %+v", want, cfg.Patch)
	}
}

func TestParseOptions_Errors(t *testing.T) {
	if _, err := parseOptions([]string{"-bounce", "out.wav"}); err == nil {
		t.Fatal("expected -bounce without -script to fail")
	}
	if _, err := parseOptions([]string{"song.lua"}); err == nil {
		t.Fatal("expected a stray argument to fail")
	}
	if _, err := parseOptions([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}

	for _, args := range [][]string{
		{"-wave", "noise"},
		{"-release-mode", "later"},
		{"-sustain", "1.2"},
		{"-patch", "nonsense"},
	} {
		opts, err := parseOptions(args)
		if err != nil {
			t.Fatalf("%v: unexpected parse error %v", args, err)
		}
		if _, err := opts.engineConfig(); err == nil {
			t.Fatalf("%v: expected engineConfig to fail", args)
		}
	}
}

func TestBounceScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "tune.lua")
	if err := writeFile(script, `note_on(note("E", 4)) wait(0.05) note_off(note("E", 4))`); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultEngineConfig()
	e, err := NewSynthEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "tune.wav")
	if err := bounceScript(e, cfg, script, out); err != nil {
		t.Fatalf("bounceScript: %v", err)
	}
	_, data := decodeWAV(t, out)
	wantMin := 2400 + DEFAULT_RELEASE*DEFAULT_SAMPLE_RATE
	if float64(len(data)) < wantMin {
		t.Fatalf("expected at least %v samples including the release tail, got %d", wantMin, len(data))
	}
	if e.VoiceCount() != 0 {
		t.Fatalf("expected the release tail to finish every voice, got %d", e.VoiceCount())
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
