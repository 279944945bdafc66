// ui_interface.go - UI frontend abstraction and shared synth actions

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

type UIConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
}

type UIFrontend interface {
	Initialize(config UIConfig) error
	// Show runs the frontend until the user quits.
	Show() error
	Close() error
}

const (
	PIANO_WIDTH  = 660
	PIANO_HEIGHT = 300
)

const (
	UI_FRONTEND_EBITEN = iota
	UI_FRONTEND_TERMINAL
	UI_FRONTEND_NONE
)

func ParseUIFrontend(name string) (int, error) {
	switch name {
	case "ebiten", "window":
		return UI_FRONTEND_EBITEN, nil
	case "term", "terminal":
		return UI_FRONTEND_TERMINAL, nil
	case "none":
		return UI_FRONTEND_NONE, nil
	}
	return 0, fmt.Errorf("unknown UI frontend %q (want ebiten, term or none)", name)
}

func NewUIFrontend(kind int, engine *SynthEngine) (UIFrontend, error) {
	actions := NewSynthActions(engine)
	switch kind {
	case UI_FRONTEND_EBITEN:
		return NewEbitenFrontend(actions)
	case UI_FRONTEND_TERMINAL:
		return NewTerminalHost(actions), nil
	case UI_FRONTEND_NONE:
		return &signalFrontend{}, nil
	}
	return nil, fmt.Errorf("unknown UI frontend %d", kind)
}

// SynthActions is the control surface shared by the frontends: note keys,
// waveform selection and envelope steps.
type SynthActions struct {
	engine *SynthEngine
	keys   *KeyboardState
}

func NewSynthActions(engine *SynthEngine) *SynthActions {
	return &SynthActions{
		engine: engine,
		keys:   NewKeyboardState(engine),
	}
}

func (a *SynthActions) Engine() *SynthEngine { return a.engine }
func (a *SynthActions) Keys() *KeyboardState { return a.keys }

func (a *SynthActions) SelectWaveform(w Waveform) {
	a.engine.SetWaveform(w)
}

func (a *SynthActions) StepAttack(dir int) float64 {
	v := stepSeconds(a.engine.Patch().Attack, dir)
	a.engine.SetAttack(v)
	return v
}

func (a *SynthActions) StepDecay(dir int) float64 {
	v := stepSeconds(a.engine.Patch().Decay, dir)
	a.engine.SetDecay(v)
	return v
}

func (a *SynthActions) StepRelease(dir int) float64 {
	v := stepSeconds(a.engine.Patch().Release, dir)
	a.engine.SetRelease(v)
	return v
}

func (a *SynthActions) StepSustain(dir int) float64 {
	v := clampLevel(a.engine.Patch().Sustain + float64(dir)*SUSTAIN_STEP)
	a.engine.SetSustain(v)
	return v
}

func stepSeconds(current float64, dir int) float64 {
	v := current + float64(dir)*ENV_SECONDS_STEP
	return min(max(v, MIN_ENV_SECONDS), MAX_ENV_SECONDS)
}

// Panic releases every held key and every sounding note.
func (a *SynthActions) Panic() {
	a.keys.ReleaseAll()
	a.engine.AllNotesOff()
}

func (a *SynthActions) HardReset() {
	a.keys.ReleaseAll()
	a.engine.Reset()
}

func (a *SynthActions) PatchText() string {
	return FormatPatch(a.engine.Patch())
}

func (a *SynthActions) ApplyPatchText(text string) error {
	p, err := ParsePatchOnto(a.engine.Patch(), text)
	if err != nil {
		return err
	}
	a.engine.SetPatch(p)
	return nil
}

// signalFrontend has no input of its own; it keeps the process alive for
// scripts and the null backend until SIGINT or SIGTERM.
type signalFrontend struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func (f *signalFrontend) Initialize(config UIConfig) error {
	f.mu.Lock()
	f.ctx, f.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	f.mu.Unlock()
	return nil
}

func (f *signalFrontend) Show() error {
	f.mu.Lock()
	ctx, cancel := f.ctx, f.cancel
	f.mu.Unlock()
	if ctx == nil {
		return fmt.Errorf("frontend not initialized")
	}
	defer cancel()
	<-ctx.Done()
	return nil
}

func (f *signalFrontend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	return nil
}
