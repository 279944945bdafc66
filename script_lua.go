// script_lua.go - Lua note scripting for live playback and offline bounces

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
	"math"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ScriptClock advances time for wait(). Live playback sleeps while the
// device pulls samples; an offline bounce renders the frames itself.
type ScriptClock interface {
	Wait(ctx context.Context, seconds float64) error
}

type RealtimeClock struct{}

func (RealtimeClock) Wait(ctx context.Context, seconds float64) error {
	if !(seconds > 0) || math.IsInf(seconds, 1) {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// BounceClock renders elapsed script time into a WAV bounce.
type BounceClock struct {
	Out *WAVBounce
}

func (c BounceClock) Wait(ctx context.Context, seconds float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Out.AdvanceSeconds(seconds)
}

// ScriptRunner executes Lua note scripts against an engine.
type ScriptRunner struct {
	engine *SynthEngine
	clock  ScriptClock
	L      *lua.LState
}

func NewScriptRunner(engine *SynthEngine, clock ScriptClock) *ScriptRunner {
	r := &ScriptRunner{
		engine: engine,
		clock:  clock,
		L:      lua.NewState(),
	}
	r.register()
	return r
}

func (r *ScriptRunner) Close() {
	r.L.Close()
}

func (r *ScriptRunner) RunFile(ctx context.Context, path string) error {
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (r *ScriptRunner) RunString(ctx context.Context, src string) error {
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (r *ScriptRunner) register() {
	fns := map[string]lua.LGFunction{
		"note_on":       r.luaNoteOn,
		"note_off":      r.luaNoteOff,
		"note":          r.luaNote,
		"set_waveform":  r.luaSetWaveform,
		"set_attack":    r.seconds(r.engine.SetAttack),
		"set_decay":     r.seconds(r.engine.SetDecay),
		"set_sustain":   r.luaSetSustain,
		"set_release":   r.seconds(r.engine.SetRelease),
		"set_patch":     r.luaSetPatch,
		"all_notes_off": r.luaAllNotesOff,
		"wait":          r.luaWait,
		"voices":        r.luaVoices,
	}
	for name, fn := range fns {
		r.L.SetGlobal(name, r.L.NewFunction(fn))
	}
}

func checkFrequency(L *lua.LState, n int) float64 {
	f := float64(L.CheckNumber(n))
	if !validFrequency(f) {
		L.ArgError(n, fmt.Sprintf("invalid frequency %v", f))
	}
	return f
}

func (r *ScriptRunner) luaNoteOn(L *lua.LState) int {
	r.engine.NoteOn(checkFrequency(L, 1))
	return 0
}

func (r *ScriptRunner) luaNoteOff(L *lua.LState) int {
	r.engine.NoteOff(checkFrequency(L, 1))
	return 0
}

// note("A", 4) returns the table frequency for a note name and octave.
func (r *ScriptRunner) luaNote(L *lua.LState) int {
	name := L.CheckString(1)
	octave := L.OptInt(2, DEFAULT_OCTAVE)
	freq, err := NoteFrequency(name, octave)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(freq))
	return 1
}

func (r *ScriptRunner) luaSetWaveform(L *lua.LState) int {
	w, err := ParseWaveform(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	r.engine.SetWaveform(w)
	return 0
}

func (r *ScriptRunner) seconds(set func(float64)) lua.LGFunction {
	return func(L *lua.LState) int {
		v := float64(L.CheckNumber(1))
		if math.IsNaN(v) || v < 0 {
			L.ArgError(1, fmt.Sprintf("invalid duration %v", v))
			return 0
		}
		set(v)
		return 0
	}
}

func (r *ScriptRunner) luaSetSustain(L *lua.LState) int {
	v := float64(L.CheckNumber(1))
	if !(v >= 0 && v <= 1) {
		L.ArgError(1, fmt.Sprintf("sustain %v outside 0..1", v))
		return 0
	}
	r.engine.SetSustain(v)
	return 0
}

func (r *ScriptRunner) luaSetPatch(L *lua.LState) int {
	p, err := ParsePatchOnto(r.engine.Patch(), L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	r.engine.SetPatch(p)
	return 0
}

func (r *ScriptRunner) luaAllNotesOff(L *lua.LState) int {
	r.engine.AllNotesOff()
	return 0
}

func (r *ScriptRunner) luaWait(L *lua.LState) int {
	seconds := float64(L.CheckNumber(1))
	if err := r.clock.Wait(L.Context(), seconds); err != nil {
		L.RaiseError("wait: %v", err)
	}
	return 0
}

// voices reports the registry size as of the last rendered block.
func (r *ScriptRunner) luaVoices(L *lua.LState) int {
	L.Push(lua.LNumber(r.engine.VoiceCount()))
	return 1
}
