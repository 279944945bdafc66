// synth_engine.go - Polyphonic voice registry and mixer

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
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// EngineConfig is fixed for the lifetime of an engine.
type EngineConfig struct {
	SampleRate int
	BlockSize  int
	Patch      Patch
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SampleRate: DEFAULT_SAMPLE_RATE,
		BlockSize:  DEFAULT_BLOCK_SIZE,
		Patch:      DefaultPatch(),
	}
}

// EngineStats are monotonically increasing counters.
type EngineStats struct {
	FramesRendered  uint64
	DroppedCommands uint64 // command ring was full
	DroppedNotes    uint64 // registry full and nothing releasing
	StolenVoices    uint64
	Overruns        uint64 // renders slower than their buffer period
}

// SynthEngine owns the voice registry and mixes it on demand.
//
// NoteOn, NoteOff and the parameter setters may be called from any goroutine.
// Render is called by a single audio goroutine and never blocks: note
// changes reach it through a lock-free command ring and parameters through an
// atomically swapped snapshot.
type SynthEngine struct {
	sampleRate int
	blockSize  int

	params atomic.Pointer[SynthParams]

	producerMu sync.Mutex // serialises producers only
	commands   *commandRing

	// Render-owned state
	renderMu sync.Mutex
	voices   [MAX_VOICES]Voice
	active   int
	frames   atomic.Uint64

	status runtimeStatusStore

	droppedCommands atomic.Uint64
	droppedNotes    atomic.Uint64
	stolenVoices    atomic.Uint64

	lifecycleMu sync.Mutex // serialises AttachOutput, Start and Stop

	// outputMu guards the fields below and is never held across a backend
	// call, so status handlers may query the engine.
	outputMu      sync.Mutex
	output        AudioOutput
	started       bool
	closed        bool
	statusHandler atomic.Pointer[func(OutputStatus)]
}

func NewSynthEngine(cfg EngineConfig) (*SynthEngine, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("invalid block size %d", cfg.BlockSize)
	}
	e := &SynthEngine{
		sampleRate: cfg.SampleRate,
		blockSize:  cfg.BlockSize,
		commands:   newCommandRing(COMMAND_RING_SIZE),
	}
	e.params.Store(newSynthParams(cfg.SampleRate, cfg.Patch))
	return e, nil
}

func (e *SynthEngine) SampleRate() int { return e.sampleRate }
func (e *SynthEngine) BlockSize() int  { return e.blockSize }

// NoteOn starts a note. Pressing a releasing note re-attacks it without
// resetting its waveform phase; pressing a held note does nothing.
// freq must be a positive finite frequency.
func (e *SynthEngine) NoteOn(freq float64) {
	if !validFrequency(freq) {
		panic(fmt.Sprintf("synth: NoteOn with invalid frequency %v", freq))
	}
	e.enqueue(noteCommand{kind: cmdNoteOn, key: KeyForFrequency(freq), freq: freq})
}

// NoteOff starts the release of a held note. Unknown or already released
// notes are ignored.
func (e *SynthEngine) NoteOff(freq float64) {
	if !validFrequency(freq) {
		return
	}
	e.enqueue(noteCommand{kind: cmdNoteOff, key: KeyForFrequency(freq), freq: freq})
}

// AllNotesOff releases every held note.
func (e *SynthEngine) AllNotesOff() {
	e.enqueue(noteCommand{kind: cmdAllNotesOff})
}

// Reset drops every voice at the next render and restores the default patch.
func (e *SynthEngine) Reset() {
	e.enqueue(noteCommand{kind: cmdReset})
	e.SetPatch(DefaultPatch())
}

func (e *SynthEngine) enqueue(cmd noteCommand) {
	e.producerMu.Lock()
	ok := e.commands.push(cmd)
	e.producerMu.Unlock()
	if !ok {
		if e.droppedCommands.Add(1) == 1 {
			fmt.Fprintf(os.Stderr, "synth: command ring full, dropping note events\n")
		}
	}
}

// Parameter setters. Every voice picks the new value up at its next sample,
// including voices in the middle of an attack or release.

func (e *SynthEngine) SetWaveform(w Waveform) {
	e.updatePatch(func(p *Patch) { p.Waveform = w })
}

func (e *SynthEngine) SetAttack(seconds float64) {
	e.updatePatch(func(p *Patch) { p.Attack = seconds })
}

func (e *SynthEngine) SetDecay(seconds float64) {
	e.updatePatch(func(p *Patch) { p.Decay = seconds })
}

func (e *SynthEngine) SetSustain(level float64) {
	e.updatePatch(func(p *Patch) { p.Sustain = level })
}

func (e *SynthEngine) SetRelease(seconds float64) {
	e.updatePatch(func(p *Patch) { p.Release = seconds })
}

func (e *SynthEngine) SetReleaseMode(m ReleaseMode) {
	e.updatePatch(func(p *Patch) { p.ReleaseMode = m })
}

func (e *SynthEngine) SetPatch(patch Patch) {
	e.updatePatch(func(p *Patch) { *p = patch })
}

func (e *SynthEngine) Patch() Patch {
	return e.params.Load().Patch
}

func (e *SynthEngine) updatePatch(fn func(*Patch)) {
	for {
		old := e.params.Load()
		p := old.Patch
		fn(&p)
		if e.params.CompareAndSwap(old, newSynthParams(e.sampleRate, p)) {
			return
		}
	}
}

// Render fills out with the mix of every active voice. Samples are not
// clamped. Commands queued before the call are applied at frame 0.
func (e *SynthEngine) Render(out []float32) {
	clear(out)
	if !e.renderMu.TryLock() {
		return // Stop is tearing the output down
	}
	defer e.renderMu.Unlock()

	p := e.params.Load()
	e.applyCommands(p)

	for i := 0; i < e.active; {
		if e.voices[i].render(out, p) {
			e.removeVoice(i)
			continue
		}
		i++
	}

	frames := e.frames.Add(uint64(len(out)))
	e.status.tryPublishVoices(e.voices[:e.active], frames)
}

func (e *SynthEngine) applyCommands(p *SynthParams) {
	for {
		cmd, ok := e.commands.pop()
		if !ok {
			return
		}
		switch cmd.kind {
		case cmdNoteOn:
			e.noteOn(cmd.key, cmd.freq)
		case cmdNoteOff:
			if i := e.findVoice(cmd.key); i >= 0 && e.voices[i].state == NotePressed {
				e.voices[i].release(p)
			}
		case cmdAllNotesOff:
			for i := 0; i < e.active; i++ {
				if e.voices[i].state == NotePressed {
					e.voices[i].release(p)
				}
			}
		case cmdReset:
			e.active = 0
		}
	}
}

func (e *SynthEngine) noteOn(key VoiceKey, freq float64) {
	if i := e.findVoice(key); i >= 0 {
		if e.voices[i].state == NoteReleased {
			e.voices[i].press()
		}
		return
	}
	if e.active == len(e.voices) && !e.stealVoice() {
		e.droppedNotes.Add(1)
		return
	}
	e.voices[e.active] = Voice{key: key, frequency: freq, state: NotePressed}
	e.active++
}

// stealVoice frees the slot of the voice furthest into its release.
func (e *SynthEngine) stealVoice() bool {
	victim := -1
	for i := 0; i < e.active; i++ {
		v := &e.voices[i]
		if v.state == NoteReleased && (victim < 0 || v.age > e.voices[victim].age) {
			victim = i
		}
	}
	if victim < 0 {
		return false
	}
	e.removeVoice(victim)
	e.stolenVoices.Add(1)
	return true
}

func (e *SynthEngine) findVoice(key VoiceKey) int {
	for i := 0; i < e.active; i++ {
		if e.voices[i].key == key {
			return i
		}
	}
	return -1
}

func (e *SynthEngine) removeVoice(i int) {
	e.active--
	e.voices[i] = e.voices[e.active]
	e.voices[e.active] = Voice{}
}

// HasVoice reports whether freq was registered as of the last render.
func (e *SynthEngine) HasVoice(freq float64) bool {
	return e.status.hasVoice(KeyForFrequency(freq))
}

// VoiceCount is the number of registered voices as of the last render.
func (e *SynthEngine) VoiceCount() int {
	return e.status.count()
}

func (e *SynthEngine) Voices() []VoiceInfo {
	snap := e.status.snapshot()
	return snap.Voices()
}

func (e *SynthEngine) Stats() EngineStats {
	s := EngineStats{
		FramesRendered:  e.frames.Load(),
		DroppedCommands: e.droppedCommands.Load(),
		DroppedNotes:    e.droppedNotes.Load(),
		StolenVoices:    e.stolenVoices.Load(),
	}
	s.Overruns = e.OutputStatus().Overruns
	return s
}

// AttachOutput connects the driver that will pull samples from the engine.
func (e *SynthEngine) AttachOutput(out AudioOutput) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	e.outputMu.Lock()
	if e.output != nil {
		e.outputMu.Unlock()
		return errors.New("audio output already attached")
	}
	e.output = out
	e.outputMu.Unlock()

	out.SetupPlayer(e)
	if n, ok := out.(statusNotifier); ok {
		n.SetStatusHandler(e.onOutputStatus)
	}
	return nil
}

// SetStatusHandler installs a callback for non-fatal output status changes
// (device lost, recovered, render overruns).
func (e *SynthEngine) SetStatusHandler(fn func(OutputStatus)) {
	if fn == nil {
		e.statusHandler.Store(nil)
		return
	}
	e.statusHandler.Store(&fn)
}

// onOutputStatus runs on whichever goroutine the output reports from.
func (e *SynthEngine) onOutputStatus(status OutputStatus) {
	e.status.setOutput(status)
	if fn := e.statusHandler.Load(); fn != nil {
		(*fn)(status)
	}
}

func (e *SynthEngine) OutputStatus() OutputStatus {
	e.outputMu.Lock()
	out := e.output
	e.outputMu.Unlock()
	if out == nil {
		return OutputStatus{State: OutputStopped}
	}
	return out.Status()
}

func (e *SynthEngine) outputState() (out AudioOutput, started, closed bool) {
	e.outputMu.Lock()
	defer e.outputMu.Unlock()
	return e.output, e.started, e.closed
}

func (e *SynthEngine) Start() error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	out, started, closed := e.outputState()
	if out == nil {
		return errors.New("no audio output attached")
	}
	if closed {
		return errors.New("audio output already closed")
	}
	if started {
		return nil
	}
	if err := out.Start(); err != nil {
		return fmt.Errorf("start audio output: %w", err)
	}
	e.outputMu.Lock()
	e.started = true
	e.outputMu.Unlock()
	return nil
}

// Stop halts and closes the output. It waits for a render that is in
// flight on the audio goroutine before the device is released; renders that
// arrive meanwhile produce silence.
func (e *SynthEngine) Stop() error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	out, started, closed := e.outputState()
	if out == nil || closed {
		return nil
	}
	e.renderMu.Lock()
	defer e.renderMu.Unlock()

	var errs []error
	if started {
		errs = append(errs, out.Stop())
	}
	errs = append(errs, out.Close())

	e.outputMu.Lock()
	e.started = false
	e.closed = true
	e.outputMu.Unlock()
	return errors.Join(errs...)
}

func (e *SynthEngine) IsStarted() bool {
	e.outputMu.Lock()
	defer e.outputMu.Unlock()
	return e.started
}
