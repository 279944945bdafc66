// audio_output.go - Audio output driver contract and shared status tracking

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
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_NULL
)

// SampleSource is what an output driver pulls mono float32 samples from.
type SampleSource interface {
	Render(out []float32)
}

// sourceRef lets backends swap their source with one atomic pointer.
type sourceRef struct {
	src SampleSource
}

type AudioOutput interface {
	SetupPlayer(src SampleSource)
	Start() error
	Stop() error
	Close() error
	IsStarted() bool
	Status() OutputStatus
}

type statusNotifier interface {
	SetStatusHandler(fn func(OutputStatus))
}

type OutputState int

const (
	OutputStopped OutputState = iota
	OutputRunning
	OutputFailed
)

func (s OutputState) String() string {
	switch s {
	case OutputStopped:
		return "stopped"
	case OutputRunning:
		return "running"
	case OutputFailed:
		return "failed"
	}
	return fmt.Sprintf("OutputState(%d)", int(s))
}

// OutputStatus is reported to the UI; a failed device never stops the engine.
type OutputStatus struct {
	Backend    string
	State      OutputState
	Err        error
	Overruns   uint64
	Recoveries uint64
}

func (s OutputStatus) String() string {
	msg := fmt.Sprintf("%s: %s", s.Backend, s.State)
	if s.Err != nil {
		msg += fmt.Sprintf(" (%v)", s.Err)
	}
	if s.Overruns > 0 {
		msg += fmt.Sprintf(", %d overruns", s.Overruns)
	}
	return msg
}

func NewAudioOutput(backend int, cfg EngineConfig) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return NewOtoPlayer(cfg.SampleRate, cfg.BlockSize)
	case AUDIO_BACKEND_NULL:
		return NewNullOutput(cfg.SampleRate, cfg.BlockSize), nil
	}
	return nil, fmt.Errorf("unknown audio backend %d", backend)
}

func ParseAudioBackend(name string) (int, error) {
	switch name {
	case "oto":
		return AUDIO_BACKEND_OTO, nil
	case "null", "none":
		return AUDIO_BACKEND_NULL, nil
	}
	return 0, fmt.Errorf("unknown audio backend %q (want oto or null)", name)
}

// outputStatusTracker is shared by the backends. The audio goroutine only
// touches the atomic overrun counter; everything that can block or print
// runs on the control side.
type outputStatusTracker struct {
	mu       sync.Mutex
	status   OutputStatus
	handler  func(OutputStatus)
	overruns atomic.Uint64
	reported uint64 // overruns already passed to the handler
}

func (t *outputStatusTracker) SetStatusHandler(fn func(OutputStatus)) {
	t.mu.Lock()
	t.handler = fn
	t.mu.Unlock()
}

func (t *outputStatusTracker) Status() OutputStatus {
	t.mu.Lock()
	s := t.status
	t.mu.Unlock()
	s.Overruns = t.overruns.Load()
	return s
}

func (t *outputStatusTracker) set(state OutputState, err error) {
	t.mu.Lock()
	t.status.State = state
	t.status.Err = err
	s := t.status
	fn := t.handler
	t.mu.Unlock()
	s.Overruns = t.overruns.Load()
	if fn != nil {
		fn(s)
	}
}

func (t *outputStatusTracker) recovered() {
	t.mu.Lock()
	t.status.Recoveries++
	t.mu.Unlock()
	t.set(OutputRunning, nil)
}

// timeRender runs one render and counts it as an overrun when it took
// longer than the audio it produced.
func (t *outputStatusTracker) timeRender(src SampleSource, buf []float32, sampleRate int) {
	start := time.Now()
	src.Render(buf)
	budget := time.Duration(len(buf)) * time.Second / time.Duration(sampleRate)
	if time.Since(start) > budget {
		t.overruns.Add(1)
	}
}

// reportOverruns notifies the handler about overruns seen since the last call.
func (t *outputStatusTracker) reportOverruns() {
	n := t.overruns.Load()
	t.mu.Lock()
	if n == t.reported {
		t.mu.Unlock()
		return
	}
	t.reported = n
	s := t.status
	fn := t.handler
	t.mu.Unlock()
	s.Overruns = n
	if fn != nil {
		fn(s)
	}
}
