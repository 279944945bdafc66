//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

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
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}

type OtoPlayer struct {
	outputStatusTracker

	ctx        *oto.Context
	player     *oto.Player
	source     atomic.Pointer[sourceRef] // Atomic for lock-free Read()
	sampleBuf  []float32                 // Pre-allocated sample buffer
	sampleRate int
	started    bool
	mutex      sync.Mutex // Only for setup/control operations
	stopCh     chan struct{}
	watchDone  chan struct{}
}

func NewOtoPlayer(sampleRate, blockSize int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(blockSize) * time.Second / time.Duration(sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &OtoPlayer{
		ctx:        ctx,
		sampleRate: sampleRate,
		sampleBuf:  make([]float32, OTO_PLAYER_BLOCKS*blockSize),
	}
	p.status.Backend = "oto"
	return p, nil
}

func (op *OtoPlayer) SetupPlayer(src SampleSource) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.source.Store(&sourceRef{src: src})
	op.player = op.newPlayer()
}

// newPlayer pins oto's read size to sampleBuf so Read never has to grow it.
func (op *OtoPlayer) newPlayer() *oto.Player {
	p := op.ctx.NewPlayer(op)
	p.SetBufferSize(len(op.sampleBuf) * 4)
	return p
}

// Read is called by oto on its audio goroutine.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	ref := op.source.Load()
	numSamples := len(p) / 4
	if ref == nil || numSamples == 0 {
		clear(p)
		return len(p), nil
	}

	// Requests larger than sampleBuf are rendered in chunks.
	out := p
	for numSamples > 0 {
		samples := op.sampleBuf[:min(numSamples, len(op.sampleBuf))]
		op.timeRender(ref.src, samples, op.sampleRate)

		// Little-endian only, see le_check.go
		out = out[copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*4)):]
		numSamples -= len(samples)
	}
	clear(out)
	return len(p), nil
}

func (op *OtoPlayer) Start() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player == nil {
		return errors.New("oto: SetupPlayer not called")
	}
	if op.started {
		return nil
	}
	op.player.Play()
	op.started = true
	op.stopCh = make(chan struct{})
	op.watchDone = make(chan struct{})
	go op.watch(op.stopCh, op.watchDone)
	op.set(OutputRunning, nil)
	return nil
}

type otoWatchStep int

const (
	otoWatchIdle otoWatchStep = iota
	otoWatchFail
	otoWatchRebuild
)

// nextOtoWatchStep decides what the watchdog does with the current errors.
// oto errors are sticky and a process may only create one context, so a
// context error is final. A player error on a healthy context is recovered
// by building a new player.
func nextOtoWatchStep(ctxErr, playerErr error, failed bool) otoWatchStep {
	switch {
	case ctxErr != nil && !failed:
		return otoWatchFail
	case ctxErr != nil:
		return otoWatchIdle
	case playerErr != nil:
		return otoWatchRebuild
	}
	return otoWatchIdle
}

// watch surfaces device errors as status and replaces a failed player.
func (op *OtoPlayer) watch(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(OUTPUT_WATCHDOG_PERIOD)
	defer ticker.Stop()

	failed := false
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		op.reportOverruns()

		op.mutex.Lock()
		ctxErr := op.ctx.Err()
		var playerErr error
		if op.player != nil {
			playerErr = op.player.Err()
		}
		switch nextOtoWatchStep(ctxErr, playerErr, failed) {
		case otoWatchFail:
			failed = true
			op.mutex.Unlock()
			op.set(OutputFailed, ctxErr)
		case otoWatchRebuild:
			_ = op.player.Close()
			op.player = op.newPlayer()
			op.player.Play()
			op.mutex.Unlock()
			op.set(OutputFailed, playerErr)
			op.recovered()
		default:
			op.mutex.Unlock()
		}
	}
}

func (op *OtoPlayer) Stop() error {
	op.mutex.Lock()
	if !op.started || op.player == nil {
		op.mutex.Unlock()
		return nil
	}
	op.player.Pause()
	op.started = false
	stop, done := op.stopCh, op.watchDone
	op.mutex.Unlock()

	close(stop)
	<-done
	op.set(OutputStopped, nil)
	return nil
}

func (op *OtoPlayer) Close() error {
	if err := op.Stop(); err != nil {
		return err
	}
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.source.Store(nil)
	if op.player != nil {
		err := op.player.Close()
		op.player = nil
		return err
	}
	return nil
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
