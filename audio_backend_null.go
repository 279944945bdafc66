// audio_backend_null.go - Device-less real-time output driver

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
)

// NullOutput pulls blocks at the real-time cadence of a device and throws
// the samples away. It stands in for a sound card on machines without one.
type NullOutput struct {
	outputStatusTracker

	source     atomic.Pointer[sourceRef]
	sampleRate int
	sampleBuf  []float32
	period     time.Duration

	mutex   sync.Mutex
	started bool
	stopCh  chan struct{}
	done    chan struct{}

	blocks atomic.Uint64
}

func NewNullOutput(sampleRate, blockSize int) *NullOutput {
	n := &NullOutput{
		sampleRate: sampleRate,
		sampleBuf:  make([]float32, blockSize),
		period:     time.Duration(blockSize) * time.Second / time.Duration(sampleRate),
	}
	n.status.Backend = "null"
	return n
}

func (n *NullOutput) SetupPlayer(src SampleSource) {
	n.source.Store(&sourceRef{src: src})
}

func (n *NullOutput) Start() error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.source.Load() == nil {
		return errors.New("null output: SetupPlayer not called")
	}
	if n.started {
		return nil
	}
	n.started = true
	n.stopCh = make(chan struct{})
	n.done = make(chan struct{})
	go n.run(n.stopCh, n.done)
	n.set(OutputRunning, nil)
	return nil
}

func (n *NullOutput) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(n.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		if ref := n.source.Load(); ref != nil {
			n.timeRender(ref.src, n.sampleBuf, n.sampleRate)
			n.blocks.Add(1)
		}
	}
}

// Stop waits for the block in flight before returning.
func (n *NullOutput) Stop() error {
	n.mutex.Lock()
	if !n.started {
		n.mutex.Unlock()
		return nil
	}
	n.started = false
	stop, done := n.stopCh, n.done
	n.mutex.Unlock()

	close(stop)
	<-done
	n.reportOverruns()
	n.set(OutputStopped, nil)
	return nil
}

func (n *NullOutput) Close() error {
	err := n.Stop()
	n.source.Store(nil)
	return err
}

func (n *NullOutput) IsStarted() bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.started
}

// Blocks is the number of buffers pulled so far.
func (n *NullOutput) Blocks() uint64 {
	return n.blocks.Load()
}
