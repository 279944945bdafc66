// audio_bounce_wav.go - Offline WAV rendering of the synth output

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
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	BOUNCE_BIT_DEPTH = 16
	WAV_FORMAT_PCM   = 1
	PCM16_FULL_SCALE = 32767
)

// WAVBounce renders a SampleSource offline, as fast as it can, into a mono
// 16-bit PCM WAV stream.
type WAVBounce struct {
	src        SampleSource
	sampleRate int
	enc        *wav.Encoder
	closer     io.Closer
	block      []float32
	intBuf     *audio.IntBuffer
	frames     int64
}

func NewWAVBounce(w io.WriteSeeker, src SampleSource, sampleRate, blockSize int) *WAVBounce {
	return &WAVBounce{
		src:        src,
		sampleRate: sampleRate,
		enc:        wav.NewEncoder(w, sampleRate, BOUNCE_BIT_DEPTH, 1, WAV_FORMAT_PCM),
		block:      make([]float32, blockSize),
		intBuf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 1,
				SampleRate:  sampleRate,
			},
			Data:           make([]int, blockSize),
			SourceBitDepth: BOUNCE_BIT_DEPTH,
		},
	}
}

// CreateWAVBounce creates path and bounces into it; Close closes the file.
func CreateWAVBounce(path string, src SampleSource, sampleRate, blockSize int) (*WAVBounce, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	b := NewWAVBounce(f, src, sampleRate, blockSize)
	b.closer = f
	return b, nil
}

// Advance renders frames samples in block-sized calls, the way a device
// would request them.
func (b *WAVBounce) Advance(frames int) error {
	for frames > 0 {
		n := min(frames, len(b.block))
		block := b.block[:n]
		b.src.Render(block)
		b.intBuf.Data = b.intBuf.Data[:n]
		for i, v := range block {
			b.intBuf.Data[i] = floatToPCM16(v)
		}
		if err := b.enc.Write(b.intBuf); err != nil {
			return fmt.Errorf("wav: write: %w", err)
		}
		b.frames += int64(n)
		frames -= n
	}
	return nil
}

// AdvanceSeconds renders round(seconds*rate) frames.
func (b *WAVBounce) AdvanceSeconds(seconds float64) error {
	return b.Advance(secondsToSamples(seconds, b.sampleRate))
}

// Frames is the number of samples written so far.
func (b *WAVBounce) Frames() int64 {
	return b.frames
}

func (b *WAVBounce) Close() error {
	err := b.enc.Close()
	if b.closer != nil {
		if cerr := b.closer.Close(); err == nil {
			err = cerr
		}
		b.closer = nil
	}
	if err != nil {
		return fmt.Errorf("wav: close: %w", err)
	}
	return nil
}

// floatToPCM16 is the only place the signal is clamped; the engine output
// may exceed full scale when many voices sum.
func floatToPCM16(v float32) int {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return 0
	case f > 1:
		f = 1
	case f < -1:
		f = -1
	}
	return int(math.Round(f * PCM16_FULL_SCALE))
}
