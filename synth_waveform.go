// synth_waveform.go - Oscillator waveforms (sine, sawtooth, square, triangle)

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
	"math"
	"strings"
)

// Waveform selects the oscillator shape shared by every voice.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSawtooth
	WaveSquare
	WaveTriangle
)

var ErrUnknownWaveform = errors.New("unknown waveform")

// Waveforms lists every supported oscillator in selector order.
var Waveforms = [...]Waveform{WaveSine, WaveSawtooth, WaveSquare, WaveTriangle}

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveSawtooth:
		return "sawtooth"
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

func (w Waveform) valid() bool {
	return w >= WaveSine && w <= WaveTriangle
}

// ParseWaveform accepts the waveform names case-insensitively, plus the
// short aliases "saw" and "tri".
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return WaveSine, nil
	case "sawtooth", "saw":
		return WaveSawtooth, nil
	case "square", "sqr":
		return WaveSquare, nil
	case "triangle", "tri":
		return WaveTriangle, nil
	}
	return WaveSine, fmt.Errorf("%w: %q", ErrUnknownWaveform, name)
}

// GenerateWaveform returns the oscillator value at time t (seconds) for a
// note of frequency freq (Hz), scaled by OUTPUT_LEVEL. freq must be positive.
func GenerateWaveform(kind Waveform, t, freq float64) float64 {
	ft := freq * t
	switch kind {
	case WaveSine:
		return OUTPUT_LEVEL * math.Sin(2*math.Pi*ft)
	case WaveSawtooth:
		return OUTPUT_LEVEL * 2 * (ft - math.Floor(0.5+ft))
	case WaveSquare:
		// Zero crossings resolve to +level so t=0 starts high.
		if math.Sin(2*math.Pi*ft) >= 0 {
			return OUTPUT_LEVEL
		}
		return -OUTPUT_LEVEL
	case WaveTriangle:
		return OUTPUT_LEVEL * (2*math.Abs(2*(ft-math.Floor(0.5+ft))) - 1)
	}
	return 0
}
