// synth_envelope.go - ADSR envelope state machine

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
	"math"
)

// NoteState is the key state of a voice.
type NoteState int

const (
	NotePressed NoteState = iota
	NoteReleased
)

func (s NoteState) String() string {
	switch s {
	case NotePressed:
		return "pressed"
	case NoteReleased:
		return "released"
	}
	return fmt.Sprintf("NoteState(%d)", int(s))
}

// ReleaseMode chooses the level the release ramp starts from.
//
// ReleaseFromSustain always ramps down from the sustain level, even when the
// key is let go mid-attack; a note released before reaching sustain jumps to
// it first. ReleaseFromCurrent ramps down from the gain the voice actually had
// when the key was released.
type ReleaseMode int

const (
	ReleaseFromSustain ReleaseMode = iota
	ReleaseFromCurrent
)

func (m ReleaseMode) String() string {
	switch m {
	case ReleaseFromSustain:
		return "sustain"
	case ReleaseFromCurrent:
		return "current"
	}
	return fmt.Sprintf("ReleaseMode(%d)", int(m))
}

func ParseReleaseMode(name string) (ReleaseMode, error) {
	switch name {
	case "sustain":
		return ReleaseFromSustain, nil
	case "current":
		return ReleaseFromCurrent, nil
	}
	return ReleaseFromSustain, fmt.Errorf("unknown release mode %q (want sustain or current)", name)
}

// Envelope holds ADSR durations already converted to samples.
// A zero duration makes its phase instantaneous.
type Envelope struct {
	AttackSamples  int
	DecaySamples   int
	ReleaseSamples int
	Sustain        float64
}

func NewEnvelope(attack, decay, sustain, release float64, sampleRate int) Envelope {
	return Envelope{
		AttackSamples:  secondsToSamples(attack, sampleRate),
		DecaySamples:   secondsToSamples(decay, sampleRate),
		ReleaseSamples: secondsToSamples(release, sampleRate),
		Sustain:        clampLevel(sustain),
	}
}

// Gain returns the amplitude multiplier for a voice that has spent age
// samples in state. The release ramp starts at the sustain level.
func (e Envelope) Gain(state NoteState, age int) float64 {
	return e.GainFrom(state, age, e.Sustain)
}

// GainFrom is Gain with an explicit starting level for the release ramp.
func (e Envelope) GainFrom(state NoteState, age int, releaseStart float64) float64 {
	if state == NoteReleased {
		if age < e.ReleaseSamples {
			return releaseStart * (1 - float64(age)/float64(e.ReleaseSamples))
		}
		return 0
	}

	if age < e.AttackSamples {
		return float64(age) / float64(e.AttackSamples)
	}
	if age < e.AttackSamples+e.DecaySamples {
		return 1 - (1-e.Sustain)*float64(age-e.AttackSamples)/float64(e.DecaySamples)
	}
	return e.Sustain
}

// Finished reports whether a voice in state with the given age is silent for good.
func (e Envelope) Finished(state NoteState, age int) bool {
	return state == NoteReleased && age >= e.ReleaseSamples
}

func secondsToSamples(seconds float64, sampleRate int) int {
	if !(seconds > 0) {
		return 0 // also catches NaN
	}
	n := math.Round(seconds * float64(sampleRate))
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func clampLevel(level float64) float64 {
	switch {
	case math.IsNaN(level), level < 0:
		return 0
	case level > 1:
		return 1
	}
	return level
}
