// synth_patch.go - Patch parameters and their text form

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
	"strconv"
	"strings"
)

// Patch is the user-facing set of synth parameters.
type Patch struct {
	Waveform    Waveform
	Attack      float64 // seconds
	Decay       float64 // seconds
	Sustain     float64 // level 0..1
	Release     float64 // seconds
	ReleaseMode ReleaseMode
}

var ErrBadPatch = errors.New("bad patch")

func DefaultPatch() Patch {
	return Patch{
		Waveform:    WaveSine,
		Attack:      DEFAULT_ATTACK,
		Decay:       DEFAULT_DECAY,
		Sustain:     DEFAULT_SUSTAIN,
		Release:     DEFAULT_RELEASE,
		ReleaseMode: ReleaseFromSustain,
	}
}

func (p Patch) normalized() Patch {
	if !p.Waveform.valid() {
		p.Waveform = WaveSine
	}
	if p.ReleaseMode != ReleaseFromCurrent {
		p.ReleaseMode = ReleaseFromSustain
	}
	p.Sustain = clampLevel(p.Sustain)
	p.Attack = nonNegative(p.Attack)
	p.Decay = nonNegative(p.Decay)
	p.Release = nonNegative(p.Release)
	return p
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// FormatPatch renders p as space separated key=value pairs, the same text
// ParsePatch accepts.
func FormatPatch(p Patch) string {
	return fmt.Sprintf("wave=%s attack=%s decay=%s sustain=%s release=%s mode=%s",
		p.Waveform,
		strconv.FormatFloat(p.Attack, 'g', -1, 64),
		strconv.FormatFloat(p.Decay, 'g', -1, 64),
		strconv.FormatFloat(p.Sustain, 'g', -1, 64),
		strconv.FormatFloat(p.Release, 'g', -1, 64),
		p.ReleaseMode)
}

// ParsePatch reads key=value pairs on top of DefaultPatch. Fields may be
// separated by spaces, commas or newlines; missing keys keep their defaults.
func ParsePatch(text string) (Patch, error) {
	return ParsePatchOnto(DefaultPatch(), text)
}

func ParsePatchOnto(base Patch, text string) (Patch, error) {
	p := base
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\r' || r == '\t'
	})
	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return base, fmt.Errorf("%w: %q is not key=value", ErrBadPatch, field)
		}
		key = strings.ToLower(key)
		switch key {
		case "wave", "waveform":
			w, err := ParseWaveform(value)
			if err != nil {
				return base, fmt.Errorf("%w: %w", ErrBadPatch, err)
			}
			p.Waveform = w
		case "mode", "release-mode":
			m, err := ParseReleaseMode(value)
			if err != nil {
				return base, fmt.Errorf("%w: %w", ErrBadPatch, err)
			}
			p.ReleaseMode = m
		case "attack", "decay", "sustain", "release":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return base, fmt.Errorf("%w: %s=%q is not a number", ErrBadPatch, key, value)
			}
			switch key {
			case "attack":
				p.Attack = v
			case "decay":
				p.Decay = v
			case "sustain":
				if v < 0 || v > 1 {
					return base, fmt.Errorf("%w: sustain %v outside 0..1", ErrBadPatch, v)
				}
				p.Sustain = v
			case "release":
				p.Release = v
			}
		default:
			return base, fmt.Errorf("%w: unknown key %q", ErrBadPatch, key)
		}
	}
	return p.normalized(), nil
}
