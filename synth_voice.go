// synth_voice.go - Per-note voice state and sample rendering

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

import "math"

// VoiceKey identifies a voice by its frequency quantised to millihertz, so
// the registry never compares floating-point keys.
type VoiceKey int64

func KeyForFrequency(freq float64) VoiceKey {
	return VoiceKey(math.Round(freq * FREQ_KEY_SCALE))
}

func validFrequency(freq float64) bool {
	return freq > 0 && !math.IsInf(freq, 1)
}

// Voice is one sounding or releasing note. It is owned by the render path.
type Voice struct {
	key       VoiceKey
	frequency float64
	state     NoteState
	age       int   // samples spent in the current state
	elapsed   int64 // samples since creation; the waveform phase origin

	releaseStart float64 // gain the release ramp starts from
}

// VoiceInfo is the read-only view of a voice published after each render.
type VoiceInfo struct {
	Key       VoiceKey
	Frequency float64
	State     NoteState
	Age       int
}

func (v *Voice) info() VoiceInfo {
	return VoiceInfo{Key: v.key, Frequency: v.frequency, State: v.state, Age: v.age}
}

func (v *Voice) press() {
	v.state = NotePressed
	v.age = 0
}

func (v *Voice) release(p *SynthParams) {
	start := p.env.Sustain
	if p.ReleaseMode == ReleaseFromCurrent {
		start = p.env.Gain(NotePressed, v.age)
	}
	v.state = NoteReleased
	v.age = 0
	v.releaseStart = start
}

// render adds len(out) samples of this voice into out and advances its
// counters. It reports whether the voice has finished releasing.
func (v *Voice) render(out []float32, p *SynthParams) bool {
	env := p.env
	releaseStart := env.Sustain
	if p.ReleaseMode == ReleaseFromCurrent {
		releaseStart = v.releaseStart
	}

	for i := range out {
		t := float64(v.elapsed+int64(i)) * p.invRate
		gain := env.GainFrom(v.state, v.age+i, releaseStart)
		if gain == 0 {
			continue
		}
		out[i] += float32(GenerateWaveform(p.Waveform, t, v.frequency) * gain)
	}

	v.age += len(out)
	v.elapsed += int64(len(out))
	return env.Finished(v.state, v.age)
}
