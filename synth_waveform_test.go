package main

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateWaveform_Bounded(t *testing.T) {
	freqs := []float64{0.5, 27.5, 261.63, 440, 1000, 12345.6, 23999}
	for _, w := range Waveforms {
		for _, f := range freqs {
			for i := -200; i < 2000; i++ {
				tm := float64(i) * 0.000731
				v := GenerateWaveform(w, tm, f)
				if v < -OUTPUT_LEVEL-1e-12 || v > OUTPUT_LEVEL+1e-12 {
					t.Fatalf("%s f=%v t=%v: expected value in [-%v,%v], got %v", w, f, tm, OUTPUT_LEVEL, OUTPUT_LEVEL, v)
				}
			}
		}
	}
}

func TestGenerateWaveform_KnownPoints(t *testing.T) {
	const f = 100.0 // period 10ms
	cases := []struct {
		wave Waveform
		t    float64
		want float64
	}{
		{WaveSine, 0, 0},
		{WaveSine, 0.0025, OUTPUT_LEVEL},
		{WaveSine, 0.0075, -OUTPUT_LEVEL},
		{WaveSawtooth, 0, 0},
		{WaveSawtooth, 0.0025, OUTPUT_LEVEL * 0.5},
		{WaveSawtooth, 0.0075, -OUTPUT_LEVEL * 0.5},
		{WaveSquare, 0, OUTPUT_LEVEL},
		{WaveSquare, 0.0025, OUTPUT_LEVEL},
		{WaveSquare, 0.0075, -OUTPUT_LEVEL},
		{WaveTriangle, 0, -OUTPUT_LEVEL},
		{WaveTriangle, 0.0025, 0},
		{WaveTriangle, 0.0049, OUTPUT_LEVEL * 0.96},
	}
	for _, tc := range cases {
		got := GenerateWaveform(tc.wave, tc.t, f)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s at t=%v: expected %v, got %v", tc.wave, tc.t, tc.want, got)
		}
	}
}

func TestParseWaveform(t *testing.T) {
	cases := map[string]Waveform{
		"sine":     WaveSine,
		"SIN":      WaveSine,
		"sawtooth": WaveSawtooth,
		"saw":      WaveSawtooth,
		"Square":   WaveSquare,
		"sqr":      WaveSquare,
		"triangle": WaveTriangle,
		"tri":      WaveTriangle,
	}
	for name, want := range cases {
		got, err := ParseWaveform(name)
		if err != nil {
			t.Fatalf("ParseWaveform(%q): unexpected error %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseWaveform(%q): expected %s, got %s", name, want, got)
		}
	}

	if _, err := ParseWaveform("noise"); !errors.Is(err, ErrUnknownWaveform) {
		t.Fatalf("expected ErrUnknownWaveform, got %v", err)
	}
}

func TestWaveform_StringRoundTrip(t *testing.T) {
	for _, w := range Waveforms {
		got, err := ParseWaveform(w.String())
		if err != nil || got != w {
			t.Fatalf("expected %s to parse back, got %s (%v)", w, got, err)
		}
	}
}
