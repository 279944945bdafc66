package main

import (
	"math"
	"testing"
)

const testRate = 48000

func TestEnvelope_AttackRamp(t *testing.T) {
	env := NewEnvelope(0.01, 0.1, 0.7, 0.1, testRate)
	if env.AttackSamples != 480 {
		t.Fatalf("expected 480 attack samples, got %d", env.AttackSamples)
	}
	if g := env.Gain(NotePressed, 0); g != 0 {
		t.Fatalf("expected gain 0 at age 0, got %v", g)
	}
	prev := -1.0
	for age := 0; age < env.AttackSamples; age++ {
		g := env.Gain(NotePressed, age)
		if g < prev {
			t.Fatalf("attack not monotonic at age %d: %v < %v", age, g, prev)
		}
		prev = g
	}
	if math.Abs(prev-479.0/480.0) > 1e-12 {
		t.Fatalf("expected %v at age 479, got %v", 479.0/480.0, prev)
	}
	if g := env.Gain(NotePressed, env.AttackSamples); g != 1 {
		t.Fatalf("expected peak 1 at end of attack, got %v", g)
	}
}

func TestEnvelope_DecayAndSustainHold(t *testing.T) {
	env := NewEnvelope(0.01, 0.1, 0.7, 0.1, testRate)
	end := env.AttackSamples + env.DecaySamples

	prev := 1.0
	for age := env.AttackSamples; age < end; age++ {
		g := env.Gain(NotePressed, age)
		if g > prev || g < env.Sustain {
			t.Fatalf("decay out of range at age %d: %v", age, g)
		}
		prev = g
	}
	for _, age := range []int{end, end + 1, end + 48000, math.MaxInt32} {
		if g := env.Gain(NotePressed, age); g != 0.7 {
			t.Fatalf("expected sustain 0.7 at age %d, got %v", age, g)
		}
	}
}

func TestEnvelope_ReleaseRamp(t *testing.T) {
	env := NewEnvelope(0.01, 0.1, 0.7, 0.1, testRate)
	if env.ReleaseSamples != 4800 {
		t.Fatalf("expected 4800 release samples, got %d", env.ReleaseSamples)
	}
	if g := env.Gain(NoteReleased, 0); g != 0.7 {
		t.Fatalf("expected release to start at sustain, got %v", g)
	}
	prev := math.Inf(1)
	for age := 0; age < env.ReleaseSamples; age++ {
		g := env.Gain(NoteReleased, age)
		if g >= prev {
			t.Fatalf("release not strictly decreasing at age %d: %v >= %v", age, g, prev)
		}
		prev = g
	}
	for _, age := range []int{4800, 4801, 100000} {
		if g := env.Gain(NoteReleased, age); g != 0 {
			t.Fatalf("expected 0 after release at age %d, got %v", age, g)
		}
	}
	if env.Finished(NoteReleased, 4799) || !env.Finished(NoteReleased, 4800) {
		t.Fatal("expected release to finish exactly at 4800 samples")
	}
	if env.Finished(NotePressed, 1<<30) {
		t.Fatal("a pressed note must never finish")
	}
}

func TestEnvelope_ZeroDurationsAreInstant(t *testing.T) {
	for _, d := range []float64{0, -1, math.NaN()} {
		env := NewEnvelope(d, d, 0.5, d, testRate)
		if env.AttackSamples != 0 || env.DecaySamples != 0 || env.ReleaseSamples != 0 {
			t.Fatalf("duration %v: expected zero samples, got %+v", d, env)
		}
		if g := env.Gain(NotePressed, 0); g != 0.5 {
			t.Fatalf("duration %v: expected immediate sustain 0.5, got %v", d, g)
		}
		if g := env.Gain(NoteReleased, 0); g != 0 {
			t.Fatalf("duration %v: expected immediate silence on release, got %v", d, g)
		}
		if !env.Finished(NoteReleased, 0) {
			t.Fatalf("duration %v: expected release to be finished at once", d)
		}
	}
}

func TestEnvelope_GainFromCurrentLevel(t *testing.T) {
	env := NewEnvelope(0.01, 0.1, 0.7, 0.1, testRate)
	// Released halfway through the attack
	start := env.Gain(NotePressed, 240)
	if g := env.GainFrom(NoteReleased, 0, start); g != 0.5 {
		t.Fatalf("expected release from 0.5, got %v", g)
	}
	if g := env.GainFrom(NoteReleased, 2400, start); math.Abs(g-0.25) > 1e-12 {
		t.Fatalf("expected 0.25 halfway through release, got %v", g)
	}
}

func TestSecondsToSamples(t *testing.T) {
	cases := []struct {
		sec  float64
		want int
	}{
		{0.01, 480},
		{0.1, 4800},
		{1, 48000},
		{0.0000104, 0},
		{0.0000105, 1},
		{0, 0},
		{-0.5, 0},
		{math.Inf(1), math.MaxInt32},
	}
	for _, tc := range cases {
		if got := secondsToSamples(tc.sec, testRate); got != tc.want {
			t.Fatalf("secondsToSamples(%v): expected %d, got %d", tc.sec, tc.want, got)
		}
	}
}

func TestParseReleaseMode(t *testing.T) {
	for _, m := range []ReleaseMode{ReleaseFromSustain, ReleaseFromCurrent} {
		got, err := ParseReleaseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("expected %s, got %s (%v)", m, got, err)
		}
	}
	if _, err := ParseReleaseMode("fast"); err == nil {
		t.Fatal("expected an error for an unknown release mode")
	}
}
