//go:build !headless

package main

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// rampSource writes a running sample index so chunk boundaries are visible.
type rampSource struct {
	next float32
}

func (s *rampSource) Render(out []float32) {
	for i := range out {
		out[i] = s.next
		s.next++
	}
}

func TestOtoPlayer_ReadLargerThanBufferInChunks(t *testing.T) {
	op := &OtoPlayer{sampleRate: testRate, sampleBuf: make([]float32, 64)}
	src := &rampSource{}
	op.source.Store(&sourceRef{src: src})

	p := make([]byte, 4*150+2)
	n, err := op.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read: expected %d, nil, got %d, %v", len(p), n, err)
	}
	for i := range 150 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if got != float32(i) {
			t.Fatalf("sample %d: expected %v, got %v", i, float32(i), got)
		}
	}
	if p[600] != 0 || p[601] != 0 {
		t.Fatal("expected the trailing partial sample to be cleared")
	}

	allocs := testing.AllocsPerRun(50, func() {
		_, _ = op.Read(p)
	})
	if allocs != 0 {
		t.Fatalf("expected Read to be allocation free, got %v allocs", allocs)
	}
}

func TestOtoPlayer_ReadWithoutSourceIsSilent(t *testing.T) {
	op := &OtoPlayer{sampleRate: testRate, sampleBuf: make([]float32, 16)}
	p := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if n, _ := op.Read(p); n != len(p) {
		t.Fatalf("expected %d bytes, got %d", len(p), n)
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d: expected silence, got %d", i, b)
		}
	}
}

func TestNextOtoWatchStep(t *testing.T) {
	errDevice := errors.New("device lost")
	cases := []struct {
		name      string
		ctxErr    error
		playerErr error
		failed    bool
		want      otoWatchStep
	}{
		{"healthy", nil, nil, false, otoWatchIdle},
		{"context lost", errDevice, nil, false, otoWatchFail},
		{"context lost reported once", errDevice, errDevice, true, otoWatchIdle},
		{"player lost", nil, errDevice, false, otoWatchRebuild},
		{"player lost again", nil, errDevice, true, otoWatchRebuild},
		{"context error wins", errDevice, errDevice, false, otoWatchFail},
	}
	for _, tc := range cases {
		if got := nextOtoWatchStep(tc.ctxErr, tc.playerErr, tc.failed); got != tc.want {
			t.Errorf("%s: expected step %d, got %d", tc.name, tc.want, got)
		}
	}
}
