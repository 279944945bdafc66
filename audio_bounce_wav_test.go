package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

// constSource renders the same value into every sample.
type constSource struct {
	value float32
	calls int
}

func (s *constSource) Render(out []float32) {
	s.calls++
	for i := range out {
		out[i] = s.value
	}
}

func decodeWAV(t *testing.T, path string) (*wav.Decoder, []int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatal("expected a valid WAV file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	return d, buf.Data
}

func TestFloatToPCM16(t *testing.T) {
	cases := []struct {
		in   float32
		want int
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{0.5, 16384},
		{2.5, 32767},
		{-7, -32767},
		{float32(math.NaN()), 0},
	}
	for _, tc := range cases {
		if got := floatToPCM16(tc.in); got != tc.want {
			t.Fatalf("floatToPCM16(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestWAVBounce_BlockSizedRendersAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "const.wav")
	src := &constSource{value: 1.75}
	b, err := CreateWAVBounce(path, src, testRate, 256)
	if err != nil {
		t.Fatalf("CreateWAVBounce: %v", err)
	}
	if err := b.Advance(1000); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if src.calls != 4 {
		t.Fatalf("expected 4 block renders for 1000 frames, got %d", src.calls)
	}
	if err := b.AdvanceSeconds(0.01); err != nil {
		t.Fatalf("AdvanceSeconds: %v", err)
	}
	if b.Frames() != 1480 {
		t.Fatalf("expected 1480 frames, got %d", b.Frames())
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	d, data := decodeWAV(t, path)
	if d.SampleRate != testRate || d.BitDepth != 16 || d.NumChans != 1 {
		t.Fatalf("unexpected format: %d Hz, %d bits, %d channels", d.SampleRate, d.BitDepth, d.NumChans)
	}
	if len(data) != 1480 {
		t.Fatalf("expected 1480 samples, got %d", len(data))
	}
	for i, v := range data {
		if v != 32767 {
			t.Fatalf("sample %d: expected the overdriven signal clamped to 32767, got %d", i, v)
		}
	}
}

func TestWAVBounce_EngineOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.wav")
	patch := DefaultPatch()
	patch.Attack = 0
	patch.Waveform = WaveSquare
	e := newTestEngine(t, patch)
	b, err := CreateWAVBounce(path, e, testRate, 128)
	if err != nil {
		t.Fatalf("CreateWAVBounce: %v", err)
	}
	e.NoteOn(110)
	if err := b.Advance(64); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, data := decodeWAV(t, path)
	if len(data) != 64 {
		t.Fatalf("expected 64 samples, got %d", len(data))
	}
	want := floatToPCM16(float32(OUTPUT_LEVEL))
	if data[0] != want {
		t.Fatalf("expected first sample %d (full gain square), got %d", want, data[0])
	}
}
