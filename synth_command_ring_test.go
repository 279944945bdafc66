package main

import (
	"sync"
	"testing"
)

func TestCommandRing_RoundsUpToPowerOfTwo(t *testing.T) {
	for _, tc := range []struct{ in, want int }{{1, 1}, {3, 4}, {1000, 1024}, {1024, 1024}} {
		if got := newCommandRing(tc.in).capacity(); got != tc.want {
			t.Fatalf("newCommandRing(%d): expected capacity %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestCommandRing_FIFOAndFull(t *testing.T) {
	r := newCommandRing(4)
	for i := range 4 {
		if !r.push(noteCommand{kind: cmdNoteOn, key: VoiceKey(i)}) {
			t.Fatalf("push %d: expected room in the ring", i)
		}
	}
	if r.push(noteCommand{kind: cmdNoteOff}) {
		t.Fatal("expected push to fail on a full ring")
	}
	if r.len() != 4 {
		t.Fatalf("expected len 4, got %d", r.len())
	}
	for i := range 4 {
		cmd, ok := r.pop()
		if !ok || cmd.key != VoiceKey(i) {
			t.Fatalf("pop %d: expected key %d, got %d (ok=%v)", i, i, cmd.key, ok)
		}
	}
	if _, ok := r.pop(); ok {
		t.Fatal("expected pop to fail on an empty ring")
	}
	// Wraps around
	for i := range 10 {
		r.push(noteCommand{key: VoiceKey(100 + i)})
		cmd, _ := r.pop()
		if cmd.key != VoiceKey(100+i) {
			t.Fatalf("expected key %d after wrap, got %d", 100+i, cmd.key)
		}
	}
}

func TestCommandRing_ProducerConsumer(t *testing.T) {
	const n = 100000
	r := newCommandRing(64)
	var wg sync.WaitGroup

	wg.Go(func() {
		for i := 0; i < n; {
			if r.push(noteCommand{key: VoiceKey(i)}) {
				i++
			}
		}
	})

	next := VoiceKey(0)
	for next < n {
		cmd, ok := r.pop()
		if !ok {
			continue
		}
		if cmd.key != next {
			t.Fatalf("expected key %d, got %d", next, cmd.key)
		}
		next++
	}
	wg.Wait()
}
