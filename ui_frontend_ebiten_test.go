//go:build !headless

package main

import "testing"

func TestPianoGeometry(t *testing.T) {
	rects := pianoGeometry()
	if len(rects) != len(KeyLayout) {
		t.Fatalf("expected %d keys, got %d", len(KeyLayout), len(rects))
	}
	whites := 0
	right := 0
	for _, r := range rects {
		if r.sharp != r.binding.Sharp() {
			t.Fatalf("key %q: sharp mismatch", r.binding.Key)
		}
		if r.sharp {
			if r.x <= 0 || r.h != BLACK_KEY_HEIGHT {
				t.Fatalf("key %q: unexpected sharp rect %+v", r.binding.Key, r)
			}
			continue
		}
		if r.x != whites*WHITE_KEY_WIDTH {
			t.Fatalf("key %q: expected x=%d, got %d", r.binding.Key, whites*WHITE_KEY_WIDTH, r.x)
		}
		whites++
		right = r.x + r.w
	}
	if right > PIANO_WIDTH {
		t.Fatalf("expected the keyboard to fit in %d pixels, got %d", PIANO_WIDTH, right)
	}
}

func TestEbitenNoteKeys_CoverLayout(t *testing.T) {
	for _, b := range KeyLayout {
		if _, ok := ebitenNoteKeys[b.Key]; !ok {
			t.Fatalf("no ebiten key for %q", b.Key)
		}
	}
}
