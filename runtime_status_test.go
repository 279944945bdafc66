package main

import "testing"

func TestRuntimeStatusStore_TryPublishSkipsWhenReaderHoldsLock(t *testing.T) {
	var s runtimeStatusStore
	voices := []Voice{{key: 1, frequency: 0.001}, {key: 2, frequency: 0.002, state: NoteReleased}}
	if !s.tryPublishVoices(voices, 10) {
		t.Fatal("expected publish to succeed")
	}

	s.mu.RLock()
	ok := s.tryPublishVoices(voices[:1], 20)
	s.mu.RUnlock()
	if ok {
		t.Fatal("expected publish to back off while a reader holds the lock")
	}

	snap := s.snapshot()
	if snap.frames != 10 || s.count() != 2 {
		t.Fatalf("expected the earlier publish to stand, got frames=%d count=%d", snap.frames, s.count())
	}
	got := snap.Voices()
	if len(got) != 2 || got[1].State != NoteReleased || !s.hasVoice(2) || s.hasVoice(3) {
		t.Fatalf("unexpected voices %+v", got)
	}
}

func TestRuntimeStatusStore_Output(t *testing.T) {
	var s runtimeStatusStore
	s.setOutput(OutputStatus{Backend: "null", State: OutputRunning})
	if snap := s.snapshot(); snap.output.State != OutputRunning {
		t.Fatalf("expected running output, got %s", snap.output)
	}
}
