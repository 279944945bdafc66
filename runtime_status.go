package main

import "sync"

type runtimeStatusSnapshot struct {
	voices     [MAX_VOICES]VoiceInfo
	voiceCount int
	frames     uint64 // global sample clock at publish time

	output OutputStatus
}

// Voices returns the published voices, oldest registry slot first.
func (s *runtimeStatusSnapshot) Voices() []VoiceInfo {
	out := make([]VoiceInfo, s.voiceCount)
	copy(out, s.voices[:s.voiceCount])
	return out
}

// runtimeStatusStore is what the render path shows to the UI. The render
// side only ever uses TryLock, so a reader holding the lock delays a
// publish by one buffer instead of stalling audio.
type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func (s *runtimeStatusStore) tryPublishVoices(voices []Voice, frames uint64) bool {
	if !s.mu.TryLock() {
		return false
	}
	for i := range voices {
		s.voices[i] = voices[i].info()
	}
	s.voiceCount = len(voices)
	s.frames = frames
	s.mu.Unlock()
	return true
}

func (s *runtimeStatusStore) setOutput(status OutputStatus) {
	s.mu.Lock()
	s.output = status
	s.mu.Unlock()
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	s.mu.RUnlock()
	return snap
}

func (s *runtimeStatusStore) hasVoice(key VoiceKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := 0; i < s.voiceCount; i++ {
		if s.voices[i].Key == key {
			return true
		}
	}
	return false
}

func (s *runtimeStatusStore) count() int {
	s.mu.RLock()
	n := s.voiceCount
	s.mu.RUnlock()
	return n
}
