// ui_keymap.go - Note table and computer-keyboard piano layout

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
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

const (
	C1_FREQ        = 32.70 // Hz
	MIN_OCTAVE     = 1
	MAX_OCTAVE     = 8
	DEFAULT_OCTAVE = 4
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Just-intonation ratios against C of the same octave
var noteRatios = [12]float64{
	1, 16.0 / 15, 9.0 / 8, 6.0 / 5, 5.0 / 4, 4.0 / 3,
	25.0 / 18, 3.0 / 2, 8.0 / 5, 5.0 / 3, 9.0 / 5, 15.0 / 8,
}

func noteIndex(name string) (int, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for i, candidate := range noteNames {
		if n == candidate {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown note name %q", name)
}

// NoteFrequency returns the frequency of a named note ("C".."B", sharps
// only) in octaves 1..8.
func NoteFrequency(name string, octave int) (float64, error) {
	idx, err := noteIndex(name)
	if err != nil {
		return 0, err
	}
	if octave < MIN_OCTAVE || octave > MAX_OCTAVE {
		return 0, fmt.Errorf("octave %d outside %d..%d", octave, MIN_OCTAVE, MAX_OCTAVE)
	}
	return semitoneFrequency(idx, octave), nil
}

func semitoneFrequency(semitone, octave int) float64 {
	return C1_FREQ * math.Pow(2, float64(octave-1)) * noteRatios[semitone]
}

// KeyBinding maps a computer key to a semitone relative to the current octave.
type KeyBinding struct {
	Key          rune
	Semitone     int // 0 = C
	OctaveOffset int
}

// Octave is the octave b plays from base. The upper row stops at
// MAX_OCTAVE and repeats the top octave there.
func (b KeyBinding) Octave(base int) int {
	return min(base+b.OctaveOffset, MAX_OCTAVE)
}

func (b KeyBinding) Label(octave int) string {
	return fmt.Sprintf("%s%d", noteNames[b.Semitone], b.Octave(octave))
}

func (b KeyBinding) Sharp() bool {
	return strings.HasSuffix(noteNames[b.Semitone], "#")
}

// KeyLayout is a two-row piano on a QWERTZ/QWERTY keyboard; the right-hand
// keys continue into the next octave.
var KeyLayout = []KeyBinding{
	{'a', 0, 0}, {'w', 1, 0}, {'s', 2, 0}, {'e', 3, 0}, {'d', 4, 0}, {'f', 5, 0},
	{'t', 6, 0}, {'g', 7, 0}, {'z', 8, 0}, {'h', 9, 0}, {'u', 10, 0}, {'j', 11, 0},
	{'k', 0, 1}, {'o', 1, 1}, {'l', 2, 1}, {'p', 3, 1}, {';', 4, 1}, {'\'', 5, 1},
}

func BindingForKey(r rune) (KeyBinding, bool) {
	for _, b := range KeyLayout {
		if b.Key == r {
			return b, true
		}
	}
	return KeyBinding{}, false
}

// NoteSink receives note events; SynthEngine implements it.
type NoteSink interface {
	NoteOn(freq float64)
	NoteOff(freq float64)
}

// KeyboardState turns key presses into note events. It remembers the
// frequency each key started, so changing octave while holding a key still
// releases the right note, and reference counts frequencies shared by two
// held keys.
type KeyboardState struct {
	mu     sync.Mutex
	sink   NoteSink
	octave int
	held   map[rune]float64
	refs   map[VoiceKey]int
}

func NewKeyboardState(sink NoteSink) *KeyboardState {
	return &KeyboardState{
		sink:   sink,
		octave: DEFAULT_OCTAVE,
		held:   make(map[rune]float64),
		refs:   make(map[VoiceKey]int),
	}
}

// Press reports whether r is a note key.
func (k *KeyboardState) Press(r rune) bool {
	b, ok := BindingForKey(r)
	if !ok {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, down := k.held[r]; down {
		return true
	}
	freq := semitoneFrequency(b.Semitone, b.Octave(k.octave))
	k.held[r] = freq
	key := KeyForFrequency(freq)
	k.refs[key]++
	if k.refs[key] == 1 {
		k.sink.NoteOn(freq)
	}
	return true
}

func (k *KeyboardState) Release(r rune) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	freq, down := k.held[r]
	if !down {
		_, ok := BindingForKey(r)
		return ok
	}
	k.releaseLocked(r, freq)
	return true
}

func (k *KeyboardState) releaseLocked(r rune, freq float64) {
	delete(k.held, r)
	key := KeyForFrequency(freq)
	k.refs[key]--
	if k.refs[key] <= 0 {
		delete(k.refs, key)
		k.sink.NoteOff(freq)
	}
}

func (k *KeyboardState) ReleaseAll() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for r, freq := range k.held {
		k.releaseLocked(r, freq)
	}
}

func (k *KeyboardState) IsHeld(r rune) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, down := k.held[r]
	return down
}

// Held returns the held keys in layout order.
func (k *KeyboardState) Held() []rune {
	k.mu.Lock()
	defer k.mu.Unlock()
	keys := make([]rune, 0, len(k.held))
	for r := range k.held {
		keys = append(keys, r)
	}
	order := func(r rune) int {
		for i, b := range KeyLayout {
			if b.Key == r {
				return i
			}
		}
		return len(KeyLayout)
	}
	sort.Slice(keys, func(i, j int) bool { return order(keys[i]) < order(keys[j]) })
	return keys
}

func (k *KeyboardState) Octave() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.octave
}

func (k *KeyboardState) OctaveUp() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.octave < MAX_OCTAVE {
		k.octave++
	}
	return k.octave
}

func (k *KeyboardState) OctaveDown() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.octave > MIN_OCTAVE {
		k.octave--
	}
	return k.octave
}
