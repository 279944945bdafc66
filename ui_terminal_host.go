// ui_terminal_host.go - Raw terminal keyboard for the synth

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
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

const terminalExpirePeriod = 20 * time.Millisecond

// TerminalHost plays the synth from raw stdin. Terminals only report key
// presses (and auto-repeats), so a note is released once its key has not
// been seen for TERM_HOLD_TIMEOUT, or TERM_REPEAT_TIMEOUT after auto-repeat
// has started.
type TerminalHost struct {
	actions *SynthActions

	mu        sync.Mutex
	lastSeen  map[rune]time.Time
	repeating map[rune]bool
	dirty     bool // status line needs a redraw

	stopCh       chan struct{}
	done         chan struct{}
	quit         chan struct{}
	quitOnce     sync.Once
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewTerminalHost(actions *SynthActions) *TerminalHost {
	return &TerminalHost{
		actions:   actions,
		lastSeen:  make(map[rune]time.Time),
		repeating: make(map[rune]bool),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
		quit:      make(chan struct{}),
	}
}

func (h *TerminalHost) Initialize(config UIConfig) error {
	h.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(h.fd) {
		return fmt.Errorf("terminal_host: stdin is not a terminal")
	}
	fmt.Printf("%s\n", config.Title)
	fmt.Println("Keys: a w s e d f t g z h u j k o l p ; '  |  x/y octave  |  1-4 wave  |  space panic  |  esc quit")
	return nil
}

func (h *TerminalHost) Show() error {
	if err := h.startInput(); err != nil {
		return err
	}
	ticker := time.NewTicker(terminalExpirePeriod)
	defer ticker.Stop()
	defer h.stopInput()

	h.printStatus()
	for {
		select {
		case <-h.quit:
			h.actions.Panic()
			fmt.Print("\r\n")
			return nil
		case <-h.done:
			// stdin closed
			h.actions.Panic()
			return nil
		case now := <-ticker.C:
			released := h.expire(now)
			h.mu.Lock()
			dirty := h.dirty
			h.dirty = false
			h.mu.Unlock()
			if dirty || len(released) > 0 {
				h.printStatus()
			}
		}
	}
}

func (h *TerminalHost) Close() error {
	h.quitOnce.Do(func() { close(h.quit) })
	return nil
}

// HandleByte processes one byte of raw input at time now. It reports
// whether the user asked to quit.
func (h *TerminalHost) HandleByte(b byte, now time.Time) bool {
	h.mu.Lock()
	h.dirty = true
	h.mu.Unlock()

	switch b {
	case 0x03, 0x1B: // Ctrl-C, Esc
		h.Close()
		return true
	case ' ':
		h.mu.Lock()
		clear(h.lastSeen)
		clear(h.repeating)
		h.mu.Unlock()
		h.actions.Panic()
		return false
	case 'x':
		h.actions.Keys().OctaveUp()
		return false
	case 'y':
		h.actions.Keys().OctaveDown()
		return false
	case '1', '2', '3', '4':
		h.actions.SelectWaveform(Waveforms[b-'1'])
		return false
	}

	r := rune(b)
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if _, ok := BindingForKey(r); !ok {
		return false
	}
	h.mu.Lock()
	_, held := h.lastSeen[r]
	h.lastSeen[r] = now
	if held {
		h.repeating[r] = true
	}
	h.mu.Unlock()
	if !held {
		h.actions.Keys().Press(r)
	}
	return false
}

// expire releases keys whose auto-repeat has stopped and returns them.
func (h *TerminalHost) expire(now time.Time) []rune {
	var released []rune
	h.mu.Lock()
	for r, seen := range h.lastSeen {
		timeout := TERM_HOLD_TIMEOUT
		if h.repeating[r] {
			timeout = TERM_REPEAT_TIMEOUT
		}
		if now.Sub(seen) > timeout {
			delete(h.lastSeen, r)
			delete(h.repeating, r)
			released = append(released, r)
		}
	}
	h.mu.Unlock()
	for _, r := range released {
		h.actions.Keys().Release(r)
	}
	return released
}

func (h *TerminalHost) printStatus() {
	p := h.actions.Engine().Patch()
	fmt.Printf("\r\033[Kwave=%s oct=%d held=%q voices=%d",
		p.Waveform, h.actions.Keys().Octave(), string(h.actions.Keys().Held()), h.actions.Engine().VoiceCount())
}
