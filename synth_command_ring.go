// synth_command_ring.go - Lock-free note command queue from the UI to the render path

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

import "sync/atomic"

type noteCommandKind uint8

const (
	cmdNoteOn noteCommandKind = iota
	cmdNoteOff
	cmdAllNotesOff
	cmdReset
)

type noteCommand struct {
	kind noteCommandKind
	key  VoiceKey
	freq float64
}

// commandRing is a fixed-size single-consumer queue. The render path is the
// only consumer; producers must be serialised by the caller.
type commandRing struct {
	data []noteCommand
	mask uint64
	// Padding to prevent false sharing between the two indices
	_        [8]uint64
	writeIdx atomic.Uint64 // advanced by the producer
	_        [8]uint64
	readIdx  atomic.Uint64 // advanced by the consumer
	_        [8]uint64
}

// newCommandRing rounds size up to the next power of two.
func newCommandRing(minSize int) *commandRing {
	if minSize <= 0 {
		panic("command ring minimum size must be positive")
	}
	size := 1
	for size < minSize {
		size <<= 1
		if size <= 0 {
			panic("requested command ring size too large, caused overflow")
		}
	}
	return &commandRing{
		data: make([]noteCommand, size),
		mask: uint64(size - 1),
	}
}

// push enqueues cmd, returning false when the ring is full.
func (r *commandRing) push(cmd noteCommand) bool {
	w := r.writeIdx.Load()
	if w-r.readIdx.Load() > r.mask {
		return false
	}
	r.data[w&r.mask] = cmd
	r.writeIdx.Store(w + 1)
	return true
}

// pop dequeues the oldest command.
func (r *commandRing) pop() (noteCommand, bool) {
	rd := r.readIdx.Load()
	if rd == r.writeIdx.Load() {
		return noteCommand{}, false
	}
	cmd := r.data[rd&r.mask]
	r.readIdx.Store(rd + 1)
	return cmd, true
}

func (r *commandRing) len() int {
	return int(r.writeIdx.Load() - r.readIdx.Load())
}

func (r *commandRing) capacity() int {
	return len(r.data)
}
