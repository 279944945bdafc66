// synth_constants.go - Engine-wide constants for the polyphonic synthesizer

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

import "time"

const (
	DEFAULT_SAMPLE_RATE = 48000
	DEFAULT_BLOCK_SIZE  = 1024 // frames per device callback

	OUTPUT_LEVEL = 0.3 // per-voice headroom so several voices can sum

	MAX_VOICES        = 64
	COMMAND_RING_SIZE = 1024 // must be a power of two

	FREQ_KEY_SCALE = 1000.0 // VoiceKey = round(Hz * 1000)
)

// Default patch, also the slider start positions.
const (
	DEFAULT_ATTACK  = 0.01
	DEFAULT_DECAY   = 0.1
	DEFAULT_SUSTAIN = 0.7
	DEFAULT_RELEASE = 0.1
)

// Slider ranges
const (
	MIN_ENV_SECONDS  = 0.01
	MAX_ENV_SECONDS  = 1.0
	ENV_SECONDS_STEP = 0.01
	SUSTAIN_STEP     = 0.05
)

const (
	OUTPUT_WATCHDOG_PERIOD = 250 * time.Millisecond
	OTO_PLAYER_BLOCKS      = 4 // oto read size, in blocks
	TERM_HOLD_TIMEOUT      = 600 * time.Millisecond
	TERM_REPEAT_TIMEOUT    = 120 * time.Millisecond
)
