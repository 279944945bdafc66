//go:build !headless

// ui_frontend_ebiten.go - Ebiten window keyboard for the synth

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
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

func init() {
	compiledFeatures = append(compiledFeatures, "ui:ebiten")
}

const (
	WHITE_KEY_WIDTH  = 60
	WHITE_KEY_HEIGHT = 200
	BLACK_KEY_WIDTH  = 40
	BLACK_KEY_HEIGHT = 120
	STATUS_BAR_TOP   = WHITE_KEY_HEIGHT + 8
	MESSAGE_TIMEOUT  = 2 * time.Second
	MAX_PASTE_BYTES  = 4096
)

// Physical key positions (US names) for the layout runes.
var ebitenNoteKeys = map[rune]ebiten.Key{
	'a': ebiten.KeyA, 'w': ebiten.KeyW, 's': ebiten.KeyS, 'e': ebiten.KeyE,
	'd': ebiten.KeyD, 'f': ebiten.KeyF, 't': ebiten.KeyT, 'g': ebiten.KeyG,
	'z': ebiten.KeyZ, 'h': ebiten.KeyH, 'u': ebiten.KeyU, 'j': ebiten.KeyJ,
	'k': ebiten.KeyK, 'o': ebiten.KeyO, 'l': ebiten.KeyL, 'p': ebiten.KeyP,
	';': ebiten.KeySemicolon, '\'': ebiten.KeyQuote,
}

var ebitenWaveKeys = [...]ebiten.Key{ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4}

type EbitenFrontend struct {
	actions *SynthActions
	width   int
	height  int

	clipboardOnce sync.Once
	clipboardOK   bool

	mu           sync.Mutex
	message      string
	messageUntil time.Time

	closing atomic.Bool
}

func NewEbitenFrontend(actions *SynthActions) (UIFrontend, error) {
	return &EbitenFrontend{
		actions: actions,
		width:   PIANO_WIDTH,
		height:  PIANO_HEIGHT,
	}, nil
}

func (f *EbitenFrontend) Initialize(config UIConfig) error {
	w, h := config.Width, config.Height
	if w <= 0 {
		w = f.width
	}
	if h <= 0 {
		h = f.height
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowResizable(config.Resizable)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)
	return nil
}

func (f *EbitenFrontend) Show() error {
	if err := ebiten.RunGame(f); err != nil {
		return fmt.Errorf("ebiten: %w", err)
	}
	return nil
}

func (f *EbitenFrontend) Close() error {
	f.closing.Store(true)
	return nil
}

func (f *EbitenFrontend) Update() error {
	if ebiten.IsWindowBeingClosed() || f.closing.Load() {
		f.actions.Panic()
		return ebiten.Termination
	}
	keys := f.actions.Keys()

	for r, key := range ebitenNoteKeys {
		if inpututil.IsKeyJustPressed(key) {
			keys.Press(r)
		}
		if inpututil.IsKeyJustReleased(key) {
			keys.Release(r)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		f.flash(fmt.Sprintf("Octave %d", keys.OctaveUp()))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyY) {
		f.flash(fmt.Sprintf("Octave %d", keys.OctaveDown()))
	}
	for i, key := range ebitenWaveKeys {
		if inpututil.IsKeyJustPressed(key) {
			f.actions.SelectWaveform(Waveforms[i])
		}
	}
	f.handleEnvelopeKeys()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		f.actions.Panic()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		f.actions.HardReset()
		f.flash("Reset")
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		f.copyPatch()
	}
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		f.pastePatch()
	}
	return nil
}

// Digits 1..8 step attack, decay, sustain and release down/up in pairs.
func (f *EbitenFrontend) handleEnvelopeKeys() {
	steps := []struct {
		down, up ebiten.Key
		step     func(int) float64
		name     string
	}{
		{ebiten.KeyDigit1, ebiten.KeyDigit2, f.actions.StepAttack, "Attack"},
		{ebiten.KeyDigit3, ebiten.KeyDigit4, f.actions.StepDecay, "Decay"},
		{ebiten.KeyDigit5, ebiten.KeyDigit6, f.actions.StepSustain, "Sustain"},
		{ebiten.KeyDigit7, ebiten.KeyDigit8, f.actions.StepRelease, "Release"},
	}
	for _, s := range steps {
		if inpututil.IsKeyJustPressed(s.down) {
			f.flash(fmt.Sprintf("%s %.2f", s.name, s.step(-1)))
		}
		if inpututil.IsKeyJustPressed(s.up) {
			f.flash(fmt.Sprintf("%s %.2f", s.name, s.step(1)))
		}
	}
}

func (f *EbitenFrontend) initClipboard() bool {
	f.clipboardOnce.Do(func() {
		f.clipboardOK = clipboard.Init() == nil
	})
	return f.clipboardOK
}

func (f *EbitenFrontend) copyPatch() {
	if !f.initClipboard() {
		f.flash("Clipboard unavailable")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(f.actions.PatchText()))
	f.flash("Patch copied")
}

func (f *EbitenFrontend) pastePatch() {
	if !f.initClipboard() {
		f.flash("Clipboard unavailable")
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	if len(data) > MAX_PASTE_BYTES {
		data = data[:MAX_PASTE_BYTES]
	}
	if err := f.actions.ApplyPatchText(string(data)); err != nil {
		f.flash(err.Error())
		return
	}
	f.flash("Patch pasted")
}

func (f *EbitenFrontend) flash(msg string) {
	f.mu.Lock()
	f.message = msg
	f.messageUntil = time.Now().Add(MESSAGE_TIMEOUT)
	f.mu.Unlock()
}

type pianoKeyRect struct {
	binding KeyBinding
	x, w, h int
	sharp   bool
}

// pianoGeometry lays the bindings out as white keys left to right with the
// sharps straddling the gap before their white neighbour.
func pianoGeometry() []pianoKeyRect {
	rects := make([]pianoKeyRect, 0, len(KeyLayout))
	white := 0
	for _, b := range KeyLayout {
		if b.Sharp() {
			rects = append(rects, pianoKeyRect{
				binding: b,
				x:       white*WHITE_KEY_WIDTH - BLACK_KEY_WIDTH/2,
				w:       BLACK_KEY_WIDTH,
				h:       BLACK_KEY_HEIGHT,
				sharp:   true,
			})
			continue
		}
		rects = append(rects, pianoKeyRect{
			binding: b,
			x:       white * WHITE_KEY_WIDTH,
			w:       WHITE_KEY_WIDTH,
			h:       WHITE_KEY_HEIGHT,
		})
		white++
	}
	return rects
}

func (f *EbitenFrontend) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{24, 24, 32, 255})
	keys := f.actions.Keys()
	octave := keys.Octave()
	face := basicfont.Face7x13

	pressedWhite := color.RGBA{120, 200, 255, 255}
	pressedBlack := color.RGBA{40, 120, 200, 255}
	labelColor := color.RGBA{90, 90, 90, 255}

	rects := pianoGeometry()
	// White keys first so the sharps draw on top
	for _, sharpPass := range []bool{false, true} {
		for _, r := range rects {
			if r.sharp != sharpPass {
				continue
			}
			c := color.RGBA{240, 240, 240, 255}
			if r.sharp {
				c = color.RGBA{20, 20, 20, 255}
			}
			if keys.IsHeld(r.binding.Key) {
				c = pressedWhite
				if r.sharp {
					c = pressedBlack
				}
			}
			ebitenutil.DrawRect(screen, float64(r.x+1), 0, float64(r.w-2), float64(r.h), c)
			label := fmt.Sprintf("%c %s", r.binding.Key, r.binding.Label(octave))
			ly := r.h - 8
			lc := color.Color(labelColor)
			if r.sharp {
				lc = color.RGBA{200, 200, 200, 255}
			}
			text.Draw(screen, label, face, r.x+4, ly, lc)
		}
	}

	f.drawStatusBar(screen, octave)
}

func (f *EbitenFrontend) drawStatusBar(screen *ebiten.Image, octave int) {
	face := basicfont.Face7x13
	textColor := color.RGBA{190, 190, 190, 255}
	engine := f.actions.Engine()
	p := engine.Patch()

	line1 := fmt.Sprintf("WAVE %-8s  A %.2fs  D %.2fs  S %.2f  R %.2fs  OCT %d",
		p.Waveform, p.Attack, p.Decay, p.Sustain, p.Release, octave)
	line2 := fmt.Sprintf("VOICES %d  %s", engine.VoiceCount(), engine.OutputStatus())
	text.Draw(screen, line1, face, 6, STATUS_BAR_TOP+13, textColor)
	text.Draw(screen, line2, face, 6, STATUS_BAR_TOP+28, textColor)

	f.mu.Lock()
	msg := f.message
	if time.Now().After(f.messageUntil) {
		msg = ""
	}
	f.mu.Unlock()
	if msg != "" {
		text.Draw(screen, msg, face, 6, STATUS_BAR_TOP+43, color.RGBA{0, 220, 90, 255})
	}

	legend := "F1-F4 Wave  1-8 ADSR  X/Y Octave  Space Panic  F10 Reset"
	text.Draw(screen, legend, face, 6, STATUS_BAR_TOP+73, color.RGBA{160, 160, 160, 255})
}

func (f *EbitenFrontend) Layout(_, _ int) (int, int) {
	return f.width, f.height
}
