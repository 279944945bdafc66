// main.go - Main entry point for the Intuition Synth

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
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nA polyphonic software synthesizer for the Intuition Engine family.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

type options struct {
	sampleRate   int
	blockSize    int
	wave         string
	attack       float64
	decay        float64
	sustain      float64
	release      float64
	releaseMode  string
	patch        string
	ui           string
	backend      string
	script       string
	bounce       string
	remote       bool
	showFeatures bool
}

func newFlagSet(opts *options) *flag.FlagSet {
	def := DefaultPatch()
	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.IntVar(&opts.sampleRate, "rate", DEFAULT_SAMPLE_RATE, "Output sample rate in Hz")
	flagSet.IntVar(&opts.blockSize, "block", DEFAULT_BLOCK_SIZE, "Render block size in samples")
	flagSet.StringVar(&opts.wave, "wave", def.Waveform.String(), "Waveform: sine, sawtooth, square or triangle")
	flagSet.Float64Var(&opts.attack, "attack", def.Attack, "Attack time in seconds")
	flagSet.Float64Var(&opts.decay, "decay", def.Decay, "Decay time in seconds")
	flagSet.Float64Var(&opts.sustain, "sustain", def.Sustain, "Sustain level 0..1")
	flagSet.Float64Var(&opts.release, "release", def.Release, "Release time in seconds")
	flagSet.StringVar(&opts.releaseMode, "release-mode", def.ReleaseMode.String(), "Release from: sustain or current")
	flagSet.StringVar(&opts.patch, "patch", "", "Patch text applied over the other settings, e.g. \"wave=saw attack=0.05\"")
	flagSet.StringVar(&opts.ui, "ui", "ebiten", "Frontend: ebiten, term or none")
	flagSet.StringVar(&opts.backend, "backend", "oto", "Audio backend: oto or null")
	flagSet.StringVar(&opts.script, "script", "", "Lua note script to play")
	flagSet.StringVar(&opts.bounce, "bounce", "", "Render the script offline into this WAV file")
	flagSet.BoolVar(&opts.remote, "remote", false, "Send -script or -patch to the running synth (neither sends panic)")
	flagSet.BoolVar(&opts.showFeatures, "features", false, "Print compiled features and exit")
	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_synth [-ui ebiten|term|none] [-backend oto|null] [-wave sine] [-script song.lua [-bounce out.wav]]")
		flagSet.PrintDefaults()
	}
	return flagSet
}

func parseOptions(args []string) (options, error) {
	var opts options
	flagSet := newFlagSet(&opts)
	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if flagSet.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}
	if opts.bounce != "" && opts.script == "" {
		return opts, fmt.Errorf("-bounce requires -script")
	}
	if opts.remote && opts.bounce != "" {
		return opts, fmt.Errorf("-remote cannot be combined with -bounce")
	}
	return opts, nil
}

// engineConfig turns the flags into an EngineConfig; -patch is applied last.
func (o options) engineConfig() (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	cfg.SampleRate = o.sampleRate
	cfg.BlockSize = o.blockSize

	wave, err := ParseWaveform(o.wave)
	if err != nil {
		return cfg, err
	}
	mode, err := ParseReleaseMode(o.releaseMode)
	if err != nil {
		return cfg, err
	}
	if !(o.sustain >= 0 && o.sustain <= 1) {
		return cfg, fmt.Errorf("%w: sustain %v outside 0..1", ErrBadPatch, o.sustain)
	}
	cfg.Patch = Patch{
		Waveform:    wave,
		Attack:      o.attack,
		Decay:       o.decay,
		Sustain:     o.sustain,
		Release:     o.release,
		ReleaseMode: mode,
	}
	if o.patch != "" {
		if cfg.Patch, err = ParsePatchOnto(cfg.Patch, o.patch); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if opts.showFeatures {
		printFeatures()
		return
	}
	if opts.remote {
		if err := sendRemote(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	boilerPlate()

	cfg, err := opts.engineConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	engine, err := NewSynthEngine(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize synth: %v\n", err)
		os.Exit(1)
	}

	if opts.bounce != "" {
		if err := bounceScript(engine, cfg, opts.script, opts.bounce); err != nil {
			fmt.Printf("Bounce failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := playLive(engine, cfg, opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// releaseTail is how long to keep rendering after a script ends so that
// released voices can finish.
func releaseTail(engine *SynthEngine) float64 {
	return engine.Patch().Release + float64(engine.BlockSize())/float64(engine.SampleRate())
}

// bounceScript runs a script against an offline clock and writes the
// rendered output to a WAV file.
func bounceScript(engine *SynthEngine, cfg EngineConfig, script, path string) error {
	out, err := CreateWAVBounce(path, engine, cfg.SampleRate, cfg.BlockSize)
	if err != nil {
		return err
	}
	runner := NewScriptRunner(engine, BounceClock{Out: out})
	defer runner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := runner.RunFile(ctx, script)
	if runErr == nil {
		engine.AllNotesOff()
		runErr = out.AdvanceSeconds(releaseTail(engine))
	}
	if err := out.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	stats := engine.Stats()
	fmt.Printf("Bounced %s to %s: %d samples (%.2fs), %d notes dropped, %d voices stolen\n",
		script, path, out.Frames(), float64(out.Frames())/float64(cfg.SampleRate),
		stats.DroppedNotes, stats.StolenVoices)
	return nil
}

func playLive(engine *SynthEngine, cfg EngineConfig, opts options) error {
	backend, err := ParseAudioBackend(opts.backend)
	if err != nil {
		return err
	}
	uiKind, err := ParseUIFrontend(opts.ui)
	if err != nil {
		return err
	}

	output, err := NewAudioOutput(backend, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize sound: %w", err)
	}
	engine.SetStatusHandler(func(status OutputStatus) {
		fmt.Fprintf(os.Stderr, "audio: %s\n", status)
	})
	if err := engine.AttachOutput(output); err != nil {
		return err
	}
	defer func() {
		if err := engine.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "audio: stop: %v\n", err)
		}
	}()
	if err := engine.Start(); err != nil {
		return fmt.Errorf("failed to start sound: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if srv, err := NewIPCServer(&liveRemote{ctx: ctx, engine: engine, actions: NewSynthActions(engine)}); err != nil {
		fmt.Fprintf(os.Stderr, "ipc: %v (remote control disabled)\n", err)
	} else {
		srv.Start()
		defer srv.Stop()
	}

	// A script with no frontend plays once and exits.
	if uiKind == UI_FRONTEND_NONE && opts.script != "" {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := playScript(ctx, engine, opts.script)
		if err == nil {
			err = RealtimeClock{}.Wait(ctx, releaseTail(engine))
		}
		if ctx.Err() != nil {
			return nil // interrupted
		}
		return err
	}

	ui, err := NewUIFrontend(uiKind, engine)
	if err != nil {
		return fmt.Errorf("failed to initialize UI: %w", err)
	}
	config := UIConfig{
		Width:     PIANO_WIDTH,
		Height:    PIANO_HEIGHT,
		Title:     "Intuition Synth",
		Resizable: false,
	}
	if err := ui.Initialize(config); err != nil {
		return fmt.Errorf("failed to configure UI: %w", err)
	}

	if opts.script != "" {
		go playScriptLogged(ctx, engine, opts.script)
	}

	start := time.Now()
	showErr := ui.Show()
	if err := ui.Close(); err != nil && showErr == nil {
		showErr = err
	}
	stats := engine.Stats()
	fmt.Printf("Played %.1fs: %d samples, %d overruns, %d commands dropped\n",
		time.Since(start).Seconds(), stats.FramesRendered, stats.Overruns, stats.DroppedCommands)
	return showErr
}

func playScript(ctx context.Context, engine *SynthEngine, path string) error {
	runner := NewScriptRunner(engine, RealtimeClock{})
	defer runner.Close()
	return runner.RunFile(ctx, path)
}

func playScriptLogged(ctx context.Context, engine *SynthEngine, path string) {
	if err := playScript(ctx, engine, path); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}

// liveRemote serves IPC requests while the synth is playing.
type liveRemote struct {
	ctx     context.Context
	engine  *SynthEngine
	actions *SynthActions
}

func (r *liveRemote) PlayScript(path string) error {
	go playScriptLogged(r.ctx, r.engine, path)
	return nil
}

func (r *liveRemote) ApplyPatch(text string) error {
	return r.actions.ApplyPatchText(text)
}

func (r *liveRemote) Panic() {
	r.actions.Panic()
}

func sendRemote(opts options) error {
	if opts.script == "" && opts.patch == "" {
		return SendRemote(ipcRequest{Cmd: IPC_CMD_PANIC})
	}
	if opts.patch != "" {
		if err := SendRemote(ipcRequest{Cmd: IPC_CMD_PATCH, Text: opts.patch}); err != nil {
			return err
		}
	}
	if opts.script != "" {
		path, err := filepath.Abs(opts.script)
		if err != nil {
			return err
		}
		return SendRemote(ipcRequest{Cmd: IPC_CMD_PLAY, Path: path})
	}
	return nil
}
