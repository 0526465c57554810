// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Command runes renders the sample scenes to PNG or animated GIF files.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"honnef.co/go/runes"
	"honnef.co/go/runes/internal/samples"
)

type options struct {
	scene      string
	mode       string
	frames     int
	out        string
	configPath string
	engine     string
	verbose    bool
}

func main() {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-v] [-mode plain|stereo|hollusion|slideshow] [-scene <name>] [-o <file>]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Scenes: %s\n", strings.Join(samples.Names(), ", "))
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.scene, "scene", "heart", "Scene to render; a comma-separated `list` in slideshow mode, empty for all")
	flag.StringVar(&opts.mode, "mode", "plain", "Render `mode`")
	flag.IntVar(&opts.frames, "frames", 0, "Number of hollusion frames")
	flag.StringVar(&opts.out, "o", "", "Output `file` (default out.png or out.gif)")
	flag.StringVar(&opts.configPath, "config", "", "TOML or YAML configuration `file`")
	flag.StringVar(&opts.engine, "engine", "", "Render engine, cpu or wgpu (overrides the configuration)")
	flag.BoolVar(&opts.verbose, "v", false, "Be verbose")
	flag.Parse()

	if len(flag.Args()) != 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(opts, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run renders opts.scene in opts.mode and writes the result to opts.out.
func run(opts options, logger *slog.Logger) error {
	cfg := runes.DefaultConfig
	if opts.configPath != "" {
		var err error
		cfg, err = runes.LoadConfig(opts.configPath)
		if err != nil {
			return fmt.Errorf("couldn't load configuration: %w", err)
		}
	}
	if opts.engine != "" {
		cfg.Engine = opts.engine
	}

	eng, err := openEngine(cfg.Engine, logger)
	if err != nil {
		return fmt.Errorf("couldn't open %s engine: %w", cfg.Engine, err)
	}
	r, err := runes.New(eng, cfg, logger)
	if err != nil {
		eng.Release()
		return fmt.Errorf("couldn't create renderer: %w", err)
	}
	defer r.Close()

	out := opts.out
	if out == "" {
		switch opts.mode {
		case "hollusion", "slideshow":
			out = "out.gif"
		default:
			out = "out.png"
		}
	}

	switch opts.mode {
	case "plain", "stereo":
		rn, err := samples.Get(opts.scene)
		if err != nil {
			return err
		}
		var img runes.StillImage
		if opts.mode == "plain" {
			img, err = r.Render(rn)
		} else {
			img, err = r.RenderStereo(rn)
		}
		if err != nil {
			return fmt.Errorf("couldn't render %s: %w", opts.scene, err)
		}
		if err := img.Save(out); err != nil {
			return err
		}
	case "hollusion":
		rn, err := samples.Get(opts.scene)
		if err != nil {
			return err
		}
		h, err := r.RenderAnimated(rn, opts.frames, nil)
		if err != nil {
			return fmt.Errorf("couldn't render %s: %w", opts.scene, err)
		}
		if err := saveGIF(out, h, !opts.verbose); err != nil {
			return fmt.Errorf("couldn't save animation: %w", err)
		}
	case "slideshow":
		rns, err := samples.List(opts.scene)
		if err != nil {
			return err
		}
		h, err := r.Animate(rns, nil)
		if err != nil {
			return fmt.Errorf("couldn't render slideshow: %w", err)
		}
		if err := saveGIF(out, h, !opts.verbose); err != nil {
			return fmt.Errorf("couldn't save animation: %w", err)
		}
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
	logger.Info("wrote output", "mode", opts.mode, "file", out, "engine", cfg.Engine)
	return nil
}
