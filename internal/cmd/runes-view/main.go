// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Command runes-view shows a sample scene in a window, playing back
// hollusions and slideshows.
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"honnef.co/go/runes"
	"honnef.co/go/runes/engine/cpu_engine"
	"honnef.co/go/runes/internal/samples"
)

// viewer is an ebiten game that shows the frame presented last.
type viewer struct {
	size int

	mu      sync.Mutex
	pending *image.RGBA

	img *ebiten.Image
}

func (v *viewer) present(f runes.StillImage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = f.RGBA
}

func (v *viewer) Update() error { return nil }

func (v *viewer) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	pending := v.pending
	v.pending = nil
	v.mu.Unlock()

	if v.img == nil {
		v.img = ebiten.NewImage(v.size, v.size)
	}
	if pending != nil {
		v.img.WritePixels(pending.Pix)
	}
	screen.DrawImage(v.img, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.size, v.size
}

func main() {
	var (
		sceneName  string
		mode       string
		frames     int
		configPath string
		verbose    bool
	)
	flag.StringVar(&sceneName, "scene", "heart", "Scene to show; a comma-separated `list` in slideshow mode")
	flag.StringVar(&mode, "mode", "hollusion", "Display `mode`: plain, stereo, hollusion or slideshow")
	flag.IntVar(&frames, "frames", 0, "Number of hollusion frames")
	flag.StringVar(&configPath, "config", "", "TOML or YAML configuration `file`")
	flag.BoolVar(&verbose, "v", false, "Be verbose")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := view(sceneName, mode, frames, configPath, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func view(sceneName, mode string, frames int, configPath string, logger *slog.Logger) error {
	cfg := runes.DefaultConfig
	if configPath != "" {
		var err error
		cfg, err = runes.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("couldn't load configuration: %w", err)
		}
	}

	// the window owns the GPU, so frames are drawn in software
	r, err := runes.New(cpu_engine.New(logger), cfg, logger)
	if err != nil {
		return fmt.Errorf("couldn't create renderer: %w", err)
	}
	defer r.Close()

	v := &viewer{size: cfg.ViewportSize}
	switch mode {
	case "plain", "stereo":
		rn, err := samples.Get(sceneName)
		if err != nil {
			return err
		}
		var img runes.StillImage
		if mode == "plain" {
			img, err = r.Render(rn)
		} else {
			img, err = r.RenderStereo(rn)
		}
		if err != nil {
			return fmt.Errorf("couldn't render %s: %w", sceneName, err)
		}
		v.present(img)
	case "hollusion":
		rn, err := samples.Get(sceneName)
		if err != nil {
			return err
		}
		if _, err := r.RenderAnimated(rn, frames, v.present); err != nil {
			return fmt.Errorf("couldn't render %s: %w", sceneName, err)
		}
	case "slideshow":
		rns, err := samples.List(sceneName)
		if err != nil {
			return err
		}
		if _, err := r.Animate(rns, v.present); err != nil {
			return fmt.Errorf("couldn't render slideshow: %w", err)
		}
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	ebiten.SetWindowTitle("runes: " + sceneName)
	ebiten.SetWindowSize(cfg.ViewportSize, cfg.ViewportSize)
	return ebiten.RunGame(v)
}
