// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package runes renders compositions of vector primitives built with
// package scene, either flat, as red/cyan anaglyphs, or as hollusions: a
// looping parallax animation that sweeps the camera across the eye
// baseline.
package runes

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"honnef.co/go/runes/encoding"
	"honnef.co/go/runes/geometry"
	"honnef.co/go/runes/renderer"
	"honnef.co/go/runes/scene"
)

// StillImage is one rendered frame at the configured viewport size.
type StillImage struct {
	*image.RGBA
}

// Save writes the image as a PNG file.
func (img StillImage) Save(path string) error {
	if img.RGBA == nil {
		return errors.New("save: empty image")
	}
	if err := imgio.Save(path, img.RGBA, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Renderer is the entry point for drawing runes. It owns a render session
// and at most one running animation; starting any render cancels that
// animation.
type Renderer struct {
	cfg     Config
	logger  *slog.Logger
	session *renderer.Session

	mu     sync.Mutex
	active *AnimatedHandle
}

// New creates a renderer drawing with eng. The renderer takes ownership of
// eng and releases it in Close.
func New(eng renderer.Engine, cfg Config, logger *slog.Logger) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	session, err := renderer.NewSession(eng, geometry.Default().Registry, cfg.session(), logger)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:     cfg,
		logger:  logger,
		session: session,
	}, nil
}

func (r *Renderer) Config() Config { return r.cfg }

// Session gives access to the underlying render session, e.g. to install
// a profiler.
func (r *Renderer) Session() *renderer.Session { return r.session }

func (r *Renderer) cancelActive() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		r.active.Cancel()
		r.active = nil
	}
}

func (r *Renderer) setActive(h *AnimatedHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = h
}

// Render draws rn flat, ignoring depth except for occlusion.
func (r *Renderer) Render(rn scene.Rune) (StillImage, error) {
	r.cancelActive()
	img, err := r.session.DrawPlain(encoding.Flatten(rn))
	if err != nil {
		return StillImage{}, fmt.Errorf("render: %w", err)
	}
	return StillImage{img}, nil
}

// RenderStereo draws rn as a red/cyan anaglyph.
func (r *Renderer) RenderStereo(rn scene.Rune) (StillImage, error) {
	r.cancelActive()
	left, right := renderer.CameraPair(r.cfg.HalfEyeDistance, r.cfg.LookAtDepth)
	img, err := r.session.DrawStereo(encoding.Flatten(rn), left, right)
	if err != nil {
		return StillImage{}, fmt.Errorf("render stereo: %w", err)
	}
	return StillImage{img}, nil
}

// RenderAnimated draws n frames of rn with the camera sweeping across the
// eye baseline and plays them back and forth through present. n is raised
// to MinHollusionFrames if it is smaller. A nil present renders the frames
// without starting playback.
func (r *Renderer) RenderAnimated(rn scene.Rune, n int, present func(StillImage)) (*AnimatedHandle, error) {
	r.cancelActive()
	n = max(n, r.cfg.MinHollusionFrames)
	cams := renderer.SweepCameras(n, r.cfg.HalfEyeDistance, r.cfg.LookAtDepth)
	imgs, err := r.session.DrawSequence(encoding.Flatten(rn), cams)
	if err != nil {
		return nil, fmt.Errorf("render animated: %w", err)
	}
	frames := make([]StillImage, len(imgs))
	for i, img := range imgs {
		frames[i] = StillImage{img}
	}
	delay := r.cfg.HollusionCycle.Std() / time.Duration(n)
	h := newAnimatedHandle(frames, PlaybackOrder(n), delay, present)
	r.logger.Debug("starting hollusion", "frames", n, "delay", delay)
	r.setActive(h)
	h.start()
	return h, nil
}

// Animate draws each rune flat and cycles through them every
// SlideInterval.
func (r *Renderer) Animate(runes []scene.Rune, present func(StillImage)) (*AnimatedHandle, error) {
	r.cancelActive()
	if len(runes) == 0 {
		return nil, errors.New("animate: no runes")
	}
	frames := make([]StillImage, len(runes))
	order := make([]int, len(runes))
	for i, rn := range runes {
		img, err := r.session.DrawPlain(encoding.Flatten(rn))
		if err != nil {
			return nil, fmt.Errorf("animate: slide %d: %w", i, err)
		}
		frames[i] = StillImage{img}
		order[i] = i
	}
	h := newAnimatedHandle(frames, order, r.cfg.SlideInterval.Std(), present)
	r.logger.Debug("starting slideshow", "slides", len(runes))
	r.setActive(h)
	h.start()
	return h, nil
}

// Reset recreates the render targets after the output surface was lost and
// clears a previous device error.
func (r *Renderer) Reset() error {
	r.cancelActive()
	return r.session.Reset()
}

// Close stops any animation and releases the engine.
func (r *Renderer) Close() {
	r.cancelActive()
	r.session.Close()
}
