// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package renderer turns instance batches into pixels. A [Session] records
// draws as a [Recording] of commands and hands them to an [Engine].
package renderer

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/runes/encoding"
	"honnef.co/go/runes/geometry"
	"honnef.co/go/runes/mem"
	"honnef.co/go/runes/profiler"
	"honnef.co/go/safeish"
)

type State int

const (
	StateIdle State = iota
	StatePrepared
	StateDrawing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrepared:
		return "prepared"
	case StateDrawing:
		return "drawing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is one logical rendering context. It serialises draws: at most
// one is in flight at a time.
//
// Device errors are fatal. Once the engine has reported one, every further
// call returns it until Reset succeeds.
type Session struct {
	mu     sync.Mutex
	eng    Engine
	reg    *geometry.Registry
	cfg    Config
	logger *slog.Logger
	pgroup profiler.ProfilerGroup

	state    State
	compiled map[Program]bool
	uploaded bool
	vertices BufferProxy
	indices  BufferProxy
	comp     *Compositor
	arena    mem.Arena[float32]
	err      error
}

func NewSession(eng Engine, reg *geometry.Registry, cfg Config, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		eng:      eng,
		reg:      reg,
		cfg:      cfg,
		logger:   logger,
		pgroup:   profiler.NewSlogGroup(logger),
		compiled: make(map[Program]bool),
		comp:     NewCompositor(cfg.TargetSize()),
	}, nil
}

// SetProfiler replaces the profiler group draws open their spans in.
func (s *Session) SetProfiler(pgroup profiler.ProfilerGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pgroup = pgroup
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Config() Config { return s.cfg }

// Prepare compiles p, if it hasn't been compiled yet, and uploads the
// geometry pools on first use. Draws prepare the programs they need
// themselves.
func (s *Session) Prepare(p Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepare(p)
}

func (s *Session) prepare(p Program) error {
	if s.eng == nil {
		return ErrRenderContextUnavailable
	}
	if s.err != nil {
		return s.err
	}
	if !s.compiled[p] {
		if err := s.eng.Compile(p); err != nil {
			return s.fail(err)
		}
		s.compiled[p] = true
		s.logger.Debug("compiled program", "program", p)
	}
	if !s.uploaded {
		var rec Recording
		s.vertices = rec.Upload("vertices", UsageVertex, HintStatic, safeish.SliceCast[[]byte](s.reg.Vertices()))
		s.indices = rec.Upload("indices", UsageIndex, HintStatic, safeish.SliceCast[[]byte](s.reg.Indices()))
		if _, err := s.eng.RunRecording(&rec, s.pgroup); err != nil {
			return s.fail(err)
		}
		s.uploaded = true
		s.logger.Debug("uploaded geometry pools",
			"vertices", len(s.reg.Vertices()),
			"indices", len(s.reg.Indices()))
	}
	s.state = StatePrepared
	return nil
}

func (s *Session) fail(err error) error {
	s.err = err
	s.state = StateIdle
	s.logger.Error("render session failed", "error", err)
	return err
}

// begin prepares programs and moves to the drawing state. Callers must
// hold mu and call end when done.
func (s *Session) begin(programs ...Program) error {
	for _, p := range programs {
		if err := s.prepare(p); err != nil {
			return err
		}
	}
	s.state = StateDrawing
	s.arena.Reset()
	return nil
}

func (s *Session) end() {
	if s.state == StateDrawing {
		s.state = StateIdle
	}
}

// recordBatches records one instanced draw per batch into target. Each
// draw gets its own stream buffer, freed right after the draw.
func (s *Session) recordBatches(rec *Recording, batches []encoding.Batch, p Program, target ImageProxy, u EyeUniforms) {
	for _, b := range batches {
		if b.Primitive.IsBlank() || len(b.Instances) == 0 {
			continue
		}
		stream := encoding.EncodeInstances(&s.arena, b)
		buf := rec.Upload("instances/"+b.Primitive.Name, UsageInstance, HintStream, encoding.Bytes(stream))
		rec.DrawInstanced(DrawInstanced{
			Program:       p,
			Target:        target,
			Vertices:      s.vertices,
			Indices:       s.indices,
			Instances:     buf,
			FirstIndex:    b.Primitive.FirstIndex,
			IndexCount:    b.Primitive.IndexCount,
			InstanceCount: uint32(len(b.Instances)),
			Uniforms:      u,
		})
		rec.FreeBuffer(buf)
	}
}

func (s *Session) run(rec *Recording, pgroup profiler.ProfilerGroup, want int) ([]*image.RGBA, error) {
	imgs, err := s.eng.RunRecording(rec, pgroup)
	if err != nil {
		return nil, s.fail(err)
	}
	if len(imgs) != want {
		panic(fmt.Sprintf("engine returned %d images for %d downloads", len(imgs), want))
	}
	for i, img := range imgs {
		imgs[i] = Resolve(img, s.cfg.ViewportSize)
	}
	return imgs, nil
}

// DrawPlain draws batches with the plain program.
func (s *Session) DrawPlain(batches []encoding.Batch) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pgroup := s.pgroup.Start("DrawPlain")
	defer pgroup.End()

	if err := s.begin(ProgramPlain); err != nil {
		return nil, err
	}
	defer s.end()

	var rec Recording
	screen := s.comp.Screen()
	rec.BeginPass(screen, true, ClearColor)
	s.recordBatches(&rec, batches, ProgramPlain, screen, EyeUniforms{})
	rec.Download(screen)

	imgs, err := s.run(&rec, pgroup, 1)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("drew plain frame", "batches", len(batches), "instances", encoding.Count(batches))
	return imgs[0], nil
}

// DrawStereo draws batches once per eye into the eye targets and combines
// them into an anaglyph.
func (s *Session) DrawStereo(batches []encoding.Batch, left, right Eye) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pgroup := s.pgroup.Start("DrawStereo")
	defer pgroup.End()

	if err := s.begin(ProgramEye, ProgramCombine); err != nil {
		return nil, err
	}
	defer s.end()

	var rec Recording
	s.comp.Clear(&rec)
	s.recordBatches(&rec, batches, ProgramEye, s.comp.Left(), left.uniforms())
	s.recordBatches(&rec, batches, ProgramEye, s.comp.Right(), right.uniforms())
	s.comp.Combine(&rec)
	rec.Download(s.comp.Screen())

	imgs, err := s.run(&rec, pgroup, 1)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("drew stereo frame", "batches", len(batches), "instances", encoding.Count(batches))
	return imgs[0], nil
}

// DrawSequence draws one frame per camera with the eye program and a
// neutral filter.
func (s *Session) DrawSequence(batches []encoding.Batch, cameras []mgl32.Mat4) ([]*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pgroup := s.pgroup.Start("DrawSequence")
	defer pgroup.End()

	if err := s.begin(ProgramEye); err != nil {
		return nil, err
	}
	defer s.end()

	var rec Recording
	screen := s.comp.Screen()
	for _, cam := range cameras {
		rec.BeginPass(screen, true, ClearColor)
		s.recordBatches(&rec, batches, ProgramEye, screen, EyeUniforms{Camera: cam, Filter: NeutralFilter})
		rec.Download(screen)
	}

	imgs, err := s.run(&rec, pgroup, len(cameras))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("drew frame sequence", "frames", len(cameras), "batches", len(batches))
	return imgs, nil
}

// Reset tears down and recreates the render targets and geometry pools,
// and clears a previous device error. It is used after the underlying
// surface has been lost.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return ErrRenderContextUnavailable
	}

	var rec Recording
	s.comp.Reset(&rec)
	if s.uploaded {
		rec.FreeBuffer(s.vertices)
		rec.FreeBuffer(s.indices)
	}
	s.uploaded = false
	clear(s.compiled)
	s.err = nil
	s.state = StateIdle
	if _, err := s.eng.RunRecording(&rec, s.pgroup); err != nil {
		return s.fail(err)
	}
	s.logger.Debug("reset render session")
	return nil
}

// Close releases the engine. Later calls fail with
// ErrRenderContextUnavailable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return
	}
	s.eng.Release()
	s.eng = nil
	s.state = StateIdle
}
