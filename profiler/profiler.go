// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package profiler

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

type ProfilerGroup interface {
	Start(label string) ProfilerGroup
	End()
}

// Nop discards all spans.
type Nop struct{}

func (Nop) Start(string) ProfilerGroup { return Nop{} }
func (Nop) End()                       {}

// SlogGroup measures wall-clock spans and logs them at debug level when
// they end. Nested spans are logged with their full path, e.g.
// "DrawStereo/RunRecording".
type SlogGroup struct {
	logger   *slog.Logger
	Label    string
	cpuStart time.Time
	cpuEnd   time.Time
	parent   *SlogGroup
}

// NewSlogGroup returns the root group. The root itself is never ended.
func NewSlogGroup(logger *slog.Logger) *SlogGroup {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogGroup{logger: logger}
}

func (g *SlogGroup) Start(label string) ProfilerGroup {
	return &SlogGroup{
		logger:   g.logger,
		Label:    label,
		cpuStart: time.Now(),
		parent:   g,
	}
}

func (g *SlogGroup) End() {
	if !g.cpuEnd.IsZero() {
		panic("trying to end same group twice")
	}
	g.cpuEnd = time.Now()
	if !g.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	g.logger.Debug("span", "label", g.Path(), "duration", g.Duration())
}

// Path is the slash-separated list of labels from the root to g.
func (g *SlogGroup) Path() string {
	var labels []string
	for cur := g; cur != nil && cur.parent != nil; cur = cur.parent {
		labels = append(labels, cur.Label)
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, "/")
}

// Duration is the span's length. It is zero until End has been called.
func (g *SlogGroup) Duration() time.Duration {
	if g.cpuEnd.IsZero() {
		return 0
	}
	return g.cpuEnd.Sub(g.cpuStart)
}
