package main

import (
	"fmt"
	"log/slog"

	"honnef.co/go/runes/engine/cpu_engine"
	"honnef.co/go/runes/engine/wgpu_engine"
	"honnef.co/go/runes/renderer"
)

func openEngine(name string, logger *slog.Logger) (renderer.Engine, error) {
	switch name {
	case "cpu":
		return cpu_engine.New(logger), nil
	case "wgpu":
		eng, err := wgpu_engine.NewHeadless(logger)
		if err != nil {
			return nil, err
		}
		return eng, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}
