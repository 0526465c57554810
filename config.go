// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package runes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
	"honnef.co/go/runes/renderer"
)

// Duration is a time.Duration that config files spell as "500ms".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	parsed, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

type Config struct {
	ViewportSize int `toml:"viewport_size" yaml:"viewport_size"`
	Antialias    int `toml:"antialias" yaml:"antialias"`

	// Half the distance between the two eyes, in scene units.
	HalfEyeDistance float32 `toml:"half_eye_distance" yaml:"half_eye_distance"`
	// Z coordinate of the point both eyes look at.
	LookAtDepth float32 `toml:"look_at_depth" yaml:"look_at_depth"`

	// Length of one forward sweep of a hollusion. Each frame is shown
	// for HollusionCycle/N.
	HollusionCycle     Duration `toml:"hollusion_cycle" yaml:"hollusion_cycle"`
	MinHollusionFrames int      `toml:"min_hollusion_frames" yaml:"min_hollusion_frames"`
	SlideInterval      Duration `toml:"slide_interval" yaml:"slide_interval"`

	// Either "cpu" or "wgpu".
	Engine string `toml:"engine" yaml:"engine"`
}

var DefaultConfig = Config{
	ViewportSize:       renderer.DefaultConfig.ViewportSize,
	Antialias:          renderer.DefaultConfig.Antialias,
	HalfEyeDistance:    0.03,
	LookAtDepth:        -0.4,
	HollusionCycle:     Duration(500 * time.Millisecond),
	MinHollusionFrames: 5,
	SlideInterval:      Duration(500 * time.Millisecond),
	Engine:             "cpu",
}

func (cfg Config) session() renderer.Config {
	return renderer.Config{
		ViewportSize: cfg.ViewportSize,
		Antialias:    cfg.Antialias,
	}
}

func (cfg Config) Validate() error {
	if err := cfg.session().Validate(); err != nil {
		return err
	}
	if cfg.HalfEyeDistance < 0 {
		return fmt.Errorf("half eye distance must not be negative, got %g", cfg.HalfEyeDistance)
	}
	if cfg.LookAtDepth == 0 {
		return fmt.Errorf("look-at depth must not be zero")
	}
	if cfg.HollusionCycle <= 0 {
		return fmt.Errorf("hollusion cycle must be positive, got %s", cfg.HollusionCycle.Std())
	}
	if cfg.MinHollusionFrames < 2 {
		return fmt.Errorf("need at least 2 hollusion frames, got %d", cfg.MinHollusionFrames)
	}
	if cfg.SlideInterval <= 0 {
		return fmt.Errorf("slide interval must be positive, got %s", cfg.SlideInterval.Std())
	}
	switch cfg.Engine {
	case "cpu", "wgpu":
	default:
		return fmt.Errorf("unknown engine %q", cfg.Engine)
	}
	return nil
}

// LoadConfig reads a TOML or YAML file, chosen by extension, on top of
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
