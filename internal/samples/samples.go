// Package samples holds named example scenes for the command-line tools.
package samples

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"honnef.co/go/runes/scene"
)

var scenes = map[string]func() scene.Rune{
	"heart":  func() scene.Rune { return scene.Red(scene.Heart) },
	"square": func() scene.Rune { return scene.Scale(0.5, scene.Square) },
	"cross":  func() scene.Rune { return scene.MakeCross(scene.Sail) },
	"pattern": func() scene.Rune {
		return scene.RepeatPattern(3, scene.MakeCross, scene.Blue(scene.Sail))
	},
	"quilt": func() scene.Rune {
		row := scene.Beside(scene.Green(scene.Nova), scene.Pink(scene.RCross))
		return scene.StackN(3, row)
	},
	"ribbon": func() scene.Rune { return scene.Purple(scene.Ribbon) },
	"target": func() scene.Rune {
		// each ring sits a little further back
		r := scene.Scale(0.2, scene.Red(scene.Circle))
		r = scene.Overlay(r, scene.Scale(0.4, scene.White(scene.Circle)))
		r = scene.Overlay(r, scene.Scale(0.6, scene.Red(scene.Circle)))
		return scene.Overlay(r, scene.Scale(0.8, scene.White(scene.Circle)))
	},
	"stars": func() scene.Rune {
		star := scene.Yellow(scene.Pentagram)
		return scene.Stack(
			scene.Beside(star, scene.Rotate(math.Pi/5, star)),
			scene.Beside(scene.Orange(scene.Corner), scene.Indigo(scene.Heart)),
		)
	},
	"depth": func() scene.Rune {
		return scene.OverlayFrac(0.25,
			scene.Scale(0.5, scene.Brown(scene.Heart)),
			scene.Translate(0.2, 0.2, scene.Square))
	},
}

// Names returns the names of all sample scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Get(name string) (scene.Rune, error) {
	fn, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q, want one of %s", name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

// List resolves a comma-separated list of scene names. An empty list means
// all scenes.
func List(spec string) ([]scene.Rune, error) {
	names := Names()
	if spec != "" {
		names = strings.Split(spec, ",")
	}
	out := make([]scene.Rune, 0, len(names))
	for _, name := range names {
		r, err := Get(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
