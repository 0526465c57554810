// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

// Hex values of the fixed palette.
const (
	HexRed    = "#F44336"
	HexPink   = "#E91E63"
	HexPurple = "#AA00FF"
	HexIndigo = "#3F51B5"
	HexBlue   = "#2196F3"
	HexGreen  = "#4CAF50"
	HexYellow = "#FFEB3B"
	HexOrange = "#FF9800"
	HexBrown  = "#795548"
	HexBlack  = "#000000"
	HexWhite  = "#FFFFFF"
)

var (
	Red    = mustHex(HexRed)
	Pink   = mustHex(HexPink)
	Purple = mustHex(HexPurple)
	Indigo = mustHex(HexIndigo)
	Blue   = mustHex(HexBlue)
	Green  = mustHex(HexGreen)
	Yellow = mustHex(HexYellow)
	Orange = mustHex(HexOrange)
	Brown  = mustHex(HexBrown)
	Black  = mustHex(HexBlack)
	White  = mustHex(HexWhite)
)

// DefaultColor is what an instance gets when no ancestor names a colour.
var DefaultColor = RGBA{0, 0, 0, 1}

var palette = map[string]RGBA{
	"red":    Red,
	"pink":   Pink,
	"purple": Purple,
	"indigo": Indigo,
	"blue":   Blue,
	"green":  Green,
	"yellow": Yellow,
	"orange": Orange,
	"brown":  Brown,
	"black":  Black,
	"white":  White,
}

// Named looks up a palette colour by its lower-case name.
func Named(name string) (RGBA, bool) {
	c, ok := palette[name]
	return c, ok
}
