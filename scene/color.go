package scene

import "honnef.co/go/runes/gfx"

func Red(r Rune) Rune    { return Colored(gfx.Red, r) }
func Pink(r Rune) Rune   { return Colored(gfx.Pink, r) }
func Purple(r Rune) Rune { return Colored(gfx.Purple, r) }
func Indigo(r Rune) Rune { return Colored(gfx.Indigo, r) }
func Blue(r Rune) Rune   { return Colored(gfx.Blue, r) }
func Green(r Rune) Rune  { return Colored(gfx.Green, r) }
func Yellow(r Rune) Rune { return Colored(gfx.Yellow, r) }
func Orange(r Rune) Rune { return Colored(gfx.Orange, r) }
func Brown(r Rune) Rune  { return Colored(gfx.Brown, r) }
func Black(r Rune) Rune  { return Colored(gfx.Black, r) }
func White(r Rune) Rune  { return Colored(gfx.White, r) }
