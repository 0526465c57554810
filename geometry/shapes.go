// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package geometry

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/curve"
)

// Resolution fixes how finely curved primitives are tessellated: no
// outline segment may be longer than MaxArcLength pixels when the unit
// square is drawn at ViewportSize pixels.
type Resolution struct {
	ViewportSize float64
	MaxArcLength float64
}

var DefaultResolution = Resolution{
	ViewportSize: 512,
	MaxArcLength: 20,
}

// Segments returns the number of segments needed for an arc of the given
// sweep (radians) and radius (in unit-square coordinates).
func (res Resolution) Segments(sweep, radius float64) int {
	return int(math.Ceil(sweep * radius * res.ViewportSize / 2 / res.MaxArcLength))
}

// Anchor vertices of the hand-authored set that the fans are built around.
const (
	CenterVertex = 0
	BottomVertex = 7
)

var handVertices = []mgl32.Vec4{
	{0, 0, 0, 1},

	// corners and edge midpoints, anticlockwise from (1, 0)
	{1, 0, 0, 1},
	{1, 1, 0, 1},
	{0, 1, 0, 1},
	{-1, 1, 0, 1},
	{-1, 0, 0, 1},
	{-1, -1, 0, 1},
	{0, -1, 0, 1},
	{1, -1, 0, 1},

	// rcross
	{0.5, 0.5, 0, 1},
	{-0.5, 0.5, 0, 1},
	{-0.5, -0.5, 0, 1},
	{0.5, -0.5, 0, 1},

	// nova
	{0, 0.5, 0, 1},
	{-0.5, 0, 0, 1},
}

var handPrimitives = []struct {
	name    string
	indices []int
}{
	{"square", []int{2, 4, 6, 2, 6, 8}},
	{"blank", nil},
	{"rcross", []int{2, 4, 10, 2, 9, 10, 2, 9, 12, 2, 12, 8, 10, 11, 12}},
	{"sail", []int{7, 8, 3}},
	{"corner", []int{1, 2, 3}},
	{"nova", []int{3, 0, 14, 13, 0, 1}},
}

// Builtins is the standard registry together with handles to its named
// primitives.
type Builtins struct {
	*Registry

	Square, Blank, RCross, Sail, Corner, Nova *Primitive
	Circle, Heart, Pentagram, Ribbon          *Primitive
}

// Default returns the process-wide builtins at DefaultResolution. They are
// built on first use and never change afterwards.
var Default = sync.OnceValue(func() *Builtins {
	b, err := NewBuiltins(DefaultResolution)
	if err != nil {
		panic(err)
	}
	return b
})

// NewBuiltins builds the hand-authored primitives followed by the
// procedural ones. The same resolution always yields the same pools.
func NewBuiltins(res Resolution) (*Builtins, error) {
	b := NewBuilder()
	if _, err := b.AddVertices(handVertices...); err != nil {
		return nil, err
	}
	var hand []*Primitive
	for _, hp := range handPrimitives {
		p, err := b.AddPrimitive(hp.name, hp.indices...)
		if err != nil {
			return nil, err
		}
		hand = append(hand, p)
	}

	circle, err := MakeCircle(b, res)
	if err != nil {
		return nil, err
	}
	heart, err := MakeHeart(b, res)
	if err != nil {
		return nil, err
	}
	pentagram, err := MakePentagram(b)
	if err != nil {
		return nil, err
	}
	ribbon, err := MakeRibbon(b)
	if err != nil {
		return nil, err
	}

	return &Builtins{
		Registry:  b.Build(),
		Square:    hand[0],
		Blank:     hand[1],
		RCross:    hand[2],
		Sail:      hand[3],
		Corner:    hand[4],
		Nova:      hand[5],
		Circle:    circle,
		Heart:     heart,
		Pentagram: pentagram,
		Ribbon:    ribbon,
	}, nil
}

func vec4(p curve.Point) mgl32.Vec4 {
	return mgl32.Vec4{float32(p.X), float32(p.Y), 0, 1}
}

func vec4s(pts []curve.Point) []mgl32.Vec4 {
	out := make([]mgl32.Vec4, len(pts))
	for i, p := range pts {
		out[i] = vec4(p)
	}
	return out
}

// CircleOutline returns the unit circle's outline, starting at (1, 0) and
// running anticlockwise.
func CircleOutline(res Resolution) []curve.Point {
	n := res.Segments(2*math.Pi, 1)
	pts := make([]curve.Point, n)
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = origin.Translate(curve.VecFromAngle(angle))
	}
	return pts
}

var origin = curve.Pt(0, 0)

// LongestSegment returns the length, in pixels at the resolution's
// viewport size, of the longest edge between consecutive points. closed
// includes the edge from the last point back to the first.
func (res Resolution) LongestSegment(pts []curve.Point, closed bool) float64 {
	var longest float64
	for i := 1; i < len(pts); i++ {
		longest = max(longest, pts[i-1].Distance(pts[i]))
	}
	if closed && len(pts) > 1 {
		longest = max(longest, pts[len(pts)-1].Distance(pts[0]))
	}
	return longest * res.ViewportSize / 2
}

func (res Resolution) checkOutline(name string, pts []curve.Point, closed bool) error {
	if l := res.LongestSegment(pts, closed); l > res.MaxArcLength {
		return fmt.Errorf("%s: segment of %g px exceeds maximum arc length %g", name, l, res.MaxArcLength)
	}
	return nil
}

// MakeCircle fans the circle outline around the centre vertex.
func MakeCircle(b *Builder, res Resolution) (*Primitive, error) {
	pts := CircleOutline(res)
	if err := res.checkOutline("circle", pts, true); err != nil {
		return nil, err
	}
	first, err := b.AddVertices(vec4s(pts)...)
	if err != nil {
		return nil, err
	}
	n := len(pts)
	indices := make([]int, 0, 3*n)
	for i := first; i < first+n-1; i++ {
		indices = append(indices, CenterVertex, i, i+1)
	}
	indices = append(indices, CenterVertex, first, first+n-1)
	return b.AddPrimitive("circle", indices...)
}

// HeartOutline returns the two lobes of the heart, right lobe first. The
// lobes are arcs of radius r chosen so that the outline touches the unit
// square, with x stretched to fill it.
func HeartOutline(res Resolution) []curve.Point {
	r := 4 / (2 + 3*math.Sqrt2)
	stretch := curve.Scale(1/(r*(1+math.Sqrt2/2)), 1)
	n := res.Segments(math.Pi, r)

	lobe := func(center curve.Point, angle float64) curve.Point {
		return center.Translate(curve.VecFromAngle(angle).Mul(r)).Transform(stretch)
	}
	pts := make([]curve.Point, 0, 2*n+1)
	right := curve.Pt(r/math.Sqrt2, 1-r)
	for i := range n {
		pts = append(pts, lobe(right, math.Pi*(-1.0/4+float64(i)/float64(n))))
	}
	left := curve.Pt(-r/math.Sqrt2, 1-r)
	for i := 0; i <= n; i++ {
		pts = append(pts, lobe(left, math.Pi*(1.0/4+float64(i)/float64(n))))
	}
	return pts
}

// MakeHeart fans the heart outline around the bottom-middle vertex.
func MakeHeart(b *Builder, res Resolution) (*Primitive, error) {
	pts := HeartOutline(res)
	if err := res.checkOutline("heart", pts, false); err != nil {
		return nil, err
	}
	first, err := b.AddVertices(vec4s(pts)...)
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, 3*(len(pts)-1))
	for i := first; i < first+len(pts)-1; i++ {
		indices = append(indices, BottomVertex, i, i+1)
	}
	return b.AddPrimitive("heart", indices...)
}

// PentagramPoints returns the five star tips on the unit circle, starting
// right of the top and going clockwise around to the top.
func PentagramPoints() []curve.Point {
	pts := make([]curve.Point, 5)
	for k := range pts {
		angle := math.Pi/10 - float64(k)*2*math.Pi/5
		pts[k] = origin.Translate(curve.VecFromAngle(angle))
	}
	return pts
}

// MakePentagram joins every tip to the tip two steps on, each triangle
// closed at the centre vertex.
func MakePentagram(b *Builder) (*Primitive, error) {
	first, err := b.AddVertices(vec4s(PentagramPoints())...)
	if err != nil {
		return nil, err
	}
	var indices []int
	for i := range 5 {
		indices = append(indices, CenterVertex, first+i, first+(i+2)%5)
	}
	return b.AddPrimitive("pentagram", indices...)
}

const (
	ribbonThetaMax = 30
	ribbonStep     = 0.1
)

// RibbonPoints returns the spiral ribbon as pairs of inner and outer edge
// points. Sampling is done on an integer counter so the point count is
// exactly 2*ceil(thetaMax/step).
func RibbonPoints() []curve.Point {
	const thickness = -1.0 / ribbonThetaMax
	steps := int(math.Ceil(ribbonThetaMax / ribbonStep))
	pts := make([]curve.Point, 0, 2*steps)
	for k := range steps {
		theta := float64(k) * ribbonStep
		dir := curve.VecFromAngle(theta)
		inner := origin.Translate(dir.Mul(theta / ribbonThetaMax))
		width := dir.Mul(thickness)
		outer := inner.Translate(curve.Vec(math.Abs(width.X), math.Abs(width.Y)))
		pts = append(pts, inner, outer)
	}
	return pts
}

// MakeRibbon registers the ribbon as a triangle strip unrolled into a list.
func MakeRibbon(b *Builder) (*Primitive, error) {
	pts := RibbonPoints()
	indices := make([]int, 0, 3*(len(pts)-2))
	for i := 0; i < len(pts)-2; i++ {
		indices = append(indices, i, i+1, i+2)
	}
	return b.Register("ribbon", vec4s(pts), indices)
}
