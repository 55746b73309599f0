// Package core provides fundamental types and utilities for the digger platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect is an area of screen cells, half-open on the right and bottom.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// CenteredRect returns a w×h rectangle centered inside a screen of the given size.
func CenteredRect(screenW, screenH, w, h int) Rect {
	return Rect{X: (screenW - w) / 2, Y: (screenH - h) / 2, W: w, H: h}
}

// Contains reports whether cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Vec2 is a point or offset in world space (pixels, y pointing up).
type Vec2 struct {
	X, Y float64
}

// V creates a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Distance returns the euclidean distance between two points.
func (v Vec2) Distance(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// ClampF restricts a value to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
