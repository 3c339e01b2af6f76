// Package core provides fundamental types and utilities for the arcade platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect is an integer rectangle in screen cells, used for drawing.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned bounding box in world units.
// Games simulate in world units and only map to cells when rendering.
type Box struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 {
	return b.Y + b.H/2
}

// Overlaps reports whether two boxes share any area.
// Touching edges do not count as overlap.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.Right() && b.Right() > o.X &&
		b.Y < o.Bottom() && b.Bottom() > o.Y
}

// OverlapsX reports whether the horizontal extents overlap.
func (b Box) OverlapsX(o Box) bool {
	return b.X < o.Right() && b.Right() > o.X
}

// Viewport maps a world-unit area onto a rectangle of screen cells.
// Every mapped box covers at least one cell.
type Viewport struct {
	Cells          Rect
	WorldW, WorldH float64
}

// Cell returns the cells covered by b. Boxes above the world's top edge
// are pinned to the first row.
func (v Viewport) Cell(b Box) Rect {
	sx := v.WorldW / float64(v.Cells.W)
	sy := v.WorldH / float64(v.Cells.H)
	x0 := int(b.X/sx) + v.Cells.X
	y0 := max(int(b.Y/sy)+v.Cells.Y, v.Cells.Y)
	x1 := int(math.Ceil(b.Right()/sx)) + v.Cells.X
	y1 := int(math.Ceil(b.Bottom()/sy)) + v.Cells.Y
	return NewRect(x0, y0, max(1, x1-x0), max(1, y1-y0))
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
