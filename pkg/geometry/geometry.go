// Package geometry provides the normalized-coordinate types used by the
// ROI editor. All ROI geometry lives in the unit square: x, y, w and h are
// fractions of the camera frame, so the same layout applies to any frame
// resolution.
package geometry

import "math"

// MinSize is the smallest normalized width or height an ROI may have.
// Anything smaller is too hard to grab with the pointer.
const MinSize = 0.02

// Clamp bounds v into [low, high]. Callers guarantee low <= high.
func Clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(v, high))
}

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in normalized frame coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NewRect creates a new Rect.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// InUnitSquare reports whether the rectangle lies fully inside [0,1]x[0,1].
func (r Rect) InUnitSquare() bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= 1 && r.Y+r.H <= 1
}

// BoxPercent is a rendering box expressed as percentages of the container,
// the same projection the overlay uses for box placement.
type BoxPercent struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Percent projects the normalized rectangle to percentage-of-container
// coordinates. Deterministic and side-effect free; called once per ROI per
// render and once per pointer move during a drag.
func (r Rect) Percent() BoxPercent {
	return BoxPercent{
		Left:   r.X * 100,
		Top:    r.Y * 100,
		Width:  r.W * 100,
		Height: r.H * 100,
	}
}

// Pixels projects the normalized rectangle onto a w x h pixel surface and
// returns the top-left corner and the box size in pixels.
func (r Rect) Pixels(w, h float64) (x, y, bw, bh float64) {
	return r.X * w, r.Y * h, r.W * w, r.H * h
}

// Round5 rounds every coordinate to 5 decimal places, the precision the
// backend stores ROI layouts with.
func (r Rect) Round5() Rect {
	return Rect{
		X: round5(r.X),
		Y: round5(r.Y),
		W: round5(r.W),
		H: round5(r.H),
	}
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
