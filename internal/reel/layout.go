// Package reel holds the screen-space side of the poster reel: the layout
// that measures the rendered strip for the motion engine and the input
// tracker that turns sampled mouse, touch and cursor state into slider events.
package reel

import "math"

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (px, py) lies inside the rectangle.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.W &&
		py >= r.Y && py <= r.Y+r.H
}

// Layout places a row of equally sized items separated by a fixed gap inside
// a clipping viewport. It implements slider.Geometry: every width is derived
// from the current viewport and item counts when asked.
type Layout struct {
	ItemWidth float64
	Gap       float64
	Viewport  Rect

	// Rendered returns the number of items in the replicated strip.
	Rendered func() int
	// Base returns the number of items in one copy of the content.
	Base func() int
}

// Pitch is the distance between the left edges of neighbouring items.
func (l *Layout) Pitch() float64 { return l.ItemWidth + l.Gap }

func (l *Layout) ViewportWidth() float64 {
	return math.Max(l.Viewport.W, 0)
}

// TrackWidth is the width of the whole strip as laid out: items plus the gaps
// between them.
func (l *Layout) TrackWidth() float64 {
	n := count(l.Rendered)
	if n == 0 {
		return 0
	}
	return float64(n)*l.ItemWidth + float64(n-1)*l.Gap
}

// BaseWidth is the distance one copy of the content occupies in the strip,
// including the gap that joins it to the next copy.
func (l *Layout) BaseWidth() float64 {
	return float64(count(l.Base)) * l.Pitch()
}

// ItemX is the screen x of item i at the given track offset.
func (l *Layout) ItemX(i int, offset float64) float64 {
	return l.Viewport.X + offset + float64(i)*l.Pitch()
}

// Visible returns the half-open range [first, last) of rendered items that
// intersect the viewport at offset.
func (l *Layout) Visible(offset float64) (first, last int) {
	n := count(l.Rendered)
	p := l.Pitch()
	if n == 0 || p <= 0 || l.Viewport.W <= 0 {
		return 0, 0
	}
	// item i is visible when offset + i*p + w > 0 and offset + i*p < W
	first = int(math.Floor((-offset-l.ItemWidth)/p)) + 1
	last = int(math.Ceil((l.Viewport.W - offset) / p))
	first = min(max(first, 0), n)
	last = min(max(last, first), n)
	return first, last
}

// ItemAt returns the rendered index under screen x, or -1 when x falls in a
// gap or outside the strip.
func (l *Layout) ItemAt(x, offset float64) int {
	p := l.Pitch()
	if p <= 0 {
		return -1
	}
	rel := x - l.Viewport.X - offset
	if rel < 0 {
		return -1
	}
	i := int(rel / p)
	if i >= count(l.Rendered) || rel-float64(i)*p > l.ItemWidth {
		return -1
	}
	return i
}

func count(f func() int) int {
	if f == nil {
		return 0
	}
	return max(f(), 0)
}
