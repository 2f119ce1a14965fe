// Package geometry provides the geometric primitives shared by the layout
// and overlay stages: points, boxes, and the element-to-viewport transform.
package geometry

import (
	"math"
)

// Point represents a 2D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint creates a new Point.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Box represents an axis-aligned bounding box. Left/Top name the minimum
// corner because that is the vocabulary recognition providers use.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBox creates a new Box.
func NewBox(left, top, width, height float64) Box {
	return Box{Left: left, Top: top, Width: width, Height: height}
}

// BoxFromCorners builds the box spanned by two arbitrary corner points.
func BoxFromCorners(a, b Point) Box {
	return Box{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Width:  math.Abs(a.X - b.X),
		Height: math.Abs(a.Y - b.Y),
	}
}

// Right returns the maximum x coordinate.
func (b Box) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the maximum y coordinate.
func (b Box) Bottom() float64 {
	return b.Top + b.Height
}

// Origin returns the minimum corner.
func (b Box) Origin() Point {
	return Point{X: b.Left, Y: b.Top}
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// Contains returns true if the point is inside the box.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Left && p.X <= b.Right() &&
		p.Y >= b.Top && p.Y <= b.Bottom()
}

// Intersects returns true if this box intersects with another.
func (b Box) Intersects(other Box) bool {
	return b.Left < other.Right() && b.Right() > other.Left &&
		b.Top < other.Bottom() && b.Bottom() > other.Top
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(other Box) Box {
	left := math.Min(b.Left, other.Left)
	top := math.Min(b.Top, other.Top)
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())
	return Box{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Scale returns the box with every component multiplied by a factor.
func (b Box) Scale(factor float64) Box {
	return Box{
		Left:   b.Left * factor,
		Top:    b.Top * factor,
		Width:  b.Width * factor,
		Height: b.Height * factor,
	}
}

// Denormalize promotes a box expressed as 0-1 fractions of an image into that
// image's pixel space. Boxes already in pixel space must not pass through
// here; callers decide using the source's normalized flag or heuristic.
func (b Box) Denormalize(imageWidth, imageHeight float64) Box {
	return Box{
		Left:   b.Left * imageWidth,
		Top:    b.Top * imageHeight,
		Width:  b.Width * imageWidth,
		Height: b.Height * imageHeight,
	}
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// IsZero reports whether either dimension is missing.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point{X: sumX / n, Y: sumY / n}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Box{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}
