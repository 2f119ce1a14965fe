package geometry

import (
	"errors"
	"math"
)

// ErrImageNotReady is returned when a view transform is requested before the
// natural dimensions of the page image are known.
var ErrImageNotReady = errors.New("geometry: image dimensions unavailable")

// ViewTransform maps natural image pixel coordinates onto the viewport. It
// bundles the fit-to-viewport scale, the live zoom factor, the centering
// offset, and the user pan so draw passes apply one consistent mapping.
type ViewTransform struct {
	Scale  float64
	Offset Point
}

// FitScale computes the scale that fits an image inside a viewport while
// preserving aspect ratio. Margin leaves breathing room around the image
// (1.0 fills the viewport exactly).
func FitScale(image, viewport Size, margin float64) float64 {
	if image.IsZero() || viewport.IsZero() {
		return 0
	}
	scale := math.Min(viewport.Width/image.Width, viewport.Height/image.Height)
	if margin > 0 {
		scale *= margin
	}
	return scale
}

// NewViewTransform derives the image-to-viewport mapping for one draw pass.
// The effective scale is the fit scale multiplied by zoom; the offset centers
// the scaled image in the viewport and then applies the pan translation in
// viewport space, so zoom and pan compose without re-deriving the fit.
func NewViewTransform(image, viewport Size, margin, zoom float64, pan Point) (ViewTransform, error) {
	if image.IsZero() {
		return ViewTransform{}, ErrImageNotReady
	}
	if viewport.IsZero() {
		return ViewTransform{}, errors.New("geometry: viewport dimensions unavailable")
	}
	if zoom <= 0 {
		zoom = 1
	}

	scale := FitScale(image, viewport, margin) * zoom
	offset := Point{
		X: (viewport.Width-image.Width*scale)/2 + pan.X,
		Y: (viewport.Height-image.Height*scale)/2 + pan.Y,
	}
	return ViewTransform{Scale: scale, Offset: offset}, nil
}

// ApplyPoint maps a pixel-space point into viewport space.
func (t ViewTransform) ApplyPoint(p Point) Point {
	return Point{
		X: p.X*t.Scale + t.Offset.X,
		Y: p.Y*t.Scale + t.Offset.Y,
	}
}

// Apply maps a pixel-space box into viewport space. Position picks up the
// offset, extent scales alone.
func (t ViewTransform) Apply(b Box) Box {
	return Box{
		Left:   b.Left*t.Scale + t.Offset.X,
		Top:    b.Top*t.Scale + t.Offset.Y,
		Width:  b.Width * t.Scale,
		Height: b.Height * t.Scale,
	}
}

// InvertPoint maps a viewport-space point back into pixel space.
func (t ViewTransform) InvertPoint(p Point) (Point, error) {
	if t.Scale == 0 {
		return Point{}, errors.New("geometry: cannot invert zero-scale transform")
	}
	return Point{
		X: (p.X - t.Offset.X) / t.Scale,
		Y: (p.Y - t.Offset.Y) / t.Scale,
	}, nil
}

// Invert maps a viewport-space box back into pixel space. It is the exact
// inverse of Apply, so round-tripping a box recovers the original values up
// to floating-point error.
func (t ViewTransform) Invert(b Box) (Box, error) {
	if t.Scale == 0 {
		return Box{}, errors.New("geometry: cannot invert zero-scale transform")
	}
	return Box{
		Left:   (b.Left - t.Offset.X) / t.Scale,
		Top:    (b.Top - t.Offset.Y) / t.Scale,
		Width:  b.Width / t.Scale,
		Height: b.Height / t.Scale,
	}, nil
}
