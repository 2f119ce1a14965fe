package overlay

import "github.com/carelayer/scanform/pkg/geometry"

// Zoom bounds and the step applied by the discrete zoom controls.
const (
	MinZoom  = 0.25
	MaxZoom  = 3.0
	ZoomStep = 0.25
)

// ViewState is the live zoom and pan of the viewport. Values are immutable;
// every mutation returns the adjusted state.
type ViewState struct {
	Zoom float64
	Pan  geometry.Point
}

// NewViewState starts at 1:1 zoom with no pan.
func NewViewState() ViewState {
	return ViewState{Zoom: 1}
}

// ZoomIn steps the zoom up, clamped to MaxZoom.
func (v ViewState) ZoomIn() ViewState {
	return v.WithZoom(v.Zoom + ZoomStep)
}

// ZoomOut steps the zoom down, clamped to MinZoom.
func (v ViewState) ZoomOut() ViewState {
	return v.WithZoom(v.Zoom - ZoomStep)
}

// WithZoom sets an absolute zoom level, clamped to the allowed range.
func (v ViewState) WithZoom(zoom float64) ViewState {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	v.Zoom = zoom
	return v
}

// PanBy translates the pan offset by a viewport-space delta.
func (v ViewState) PanBy(dx, dy float64) ViewState {
	v.Pan = v.Pan.Add(geometry.Point{X: dx, Y: dy})
	return v
}

// Reset returns to the initial fit: 1:1 zoom, centered.
func (v ViewState) Reset() ViewState {
	return NewViewState()
}
