package overlay

import "github.com/carelayer/scanform/pkg/geometry"

// MinDragSize is the viewport-pixel threshold a manual capture drag must
// exceed on both axes before a box is emitted.
const MinDragSize = 10.0

// Tracker follows one manual-rectangle gesture: pointer down starts it,
// moves update the preview, pointer up either emits a capture box or
// abandons the drag. Gestures are strictly sequential; a new down while
// dragging restarts.
type Tracker struct {
	active  bool
	start   geometry.Point
	current geometry.Point
}

// Active reports whether a drag is in progress.
func (t *Tracker) Active() bool {
	return t.active
}

// Down records the drag start point.
func (t *Tracker) Down(p geometry.Point) {
	t.active = true
	t.start = p
	t.current = p
}

// Move updates the drag and returns the preview rectangle to draw dashed
// over the scene. ok is false when no drag is active.
func (t *Tracker) Move(p geometry.Point) (preview geometry.Box, ok bool) {
	if !t.active {
		return geometry.Box{}, false
	}
	t.current = p
	return geometry.BoxFromCorners(t.start, t.current), true
}

// Up finishes the gesture. The capture box, in viewport space with its
// corner at the minimum of start and end, is emitted only when the drag
// exceeded MinDragSize on both axes; smaller drags are abandoned.
func (t *Tracker) Up(p geometry.Point) (captured geometry.Box, ok bool) {
	if !t.active {
		return geometry.Box{}, false
	}
	t.active = false
	box := geometry.BoxFromCorners(t.start, p)
	if box.Width <= MinDragSize || box.Height <= MinDragSize {
		return geometry.Box{}, false
	}
	return box, true
}

// Cancel abandons any in-progress drag without emitting a box.
func (t *Tracker) Cancel() {
	t.active = false
}
