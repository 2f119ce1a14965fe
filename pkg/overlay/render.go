// Package overlay renders the review surface: the scanned page image plus
// confidence-colored element boxes, labels, and the manual capture rectangle.
// Scene building is pure and deterministic; rasterization happens separately
// so state transitions can be tested without a drawing surface.
package overlay

import (
	"fmt"
	"image/color"
	"math"

	"github.com/carelayer/scanform/pkg/geometry"
	"github.com/carelayer/scanform/pkg/recognition"
)

// DefaultMargin is the fraction of the viewport the fitted image occupies.
const DefaultMargin = 0.9

// Label layout in viewport pixels.
const (
	labelHeight   = 16.0
	labelGap      = 2.0
	labelMaxRunes = 30
)

const errorPanelMessage = "Unable to display page image"

// Op is one display-list entry. The rasterizer consumes ops in order.
type Op interface{ op() }

// ClearOp wipes the viewport.
type ClearOp struct{}

// ImageOp places the page image into the viewport rectangle Dest.
type ImageOp struct {
	Dest geometry.Box
}

// BoxOp fills and strokes one rectangle. Zero-alpha colors skip their pass.
type BoxOp struct {
	Rect   geometry.Box
	Stroke color.NRGBA
	Fill   color.NRGBA
	Dashed bool
}

// LabelOp draws a background-filled single-line text label with its top-left
// corner at Origin.
type LabelOp struct {
	Text       string
	Origin     geometry.Point
	Background color.NRGBA
	Foreground color.NRGBA
}

// PanelOp draws a filled message panel, the decode-failure fallback.
type PanelOp struct {
	Rect       geometry.Box
	Message    string
	Background color.NRGBA
}

func (ClearOp) op() {}
func (ImageOp) op() {}
func (BoxOp) op()   {}
func (LabelOp) op() {}
func (PanelOp) op() {}

// Scene is an ordered display list for one repaint.
type Scene struct {
	Ops []Op
}

// Toggles control the two overlay display switches.
type Toggles struct {
	ShowBoxes      bool
	ShowConfidence bool
}

// Frame is everything one repaint depends on. Image carries the natural
// dimensions of the decoded page image and stays zero until decoding
// finishes; ImageErr marks a failed decode.
type Frame struct {
	Image    geometry.Size
	ImageErr error
	Elements []recognition.Element
	View     ViewState
	Toggles  Toggles
	DragRect *geometry.Box
}

// Renderer builds repaint scenes for one viewport.
type Renderer struct {
	viewport geometry.Size
	margin   float64
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMargin overrides the fit margin. Values outside (0, 1] keep the
// default.
func WithMargin(margin float64) RendererOption {
	return func(r *Renderer) {
		if margin > 0 && margin <= 1 {
			r.margin = margin
		}
	}
}

// NewRenderer builds a Renderer for a viewport size.
func NewRenderer(viewport geometry.Size, opts ...RendererOption) *Renderer {
	r := &Renderer{viewport: viewport, margin: DefaultMargin}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Viewport returns the renderer's viewport size.
func (r *Renderer) Viewport() geometry.Size {
	return r.viewport
}

// Transform derives the current view transform for a frame's image.
func (r *Renderer) Transform(frame Frame) (geometry.ViewTransform, error) {
	return geometry.NewViewTransform(frame.Image, r.viewport, r.margin, frame.View.Zoom, frame.View.Pan)
}

// BuildScene produces the display list for one repaint. It always starts by
// clearing the viewport. A failed image decode renders the error panel but
// keeps accepting drag previews, so interaction survives the failure. An
// image that has not finished decoding produces an empty cleared scene. The
// element pass runs only when boxes are toggled on.
func (r *Renderer) BuildScene(frame Frame) Scene {
	scene := Scene{Ops: []Op{ClearOp{}}}

	if frame.ImageErr != nil {
		scene.Ops = append(scene.Ops, PanelOp{
			Rect:       r.panelRect(),
			Message:    errorPanelMessage,
			Background: PanelBackground,
		})
		r.appendDrag(&scene, frame)
		return scene
	}

	transform, err := r.Transform(frame)
	if err != nil {
		return scene
	}

	scene.Ops = append(scene.Ops, ImageOp{
		Dest: transform.Apply(geometry.Box{Width: frame.Image.Width, Height: frame.Image.Height}),
	})

	if frame.Toggles.ShowBoxes {
		for _, el := range frame.Elements {
			rect := transform.Apply(el.PixelBox(frame.Image))
			scene.Ops = append(scene.Ops, BoxOp{
				Rect:   rect,
				Stroke: StrokeColor(el.Confidence),
				Fill:   FillColor(el.Confidence),
			})
			if label, ok := elementLabel(el, rect, frame.Toggles.ShowConfidence); ok {
				scene.Ops = append(scene.Ops, label)
			}
		}
	}

	r.appendDrag(&scene, frame)
	return scene
}

func (r *Renderer) appendDrag(scene *Scene, frame Frame) {
	if frame.DragRect == nil {
		return
	}
	scene.Ops = append(scene.Ops, BoxOp{
		Rect:   *frame.DragRect,
		Stroke: color.NRGBA{R: 37, G: 99, B: 235, A: 255},
		Dashed: true,
	})
}

func (r *Renderer) panelRect() geometry.Box {
	inset := geometry.Point{X: r.viewport.Width * 0.1, Y: r.viewport.Height * 0.35}
	return geometry.Box{
		Left:   inset.X,
		Top:    inset.Y,
		Width:  r.viewport.Width - 2*inset.X,
		Height: r.viewport.Height - 2*inset.Y,
	}
}

// elementLabel builds the text label for one element box: text truncated to
// 30 runes plus an ellipsis, optionally suffixed with the rounded confidence
// percentage. The label sits above the box unless that would leave the
// visible top, in which case it flips below.
func elementLabel(el recognition.Element, rect geometry.Box, showConfidence bool) (LabelOp, bool) {
	text := el.Text
	if runes := []rune(text); len(runes) > labelMaxRunes {
		text = string(runes[:labelMaxRunes]) + "..."
	}
	if showConfidence {
		pct := fmt.Sprintf("(%d%%)", int(math.Round(el.Confidence)))
		if text == "" {
			text = pct
		} else {
			text += " " + pct
		}
	}
	if text == "" {
		return LabelOp{}, false
	}

	top := rect.Top - labelHeight - labelGap
	if top < 0 {
		top = rect.Bottom() + labelGap
	}
	return LabelOp{
		Text:       text,
		Origin:     geometry.Point{X: rect.Left, Y: top},
		Background: LabelBackground,
		Foreground: LabelForeground,
	}, true
}
