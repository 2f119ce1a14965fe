package overlay

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/carelayer/scanform/pkg/geometry"
)

// Rasterize paints a scene onto an RGBA canvas of the given viewport size.
// Labels draw with the fixed 7x13 face, so no font asset is loaded.
// pageImage backs ImageOp entries and may be nil, in which case image ops
// are skipped; every other op draws regardless. The result is a fresh image
// per call.
func Rasterize(scene Scene, viewport geometry.Size, pageImage image.Image) image.Image {
	dc := gg.NewContext(int(viewport.Width), int(viewport.Height))
	dc.SetFontFace(basicfont.Face7x13)

	for _, op := range scene.Ops {
		switch op := op.(type) {
		case ClearOp:
			dc.SetRGB(1, 1, 1)
			dc.Clear()

		case ImageOp:
			if pageImage == nil {
				continue
			}
			bounds := pageImage.Bounds()
			if bounds.Dx() == 0 || bounds.Dy() == 0 {
				continue
			}
			dc.Push()
			dc.Translate(op.Dest.Left, op.Dest.Top)
			dc.Scale(op.Dest.Width/float64(bounds.Dx()), op.Dest.Height/float64(bounds.Dy()))
			dc.DrawImage(pageImage, 0, 0)
			dc.Pop()

		case BoxOp:
			if op.Fill.A > 0 {
				dc.SetColor(op.Fill)
				dc.DrawRectangle(op.Rect.Left, op.Rect.Top, op.Rect.Width, op.Rect.Height)
				dc.Fill()
			}
			if op.Stroke.A > 0 {
				if op.Dashed {
					dc.SetDash(6, 4)
				} else {
					dc.SetDash()
				}
				dc.SetLineWidth(2)
				dc.SetColor(op.Stroke)
				dc.DrawRectangle(op.Rect.Left, op.Rect.Top, op.Rect.Width, op.Rect.Height)
				dc.Stroke()
				dc.SetDash()
			}

		case LabelOp:
			width, _ := dc.MeasureString(op.Text)
			dc.SetColor(op.Background)
			dc.DrawRectangle(op.Origin.X, op.Origin.Y, width+8, labelHeight)
			dc.Fill()
			dc.SetColor(op.Foreground)
			dc.DrawStringAnchored(op.Text, op.Origin.X+4, op.Origin.Y+labelHeight/2, 0, 0.35)

		case PanelOp:
			dc.SetColor(op.Background)
			dc.DrawRectangle(op.Rect.Left, op.Rect.Top, op.Rect.Width, op.Rect.Height)
			dc.Fill()
			dc.SetColor(LabelForeground)
			dc.DrawStringAnchored(op.Message, op.Rect.Left+op.Rect.Width/2, op.Rect.Top+op.Rect.Height/2, 0.5, 0.35)
		}
	}

	return dc.Image()
}
