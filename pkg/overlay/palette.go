package overlay

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/carelayer/scanform/pkg/recognition"
)

// Tier base colors for confidence display.
var (
	tierHighColor   = colorful.Color{R: 0.13, G: 0.77, B: 0.37}
	tierMediumColor = colorful.Color{R: 0.96, G: 0.62, B: 0.04}
	tierLowColor    = colorful.Color{R: 0.94, G: 0.27, B: 0.27}

	white = colorful.Color{R: 1, G: 1, B: 1}
)

// Label chrome shared by every element label.
var (
	LabelBackground = color.NRGBA{R: 24, G: 24, B: 27, A: 210}
	LabelForeground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	PanelBackground = color.NRGBA{R: 153, G: 27, B: 27, A: 235}
)

func tierColor(confidence float64) colorful.Color {
	switch recognition.TierFor(confidence) {
	case recognition.TierHigh:
		return tierHighColor
	case recognition.TierLow:
		return tierLowColor
	default:
		return tierMediumColor
	}
}

// StrokeColor returns the semi-transparent outline color for a confidence
// score.
func StrokeColor(confidence float64) color.NRGBA {
	return withAlpha(tierColor(confidence), 217)
}

// FillColor returns the lighter translucent tint drawn inside a box, a
// white-blended variant of the stroke color.
func FillColor(confidence float64) color.NRGBA {
	return withAlpha(tierColor(confidence).BlendLab(white, 0.6), 64)
}

func withAlpha(c colorful.Color, alpha uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}
