package intake

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/sunshineplan/imgconv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/carelayer/scanform/pkg/geometry"
)

// DefaultPreviewEdge bounds the longest thumbnail edge in pixels.
const DefaultPreviewEdge = 320

// Preview is one decoded page image plus its display thumbnail.
type Preview struct {
	Path      string
	Image     image.Image
	Thumbnail image.Image
	Size      geometry.Size
}

// Previewer decodes page images and holds the previews of the current file
// selection. Loading a new selection supersedes the old one and drops its
// previews.
type Previewer struct {
	maxEdge int
	current []Preview
}

// PreviewerOption configures a Previewer.
type PreviewerOption func(*Previewer)

// WithPreviewEdge overrides the longest thumbnail edge. Non-positive values
// keep the default.
func WithPreviewEdge(edge int) PreviewerOption {
	return func(p *Previewer) {
		if edge > 0 {
			p.maxEdge = edge
		}
	}
}

// NewPreviewer builds an empty Previewer.
func NewPreviewer(opts ...PreviewerOption) *Previewer {
	p := &Previewer{maxEdge: DefaultPreviewEdge}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load decodes previews for a new selection. The previous selection is
// released first, even when a decode fails partway.
func (p *Previewer) Load(paths ...string) ([]Preview, error) {
	p.Release()

	previews := make([]Preview, 0, len(paths))
	for _, path := range paths {
		preview, err := loadPreview(path, p.maxEdge)
		if err != nil {
			return nil, err
		}
		previews = append(previews, preview)
	}
	p.current = previews
	return previews, nil
}

// Current returns the previews of the active selection.
func (p *Previewer) Current() []Preview {
	return p.current
}

// Release drops the previews of the current selection.
func (p *Previewer) Release() {
	p.current = nil
}

func loadPreview(path string, maxEdge int) (Preview, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preview{}, fmt.Errorf("intake: open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Preview{}, fmt.Errorf("intake: decode image: %w", err)
	}

	bounds := img.Bounds()
	return Preview{
		Path:      path,
		Image:     img,
		Thumbnail: thumbnail(img, maxEdge),
		Size: geometry.Size{
			Width:  float64(bounds.Dx()),
			Height: float64(bounds.Dy()),
		},
	}, nil
}

// thumbnail downscales so the longest edge fits maxEdge. Smaller images
// pass through unscaled.
func thumbnail(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	longest := bounds.Dx()
	if bounds.Dy() > longest {
		longest = bounds.Dy()
	}
	if longest == 0 || longest <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(longest)
	return imgconv.Resize(img, &imgconv.ResizeOption{
		Width:  int(float64(bounds.Dx()) * scale),
		Height: int(float64(bounds.Dy()) * scale),
	})
}
