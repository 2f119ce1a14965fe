package export

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/carelayer/scanform/pkg/geometry"
	"github.com/carelayer/scanform/pkg/template"
)

// US Letter in points, used when a page has no recorded dimensions.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFExporter produces an annotated review PDF: one page per source page,
// sized to match it, with each synthesized field drawn as a labeled box on
// its own toggleable layer. PHI fields are outlined in red.
type PDFExporter struct{}

// NewPDFExporter creates a PDF exporter.
func NewPDFExporter() PDFExporter {
	return PDFExporter{}
}

func (PDFExporter) Name() string { return "pdf" }

func (PDFExporter) ContentType() string { return "application/pdf" }

func (PDFExporter) Export(ctx context.Context, draft template.Draft, options Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(documentTitle(draft, options), true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(0.75)

	byPage := fieldsByPage(draft)
	pages := make([]int, 0, len(byPage))
	for page := range byPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	if len(pages) == 0 {
		pages = []int{1}
	}

	for _, page := range pages {
		size := reviewPageSize(options, page)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})

		layer := pdf.AddLayer(fmt.Sprintf("Recognized fields (page %d)", page), true)
		pdf.BeginLayer(layer)

		fields := byPage[page]
		if len(fields) == 0 {
			pdf.SetFont("Helvetica", "I", 11)
			pdf.SetTextColor(107, 114, 128)
			pdf.Text(24, 36, "No recognized fields.")
			pdf.EndLayer()
			continue
		}

		for _, field := range fields {
			drawFieldAnnotation(pdf, field, size)
		}

		pdf.EndLayer()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: write review PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func fieldsByPage(draft template.Draft) map[int][]template.Field {
	byPage := make(map[int][]template.Field)
	for _, field := range draft.Fields {
		page := field.Source.PageNumber
		if page < 1 {
			page = 1
		}
		byPage[page] = append(byPage[page], field)
	}
	return byPage
}

func reviewPageSize(options Options, page int) geometry.Size {
	if size, ok := options.PageSizes[page]; ok && !size.IsZero() {
		return size
	}
	return geometry.NewSize(defaultPageWidth, defaultPageHeight)
}

func drawFieldAnnotation(pdf *fpdf.Fpdf, field template.Field, page geometry.Size) {
	box := reviewBox(field.Source.BoundingBox, page)

	if field.PHI {
		pdf.SetDrawColor(220, 38, 38)
	} else {
		pdf.SetDrawColor(37, 99, 235)
	}
	pdf.Rect(box.Left, box.Top, box.Width, box.Height, "D")

	label := field.Label
	if field.Required {
		label += " *"
	}
	label = fmt.Sprintf("%s (%.0f%%)", label, field.Source.Confidence)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(55, 65, 81)

	y := box.Top - 3
	if y < 10 {
		y = box.Bottom() + 10
	}
	pdf.Text(box.Left, y, latin1(label))
}

// reviewBox resolves a recognized bounding box into page coordinates,
// promoting normalized boxes against the page dimensions.
func reviewBox(box geometry.Box, page geometry.Size) geometry.Box {
	if box.Left <= 1 && box.Top <= 1 && box.Width <= 1 && box.Height <= 1 {
		return box.Denormalize(page.Width, page.Height)
	}
	return box
}

// latin1 re-encodes label text for the core PDF fonts, keeping the raw
// string when a rune has no ISO 8859-1 representation.
func latin1(text string) string {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		return text
	}
	return encoded
}
