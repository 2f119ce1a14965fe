package recognition

import (
	"fmt"
	"strings"

	"github.com/gardar/ocrchestra/pkg/hocr"

	"github.com/carelayer/scanform/pkg/geometry"
)

// FromHOCR flattens an hOCR document into the canonical result. Lines become
// elements regardless of whether they hang off the page, a paragraph, or a
// content area; word confidences average into a line confidence. Coordinates
// stay in the pixel space the hOCR document uses.
func FromHOCR(doc *hocr.HOCR) *Result {
	if doc == nil {
		return &Result{}
	}
	res := &Result{Pages: make([]Page, 0, len(doc.Pages))}
	for i, page := range doc.Pages {
		number := page.PageNumber
		if number <= 0 {
			number = i + 1
		}
		var (
			elements []Element
			rawLines []string
		)
		for _, line := range collectLines(page) {
			el, ok := elementFromLine(line)
			if !ok {
				continue
			}
			elements = append(elements, el)
			rawLines = append(rawLines, el.Text)
		}
		res.Pages = append(res.Pages, Page{
			Number:   number,
			RawText:  strings.Join(rawLines, "\n"),
			Elements: elements,
		})
	}
	return res
}

// collectLines walks every container an hOCR page may nest lines under.
func collectLines(page hocr.Page) []hocr.Line {
	var lines []hocr.Line
	for _, area := range page.Areas {
		for _, para := range area.Paragraphs {
			lines = append(lines, para.Lines...)
			lines = append(lines, wordsAsLine(para.Words)...)
		}
		lines = append(lines, area.Lines...)
		lines = append(lines, wordsAsLine(area.Words)...)
	}
	for _, para := range page.Paragraphs {
		lines = append(lines, para.Lines...)
		lines = append(lines, wordsAsLine(para.Words)...)
	}
	lines = append(lines, page.Lines...)
	return lines
}

// wordsAsLine wraps words attached directly to a paragraph or area, which
// some producers emit instead of nesting them under a line.
func wordsAsLine(words []hocr.Word) []hocr.Line {
	if len(words) == 0 {
		return nil
	}
	return []hocr.Line{{Words: words}}
}

func elementFromLine(line hocr.Line) (Element, bool) {
	var (
		parts      []string
		confidence float64
		boxes      []geometry.Box
	)
	for _, word := range line.Words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		confidence += word.Confidence
		boxes = append(boxes, boxFromBBox(word.BBox))
	}
	if len(parts) == 0 {
		return Element{}, false
	}
	box := boxFromBBox(line.BBox)
	if box.Width <= 0 || box.Height <= 0 {
		box = geometry.BoundingBox(boxes)
	}
	kind := KindText
	if raw, ok := line.Metadata["kind"]; ok {
		kind = ParseKind(raw)
	}
	return Element{
		Text:       strings.Join(parts, " "),
		Kind:       kind,
		Confidence: clampConfidence(confidence / float64(len(parts))),
		Box:        box,
	}, true
}

func boxFromBBox(b hocr.BBox) geometry.Box {
	return geometry.BoxFromCorners(geometry.Point{X: b.X1, Y: b.Y1}, geometry.Point{X: b.X2, Y: b.Y2})
}

func bbox(x1, y1, x2, y2 float64) hocr.BBox {
	return hocr.BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// ToHOCR renders the canonical result as an hOCR document, one line per
// element with word extents distributed proportionally to rune counts.
// pageSizes supplies pixel dimensions keyed by page number for pages whose
// elements carry normalized boxes; pages absent from the map fall back to the
// union of their element boxes.
func ToHOCR(res *Result, pageSizes map[int]geometry.Size) *hocr.HOCR {
	doc := &hocr.HOCR{
		Title:    "Scanned Form OCR",
		Language: "unknown",
		Metadata: map[string]string{
			"ocr-system":          "scanform",
			"ocr-number-of-pages": fmt.Sprintf("%d", res.PageCount()),
			"ocr-capabilities":    "ocr_page ocr_line ocrx_word",
		},
		Pages: make([]hocr.Page, 0, res.PageCount()),
	}
	if res == nil {
		return doc
	}
	for _, page := range res.Pages {
		size := pageSizeFor(page, pageSizes)
		hp := hocr.Page{
			ID:         fmt.Sprintf("page_%d", page.Number),
			PageNumber: page.Number,
			BBox:       bbox(0, 0, size.Width, size.Height),
			Metadata:   map[string]string{},
		}
		for i, el := range page.Elements {
			line, ok := lineFromElement(el, size, page.Number, i)
			if !ok {
				continue
			}
			hp.Lines = append(hp.Lines, line)
		}
		doc.Pages = append(doc.Pages, hp)
	}
	return doc
}

func pageSizeFor(page Page, sizes map[int]geometry.Size) geometry.Size {
	if size, ok := sizes[page.Number]; ok && !size.IsZero() {
		return size
	}
	boxes := make([]geometry.Box, 0, len(page.Elements))
	for _, el := range page.Elements {
		if el.IsNormalized() {
			continue
		}
		boxes = append(boxes, el.Box)
	}
	if len(boxes) == 0 {
		return geometry.Size{Width: 1, Height: 1}
	}
	union := geometry.BoundingBox(boxes)
	return geometry.Size{Width: union.Right(), Height: union.Bottom()}
}

func lineFromElement(el Element, size geometry.Size, pageNumber, index int) (hocr.Line, bool) {
	words := strings.Fields(el.Text)
	if len(words) == 0 {
		return hocr.Line{}, false
	}
	box := el.PixelBox(size)
	line := hocr.Line{
		ID:       fmt.Sprintf("line_%d_%d", pageNumber, index+1),
		BBox:     bbox(box.Left, box.Top, box.Right(), box.Bottom()),
		Metadata: map[string]string{"kind": string(el.Kind)},
	}
	runes := 0
	for _, word := range words {
		runes += len([]rune(word))
	}
	// One rune-width gap between words.
	unit := box.Width / float64(runes+len(words)-1)
	cursor := box.Left
	for i, word := range words {
		width := unit * float64(len([]rune(word)))
		line.Words = append(line.Words, hocr.Word{
			ID:         fmt.Sprintf("word_%d_%d_%d", pageNumber, index+1, i+1),
			Text:       word,
			BBox:       bbox(cursor, box.Top, cursor+width, box.Bottom()),
			Confidence: el.Confidence,
		})
		cursor += width + unit
	}
	return line, true
}
