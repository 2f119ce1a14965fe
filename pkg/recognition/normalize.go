package recognition

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carelayer/scanform/pkg/geometry"
)

// ErrUnrecognizedShape is returned when a provider response carries neither a
// flat element list nor a page list.
var ErrUnrecognizedShape = errors.New("recognition: response has neither elements nor pages")

type wireBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type wireElement struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Box        wireBox `json:"boundingBox"`
	Normalized bool    `json:"normalized"`
}

type wirePage struct {
	RawText  string        `json:"rawText"`
	Elements []wireElement `json:"elements"`
}

type wireResult struct {
	Elements []wireElement `json:"elements"`
	Pages    []wirePage    `json:"pages"`
}

// Decode parses a provider response into the canonical paged result. Two wire
// shapes are accepted: a flat {"elements": [...]} document, which becomes a
// single page, and a paged {"pages": [{"rawText", "elements"}, ...]} document.
// When both appear the paged shape wins. Confidence values are clamped to the
// 0-100 range and unknown element types degrade to text.
func Decode(data []byte) (*Result, error) {
	var wire wireResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("recognition: decode: %w", err)
	}
	return fromWire(wire)
}

func fromWire(wire wireResult) (*Result, error) {
	switch {
	case wire.Pages != nil:
		res := &Result{Pages: make([]Page, 0, len(wire.Pages))}
		for i, page := range wire.Pages {
			res.Pages = append(res.Pages, Page{
				Number:   i + 1,
				RawText:  page.RawText,
				Elements: convertElements(page.Elements),
			})
		}
		return res, nil
	case wire.Elements != nil:
		return FlatResult(convertElements(wire.Elements)...), nil
	default:
		return nil, ErrUnrecognizedShape
	}
}

func convertElements(wire []wireElement) []Element {
	if len(wire) == 0 {
		return nil
	}
	out := make([]Element, 0, len(wire))
	for _, w := range wire {
		out = append(out, Element{
			Text:       w.Text,
			Kind:       ParseKind(w.Type),
			Confidence: clampConfidence(w.Confidence),
			Box: geometry.Box{
				Left:   w.Box.Left,
				Top:    w.Box.Top,
				Width:  w.Box.Width,
				Height: w.Box.Height,
			},
			Normalized: w.Normalized,
		})
	}
	return out
}

// FlatResult wraps a bare element list as a one-page result, the canonical
// form of single-page provider output.
func FlatResult(elements ...Element) *Result {
	return &Result{Pages: []Page{{Number: 1, Elements: elements}}}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
