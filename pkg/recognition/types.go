// Package recognition defines the canonical model for OCR recognition output
// and the ingestion boundary that normalizes provider responses into it.
// Downstream stages only ever see this package's types; provider-specific
// shapes stop here.
package recognition

import (
	"context"

	"github.com/carelayer/scanform/pkg/geometry"
)

// ElementKind tags what the provider believes a recognized unit is.
type ElementKind string

const (
	KindLabel    ElementKind = "label"
	KindInput    ElementKind = "input"
	KindCheckbox ElementKind = "checkbox"
	KindRadio    ElementKind = "radio"
	KindSelect   ElementKind = "select"
	KindText     ElementKind = "text"
)

// ParseKind maps a provider type string onto the canonical kind set. Unknown
// strings degrade to KindText rather than failing ingestion.
func ParseKind(raw string) ElementKind {
	switch raw {
	case "label":
		return KindLabel
	case "input":
		return KindInput
	case "checkbox":
		return KindCheckbox
	case "radio":
		return KindRadio
	case "select", "selection":
		return KindSelect
	default:
		return KindText
	}
}

// Element is one OCR-detected unit on one page. Elements are immutable once
// ingested; later stages copy what they need instead of mutating.
type Element struct {
	Text       string       `json:"text"`
	Kind       ElementKind  `json:"kind"`
	Confidence float64      `json:"confidence"`
	Box        geometry.Box `json:"boundingBox"`
	Normalized bool         `json:"normalized,omitempty"`
}

// IsNormalized reports whether the bounding box is expressed in 0-1 fractions
// of the page image. The explicit flag wins; otherwise a box whose four
// values all sit at or below 1 is taken as normalized.
func (e Element) IsNormalized() bool {
	if e.Normalized {
		return true
	}
	b := e.Box
	return b.Left <= 1 && b.Top <= 1 && b.Width <= 1 && b.Height <= 1
}

// PixelBox promotes the element's box into the page image's pixel space.
// Boxes already in pixel units pass through unchanged. All pixel-space
// arithmetic downstream (distances, overlap, rendering) must start here.
func (e Element) PixelBox(image geometry.Size) geometry.Box {
	if e.IsNormalized() {
		return e.Box.Denormalize(image.Width, image.Height)
	}
	return e.Box
}

// Page holds one page's recognition output.
type Page struct {
	Number   int       `json:"pageNumber"`
	RawText  string    `json:"rawText,omitempty"`
	Elements []Element `json:"elements"`
}

// Result is the canonical, always-paged recognition output. Flat provider
// responses become a single page at ingestion.
type Result struct {
	Pages []Page `json:"pages"`
}

// PageCount returns the number of pages carried by the result.
func (r *Result) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.Pages)
}

// ElementsOn returns the elements for a zero-based page index, or nil when
// the index is out of range.
func (r *Result) ElementsOn(index int) []Element {
	if r == nil || index < 0 || index >= len(r.Pages) {
		return nil
	}
	return r.Pages[index].Elements
}

// RawTextOn returns the raw text for a zero-based page index.
func (r *Result) RawTextOn(index int) string {
	if r == nil || index < 0 || index >= len(r.Pages) {
		return ""
	}
	return r.Pages[index].RawText
}

// Empty reports whether no page carries any element.
func (r *Result) Empty() bool {
	if r == nil {
		return true
	}
	for _, page := range r.Pages {
		if len(page.Elements) > 0 {
			return false
		}
	}
	return true
}

// Document identifies the input handed to a recognition provider: raw bytes,
// an external reference, or both.
type Document struct {
	Bytes []byte
	Ref   string
	MIME  string
}

// Options mirror the request options the provider boundary accepts.
type Options struct {
	EnhanceImage bool     `json:"enhanceImage"`
	DetectTables bool     `json:"detectTables"`
	DetectForms  bool     `json:"detectForms"`
	Languages    []string `json:"languages,omitempty"`
}

// Provider is the external recognition boundary. Implementations wrap one
// concrete OCR backend and return canonical results.
type Provider interface {
	Name() string
	Recognize(ctx context.Context, doc Document, opts Options) (*Result, error)
}
