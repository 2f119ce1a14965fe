// Package export turns assembled template drafts into delivery formats:
// machine-readable JSON and YAML, an OpenAPI submission contract, a themed
// HTML preview, and an annotated review PDF. Exporters register by name so
// callers can select output formats at runtime.
package export

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/carelayer/scanform/pkg/geometry"
	"github.com/carelayer/scanform/pkg/template"
)

// Options carries per-export inputs that are not part of the draft itself.
type Options struct {
	// Title overrides the document title. Empty falls back to the draft
	// name, then to a generic default.
	Title string

	// Theme styles the HTML preview. Nil renders with the built-in
	// neutral styling.
	Theme *theme.RendererConfig

	// PageSizes maps 1-based page numbers to the source page dimensions
	// in pixels. Exporters that reproduce page geometry size their pages
	// from this; missing pages fall back to US Letter.
	PageSizes map[int]geometry.Size
}

// Exporter converts a draft into one delivery format.
type Exporter interface {
	// Name returns the unique identifier used to register and select the
	// exporter, e.g. "json" or "pdf".
	Name() string

	// ContentType returns the MIME type of the produced payload.
	ContentType() string

	// Export serializes the draft. Implementations must not mutate it.
	Export(ctx context.Context, draft template.Draft, options Options) ([]byte, error)
}

// documentTitle resolves the title for generated documents.
func documentTitle(draft template.Draft, options Options) string {
	if options.Title != "" {
		return options.Title
	}
	if draft.Name != "" {
		return draft.Name
	}
	return "Generated Form"
}
