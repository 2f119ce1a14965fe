// Package scanform turns scanned clinical intake documents into editable
// form template drafts: OCR recognition, row grouping, label/input matching,
// field synthesis, and template assembly. The root package re-exports the
// common types and offers one-shot entry points; the full surface lives in
// the pkg subpackages.
package scanform

import (
	"context"
	"io/fs"

	"github.com/carelayer/scanform/pkg/export"
	"github.com/carelayer/scanform/pkg/pipeline"
	"github.com/carelayer/scanform/pkg/recognition"
	"github.com/carelayer/scanform/pkg/template"
)

// Draft is the editable form template the pipeline produces.
type Draft = template.Draft

// Field is one synthesized form field.
type Field = template.Field

// Section groups fields within a draft.
type Section = template.Section

// Result is the canonical recognition output.
type Result = recognition.Result

// Document identifies the input handed to a recognition provider.
type Document = recognition.Document

// RecognitionOptions carries the per-request provider hints.
type RecognitionOptions = recognition.Options

// Provider is the external recognition boundary.
type Provider = recognition.Provider

// Outcome bundles the draft with its recognition result and run statistics.
type Outcome = pipeline.Outcome

// Option configures the synthesis pipeline.
type Option = pipeline.Option

// NewPipeline exposes the pipeline constructor from the module root.
func NewPipeline(options ...Option) *pipeline.Pipeline {
	return pipeline.New(options...)
}

// Generate recognizes a document and assembles a form template draft. It is
// the simplest entry point for callers that want a draft out of a scan.
func Generate(ctx context.Context, provider Provider, doc Document, ropts RecognitionOptions, options ...Option) (Outcome, error) {
	opts := append([]Option{pipeline.WithProvider(provider)}, options...)
	return pipeline.New(opts...).Run(ctx, doc, ropts)
}

// GenerateFromResult assembles a draft from an already-recognized result,
// bypassing the provider stage.
func GenerateFromResult(ctx context.Context, res *Result, options ...Option) (Outcome, error) {
	return pipeline.New(options...).Build(ctx, res)
}

// WithProvider registers the recognition backend for Generate.
func WithProvider(p Provider) Option {
	return pipeline.WithProvider(p)
}

// WithDraftName overrides the assembled template's name.
func WithDraftName(name string) Option {
	return pipeline.WithDraftName(name)
}

// WithTolerance overrides the vertical distance within which elements share
// a row.
func WithTolerance(tolerance float64) Option {
	return pipeline.WithTolerance(tolerance)
}

// WithSectionDetection toggles deriving sections from standalone header
// labels.
func WithSectionDetection(enabled bool) Option {
	return pipeline.WithSectionDetection(enabled)
}

// EmbeddedTemplates exposes the built-in HTML preview templates so callers
// can reuse or extend them without importing the export package directly.
func EmbeddedTemplates() fs.FS {
	return export.TemplatesFS()
}
