package pipeline

import (
	"github.com/carelayer/scanform/internal/layout"
	"github.com/carelayer/scanform/pkg/recognition"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProvider sets the recognition provider Run calls.
func WithProvider(provider recognition.Provider) Option {
	return func(p *Pipeline) {
		if provider != nil {
			p.provider = provider
		}
	}
}

// WithTolerance sets the vertical distance within which elements share a
// row, in the units the page's boxes arrived in. Non-positive values keep
// the default.
func WithTolerance(tolerance float64) Option {
	return func(p *Pipeline) {
		p.grouper = layout.NewGrouper(layout.WithTolerance(tolerance))
	}
}

// WithDraftName names the assembled draft.
func WithDraftName(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.draftName = name
		}
	}
}

// WithConcurrency bounds how many pages are synthesized at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithSectionDetection toggles header-derived sections. When disabled every
// field lands in the single default section and standalone labels become
// fields like any other element.
func WithSectionDetection(enabled bool) Option {
	return func(p *Pipeline) {
		p.sections = enabled
	}
}

// WithPageText supplies per-page text, in page order, for pages the
// provider returns without raw text. Digital PDFs carry an embedded text
// layer worth keeping even when recognition sees only the rendered image.
func WithPageText(texts []string) Option {
	return func(p *Pipeline) {
		p.pageText = texts
	}
}

// WithProgress attaches a progress simulation to Run's provider call.
func WithProgress(progress *Progress) Option {
	return func(p *Pipeline) {
		p.progress = progress
	}
}
