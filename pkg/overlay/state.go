package overlay

import (
	"errors"

	"github.com/carelayer/scanform/pkg/recognition"
	"github.com/carelayer/scanform/pkg/template"
)

// ViewMode is the coarse UI state the overlay participates in.
type ViewMode string

const (
	ModeUpload     ViewMode = "upload"
	ModeProcessing ViewMode = "processing"
	ModeReview     ViewMode = "review"
	ModeFields     ViewMode = "fields"
)

// ErrInvalidTransition is returned for view mode changes outside the allowed
// graph.
var ErrInvalidTransition = errors.New("overlay: invalid view mode transition")

// transitions is the legal view mode graph: upload feeds processing, which
// resolves to review on success or back to upload on failure; review and
// fields toggle freely; any mode can abandon to upload for a new document.
var transitions = map[ViewMode][]ViewMode{
	ModeUpload:     {ModeProcessing},
	ModeProcessing: {ModeReview, ModeUpload},
	ModeReview:     {ModeFields, ModeUpload},
	ModeFields:     {ModeReview, ModeUpload},
}

// ModeMachine tracks the current view mode and validates transitions.
type ModeMachine struct {
	mode ViewMode
}

// NewModeMachine starts in the upload mode.
func NewModeMachine() *ModeMachine {
	return &ModeMachine{mode: ModeUpload}
}

// Mode returns the current view mode.
func (m *ModeMachine) Mode() ViewMode {
	return m.mode
}

// To moves to the target mode, or fails with ErrInvalidTransition leaving
// the current mode unchanged.
func (m *ModeMachine) To(target ViewMode) error {
	for _, allowed := range transitions[m.mode] {
		if allowed == target {
			m.mode = target
			return nil
		}
	}
	return ErrInvalidTransition
}

// OverlayActive reports whether the overlay should draw; only the review
// mode renders boxes and labels.
func (m *ModeMachine) OverlayActive() bool {
	return m.mode == ModeReview
}

// Coordinator owns the per-page recognition data and the current page
// position. Navigation clamps to the loaded page range and notifies the
// repaint hook whenever the visible page changes.
type Coordinator struct {
	result  *recognition.Result
	current int
	repaint func(pageIndex int)
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithRepaint registers the hook invoked with the new page index after every
// effective navigation and after a result loads.
func WithRepaint(repaint func(pageIndex int)) CoordinatorOption {
	return func(c *Coordinator) {
		c.repaint = repaint
	}
}

// NewCoordinator builds an empty Coordinator.
func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the coordinator's pages with a new recognition result and
// resets the position to the first page.
func (c *Coordinator) Load(res *recognition.Result) {
	c.result = res
	c.current = 0
	if c.repaint != nil && res.PageCount() > 0 {
		c.repaint(0)
	}
}

// TotalPages returns the number of loaded pages.
func (c *Coordinator) TotalPages() int {
	return c.result.PageCount()
}

// CurrentIndex returns the zero-based index of the visible page.
func (c *Coordinator) CurrentIndex() int {
	return c.current
}

// CurrentPage returns the visible page, or ok=false when nothing is loaded.
func (c *Coordinator) CurrentPage() (recognition.Page, bool) {
	if c.result == nil || c.current >= c.result.PageCount() {
		return recognition.Page{}, false
	}
	return c.result.Pages[c.current], true
}

// RawText returns the visible page's raw text.
func (c *Coordinator) RawText() string {
	return c.result.RawTextOn(c.current)
}

// Elements returns the visible page's elements.
func (c *Coordinator) Elements() []recognition.Element {
	return c.result.ElementsOn(c.current)
}

// Next advances one page. It reports whether the position changed; at the
// last page it is a no-op.
func (c *Coordinator) Next() bool {
	return c.GoTo(c.current + 1)
}

// Previous steps back one page. At the first page it is a no-op.
func (c *Coordinator) Previous() bool {
	return c.GoTo(c.current - 1)
}

// GoTo jumps to a zero-based page index, clamped to the loaded range, and
// reports whether the position changed. Effective changes trigger the
// repaint hook.
func (c *Coordinator) GoTo(index int) bool {
	total := c.TotalPages()
	if total == 0 {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index > total-1 {
		index = total - 1
	}
	if index == c.current {
		return false
	}
	c.current = index
	if c.repaint != nil {
		c.repaint(index)
	}
	return true
}

// FieldOnCurrentPage reports whether a field's source page is the visible
// one. Field pages are 1-based.
func (c *Coordinator) FieldOnCurrentPage(field template.Field) bool {
	return field.Source.PageNumber == c.current+1
}
