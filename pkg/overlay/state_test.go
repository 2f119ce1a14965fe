package overlay

import (
	"errors"
	"testing"

	"github.com/carelayer/scanform/pkg/recognition"
	"github.com/carelayer/scanform/pkg/template"
)

func threePageResult() *recognition.Result {
	return &recognition.Result{Pages: []recognition.Page{
		{Number: 1, RawText: "one"},
		{Number: 2, RawText: "two"},
		{Number: 3, RawText: "three"},
	}}
}

func TestModeMachineHappyPath(t *testing.T) {
	m := NewModeMachine()
	if m.Mode() != ModeUpload {
		t.Fatalf("initial mode = %q, want upload", m.Mode())
	}

	for _, target := range []ViewMode{ModeProcessing, ModeReview, ModeFields, ModeReview} {
		if err := m.To(target); err != nil {
			t.Fatalf("To(%q) error = %v", target, err)
		}
	}
	if m.Mode() != ModeReview {
		t.Errorf("final mode = %q, want review", m.Mode())
	}
}

func TestModeMachineRejectsSkips(t *testing.T) {
	tests := []struct {
		from, to ViewMode
	}{
		{ModeUpload, ModeReview},
		{ModeUpload, ModeFields},
		{ModeProcessing, ModeFields},
		{ModeReview, ModeProcessing},
	}
	for _, tt := range tests {
		m := &ModeMachine{mode: tt.from}
		if err := m.To(tt.to); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("To(%q) from %q error = %v, want ErrInvalidTransition", tt.to, tt.from, err)
		}
		if m.Mode() != tt.from {
			t.Errorf("failed transition moved the mode to %q", m.Mode())
		}
	}
}

func TestModeMachineFailureReturnsToUpload(t *testing.T) {
	m := &ModeMachine{mode: ModeProcessing}
	if err := m.To(ModeUpload); err != nil {
		t.Fatalf("processing should be able to fall back to upload: %v", err)
	}
}

func TestOverlayActiveOnlyInReview(t *testing.T) {
	for mode, want := range map[ViewMode]bool{
		ModeUpload:     false,
		ModeProcessing: false,
		ModeReview:     true,
		ModeFields:     false,
	} {
		m := &ModeMachine{mode: mode}
		if got := m.OverlayActive(); got != want {
			t.Errorf("OverlayActive() in %q = %v, want %v", mode, got, want)
		}
	}
}

func TestCoordinatorNavigationBounds(t *testing.T) {
	c := NewCoordinator()
	c.Load(threePageResult())

	if c.Previous() {
		t.Error("previous at the first page should be a no-op")
	}
	if c.CurrentIndex() != 0 {
		t.Errorf("index = %d, want 0", c.CurrentIndex())
	}

	if !c.GoTo(2) {
		t.Fatal("GoTo(2) should succeed")
	}
	if c.Next() {
		t.Error("next at the last page should be a no-op")
	}
	if c.CurrentIndex() != 2 {
		t.Errorf("index = %d, want 2", c.CurrentIndex())
	}
}

func TestCoordinatorGoToClamps(t *testing.T) {
	c := NewCoordinator()
	c.Load(threePageResult())

	if !c.GoTo(99) {
		t.Error("an out-of-range jump should clamp and still move")
	}
	if c.CurrentIndex() != 2 {
		t.Errorf("index = %d, want 2", c.CurrentIndex())
	}

	if !c.GoTo(-5) {
		t.Error("a negative jump should clamp to the first page")
	}
	if c.CurrentIndex() != 0 {
		t.Errorf("index = %d, want 0", c.CurrentIndex())
	}
}

func TestCoordinatorRepaintHook(t *testing.T) {
	var repaints []int
	c := NewCoordinator(WithRepaint(func(page int) {
		repaints = append(repaints, page)
	}))

	c.Load(threePageResult())
	c.Next()
	c.Previous()
	c.Previous() // clamped, no repaint

	want := []int{0, 1, 0}
	if len(repaints) != len(want) {
		t.Fatalf("repaints = %v, want %v", repaints, want)
	}
	for i := range want {
		if repaints[i] != want[i] {
			t.Errorf("repaint %d = %d, want %d", i, repaints[i], want[i])
		}
	}
}

func TestCoordinatorEmpty(t *testing.T) {
	c := NewCoordinator()

	if c.TotalPages() != 0 {
		t.Errorf("TotalPages() = %d, want 0", c.TotalPages())
	}
	if c.Next() || c.Previous() || c.GoTo(0) {
		t.Error("navigation on an empty coordinator should be a no-op")
	}
	if _, ok := c.CurrentPage(); ok {
		t.Error("CurrentPage() should report no page")
	}
	if c.RawText() != "" || c.Elements() != nil {
		t.Error("empty coordinator should expose no page data")
	}
}

func TestCoordinatorPageData(t *testing.T) {
	res := threePageResult()
	res.Pages[1].Elements = []recognition.Element{{Text: "DOB"}}

	c := NewCoordinator()
	c.Load(res)
	c.GoTo(1)

	if got := c.RawText(); got != "two" {
		t.Errorf("RawText() = %q, want two", got)
	}
	if els := c.Elements(); len(els) != 1 || els[0].Text != "DOB" {
		t.Errorf("Elements() = %+v", els)
	}
	if page, ok := c.CurrentPage(); !ok || page.Number != 2 {
		t.Errorf("CurrentPage() = %+v, %v", page, ok)
	}
}

func TestFieldOnCurrentPage(t *testing.T) {
	c := NewCoordinator()
	c.Load(threePageResult())
	c.GoTo(1)

	onPage := template.Field{Source: template.SourceAttributes{PageNumber: 2}}
	offPage := template.Field{Source: template.SourceAttributes{PageNumber: 1}}

	if !c.FieldOnCurrentPage(onPage) {
		t.Error("field with page 2 should be visible at index 1")
	}
	if c.FieldOnCurrentPage(offPage) {
		t.Error("field with page 1 should not be visible at index 1")
	}
}
