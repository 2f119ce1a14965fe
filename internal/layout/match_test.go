package layout

import (
	"testing"

	"github.com/carelayer/scanform/pkg/recognition"
)

func TestMatchRowPairsNearestInput(t *testing.T) {
	label := el("Name", recognition.KindLabel, 0, 0)
	far := el("far", recognition.KindInput, 200, 0)
	near := el("near", recognition.KindInput, 50, 0)
	row := Row{Elements: []recognition.Element{label, near, far}}

	matches := MatchRow(row)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Label == nil || matches[0].Label.Text != "Name" {
		t.Fatalf("first match should carry the label, got %+v", matches[0])
	}
	if matches[0].Input == nil || matches[0].Input.Text != "near" {
		t.Errorf("label should claim the nearest input, got %+v", matches[0].Input)
	}
	if matches[1].Label != nil || matches[1].Input == nil || matches[1].Input.Text != "far" {
		t.Errorf("unclaimed input should trail standalone, got %+v", matches[1])
	}
}

func TestMatchRowFirstClaimedWins(t *testing.T) {
	first := el("First", recognition.KindLabel, 0, 0)
	second := el("Second", recognition.KindLabel, 100, 0)
	input := el("shared", recognition.KindInput, 40, 0)
	row := Row{Elements: []recognition.Element{first, input, second}}

	matches := MatchRow(row)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Input == nil || matches[0].Input.Text != "shared" {
		t.Errorf("first label should claim the input, got %+v", matches[0].Input)
	}
	if matches[1].Input != nil {
		t.Errorf("second label should stand alone, got %+v", matches[1].Input)
	}
}

func TestMatchRowNeverReusesInput(t *testing.T) {
	row := Row{Elements: []recognition.Element{
		el("L1", recognition.KindLabel, 0, 0),
		el("I1", recognition.KindInput, 10, 0),
		el("I2", recognition.KindText, 20, 0),
		el("L2", recognition.KindLabel, 30, 0),
		el("L3", recognition.KindLabel, 40, 0),
	}}

	matches := MatchRow(row)
	seen := map[string]int{}
	for _, m := range matches {
		if m.Input != nil {
			seen[m.Input.Text]++
		}
	}
	for text, count := range seen {
		if count > 1 {
			t.Errorf("input %q assigned %d times", text, count)
		}
	}

	var unmatched int
	for _, m := range matches {
		if m.Label != nil && m.Input == nil {
			unmatched++
		}
	}
	if unmatched != 1 {
		t.Errorf("expected exactly one label left without an input, got %d", unmatched)
	}
}

func TestMatchRowLabelOnly(t *testing.T) {
	row := Row{Elements: []recognition.Element{el("Notes", recognition.KindLabel, 0, 0)}}

	matches := MatchRow(row)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Input != nil {
		t.Errorf("label without inputs should stand alone, got %+v", matches[0].Input)
	}
	if got := matches[0].Source(); got == nil || got.Text != "Notes" {
		t.Errorf("Source() should return the label, got %+v", got)
	}
}

func TestMatchRowStandaloneInput(t *testing.T) {
	row := Row{Elements: []recognition.Element{el("freeform", recognition.KindText, 0, 0)}}

	matches := MatchRow(row)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Label != nil {
		t.Errorf("standalone input should carry no label, got %+v", matches[0].Label)
	}
	if got := matches[0].Source(); got == nil || got.Text != "freeform" {
		t.Errorf("Source() should fall back to the input, got %+v", got)
	}
}

func TestMatchRowChecksAndRadiosPassThrough(t *testing.T) {
	row := Row{Elements: []recognition.Element{
		el("Smoker", recognition.KindCheckbox, 0, 0),
		el("Gender", recognition.KindLabel, 100, 0),
		el("M / F", recognition.KindRadio, 200, 0),
	}}

	matches := MatchRow(row)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Label == nil || matches[0].Label.Kind != recognition.KindCheckbox {
		t.Errorf("checkbox should pass through as its own source, got %+v", matches[0])
	}
	if matches[1].Input != nil {
		t.Errorf("label must not claim a checkbox or radio, got %+v", matches[1].Input)
	}
	if matches[2].Label == nil || matches[2].Label.Kind != recognition.KindRadio {
		t.Errorf("radio should pass through as its own source, got %+v", matches[2])
	}
}

func TestMatchRowsKeepsRowOrder(t *testing.T) {
	rows := []Row{
		{Elements: []recognition.Element{el("First", recognition.KindLabel, 0, 0)}},
		{Elements: []recognition.Element{el("Second", recognition.KindLabel, 0, 100)}},
	}

	matches := MatchRows(rows)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Label.Text != "First" || matches[1].Label.Text != "Second" {
		t.Errorf("matches out of row order: %+v", matches)
	}
}
