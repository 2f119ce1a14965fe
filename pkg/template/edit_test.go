package template

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func editFixture() []Field {
	return []Field{
		{ID: "f1", Name: "patient_name", Label: "Patient Name", Type: FieldTypeText, Order: 0},
		{ID: "f2", Name: "contact", Label: "Contact", Type: FieldTypeText, Order: 1},
		{ID: "f3", Name: "notes", Label: "Notes", Type: FieldTypeTextarea, Order: 2},
	}
}

func TestApplyEditRebuildsRules(t *testing.T) {
	fields := editFixture()

	out, err := ApplyEdit(fields, "f2", FieldEdit{
		Label:    "Email",
		Name:     "email",
		Type:     FieldTypeEmail,
		Required: true,
		PHI:      true,
	})
	if err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}

	edited := out[1]
	if edited.Type != FieldTypeEmail || !edited.Required || !edited.PHI {
		t.Errorf("edit not applied: %+v", edited)
	}
	if len(edited.ValidationRules) != 2 {
		t.Fatalf("expected rebuilt rules, got %v", edited.ValidationRules)
	}
	if edited.ValidationRules[0].Type != RuleRequired || edited.ValidationRules[1].Type != RulePattern {
		t.Errorf("rules out of order: %v", edited.ValidationRules)
	}

	if fields[1].Type != FieldTypeText || fields[1].ValidationRules != nil {
		t.Errorf("input slice was mutated: %+v", fields[1])
	}
}

func TestApplyEditUnknownField(t *testing.T) {
	_, err := ApplyEdit(editFixture(), "ghost", FieldEdit{})
	if !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("error = %v, want ErrFieldNotFound", err)
	}
}

func TestRemoveFieldReindexes(t *testing.T) {
	out, err := RemoveField(editFixture(), "f2")
	if err != nil {
		t.Fatalf("RemoveField() error = %v", err)
	}

	wantIDs := []string{"f1", "f3"}
	for i, field := range out {
		if field.ID != wantIDs[i] {
			t.Errorf("position %d = %q, want %q", i, field.ID, wantIDs[i])
		}
		if field.Order != i {
			t.Errorf("field %q order = %d, want %d", field.ID, field.Order, i)
		}
	}
}

func TestRemoveFieldUnknown(t *testing.T) {
	_, err := RemoveField(editFixture(), "ghost")
	if !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("error = %v, want ErrFieldNotFound", err)
	}
}

func TestMoveFieldToFront(t *testing.T) {
	out, err := MoveField(editFixture(), "f3", 0)
	if err != nil {
		t.Fatalf("MoveField() error = %v", err)
	}

	var ids []string
	for _, field := range out {
		ids = append(ids, field.ID)
	}
	if diff := cmp.Diff([]string{"f3", "f1", "f2"}, ids); diff != "" {
		t.Errorf("order after move (-want +got):\n%s", diff)
	}
	for i, field := range out {
		if field.Order != i {
			t.Errorf("field %q order = %d, want %d", field.ID, field.Order, i)
		}
	}
}

func TestMoveFieldClampsPosition(t *testing.T) {
	out, err := MoveField(editFixture(), "f1", 99)
	if err != nil {
		t.Fatalf("MoveField() error = %v", err)
	}
	if out[len(out)-1].ID != "f1" {
		t.Errorf("oversized position should clamp to the end, got %+v", out)
	}

	out, err = MoveField(editFixture(), "f2", -4)
	if err != nil {
		t.Fatalf("MoveField() error = %v", err)
	}
	if out[0].ID != "f2" {
		t.Errorf("negative position should clamp to the front, got %+v", out)
	}
}

func TestAppendFieldAssignsOrder(t *testing.T) {
	out := AppendField(editFixture(), Field{ID: "f4", Label: "Added", Type: FieldTypeText})

	if len(out) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(out))
	}
	if out[3].ID != "f4" || out[3].Order != 3 {
		t.Errorf("appended field = %+v, want order 3", out[3])
	}
}
