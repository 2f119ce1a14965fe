package validation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carelayer/scanform/pkg/template"
	"github.com/carelayer/scanform/pkg/testsupport"
)

func validDraft() template.Draft {
	fields := []template.Field{
		{
			ID:              "field_1_0",
			Name:            "full_name",
			Label:           "Full Name",
			Type:            template.FieldTypeText,
			Required:        true,
			PHI:             true,
			AuditRequired:   true,
			ValidationRules: template.BuildRules(nil, template.FieldTypeText, true),
		},
		{
			ID:              "field_1_1",
			Name:            "email_address",
			Label:           "Email Address",
			Type:            template.FieldTypeEmail,
			ValidationRules: template.BuildRules(nil, template.FieldTypeEmail, false),
		},
	}
	return template.Assemble("Intake", fields, nil)
}

func TestValidateDraftAcceptsAssembled(t *testing.T) {
	result := ValidateDraft(validDraft())
	if !result.Valid {
		t.Fatalf("assembled draft reported invalid: %v", result.Issues)
	}
	if diff := cmp.Diff(Result{Valid: true}, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDraftFieldProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*template.Draft)
		want   string
	}{
		{
			"duplicate id",
			func(d *template.Draft) { d.Fields[1].ID = d.Fields[0].ID },
			"used more than once",
		},
		{
			"bad name",
			func(d *template.Draft) { d.Fields[0].Name = "Full Name" },
			"not a valid identifier",
		},
		{
			"duplicate name",
			func(d *template.Draft) { d.Fields[1].Name = d.Fields[0].Name },
			"used by more than one field",
		},
		{
			"missing label",
			func(d *template.Draft) { d.Fields[0].Label = "" },
			"field has no label",
		},
		{
			"unknown type",
			func(d *template.Draft) { d.Fields[0].Type = "signature" },
			`unsupported field type "signature"`,
		},
		{
			"required without rule",
			func(d *template.Draft) { d.Fields[0].ValidationRules = nil },
			"missing its required rule",
		},
		{
			"required rule without flag",
			func(d *template.Draft) { d.Fields[0].Required = false },
			"not marked required",
		},
		{
			"email without pattern",
			func(d *template.Draft) { d.Fields[1].ValidationRules = nil },
			"email field has no pattern rule",
		},
		{
			"broken pattern",
			func(d *template.Draft) { d.Fields[1].ValidationRules[0].Value = "([" },
			"does not compile",
		},
		{
			"rule without message",
			func(d *template.Draft) { d.Fields[0].ValidationRules[0].Message = "" },
			"rule has no message",
		},
		{
			"unknown rule type",
			func(d *template.Draft) {
				d.Fields[0].ValidationRules = append(d.Fields[0].ValidationRules,
					template.ValidationRule{Type: "maxLength", Value: "64", Message: "Too long"})
			},
			`unsupported rule type "maxLength"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			result := ValidateDraft(draft)
			if result.Valid {
				t.Fatal("broken draft reported valid")
			}
			if !containsIssue(result.Issues, tt.want) {
				t.Errorf("issues %v do not mention %q", result.Issues, tt.want)
			}
		})
	}
}

func TestValidateDraftSectionProblems(t *testing.T) {
	t.Run("unknown field reference", func(t *testing.T) {
		draft := validDraft()
		draft.Sections[0].FieldIDs = append(draft.Sections[0].FieldIDs, "field_9_9")

		result := ValidateDraft(draft)
		if !containsIssue(result.Issues, `unknown field "field_9_9"`) {
			t.Errorf("issues %v do not flag the dangling reference", result.Issues)
		}
	})

	t.Run("field claimed twice", func(t *testing.T) {
		draft := validDraft()
		draft.Sections = append(draft.Sections, template.Section{
			ID:       "section_2",
			Name:     "Duplicate",
			FieldIDs: []string{"field_1_0"},
			Order:    1,
		})

		result := ValidateDraft(draft)
		if !containsIssue(result.Issues, "already belongs to section") {
			t.Errorf("issues %v do not flag the double claim", result.Issues)
		}
	})

	t.Run("orphaned field", func(t *testing.T) {
		draft := validDraft()
		draft.Sections[0].FieldIDs = draft.Sections[0].FieldIDs[:1]

		result := ValidateDraft(draft)
		if !containsIssue(result.Issues, "not placed in any section") {
			t.Errorf("issues %v do not flag the orphan", result.Issues)
		}
	})

	t.Run("unnamed section", func(t *testing.T) {
		draft := validDraft()
		draft.Sections[0].Name = ""

		result := ValidateDraft(draft)
		if !containsIssue(result.Issues, "section has no name") {
			t.Errorf("issues %v do not flag the missing name", result.Issues)
		}
	})
}

func TestValidateDraftAnchorsIssues(t *testing.T) {
	draft := validDraft()
	draft.Fields[1].Label = ""

	result := ValidateDraft(draft)
	if len(result.Issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", result.Issues)
	}
	if result.Issues[0].Field != "field_1_1" {
		t.Errorf("issue anchored to %q, want field_1_1", result.Issues[0].Field)
	}
}

func containsIssue(issues []Issue, fragment string) bool {
	for _, issue := range issues {
		if strings.Contains(issue.Message, fragment) {
			return true
		}
	}
	return false
}

func TestValidateDraftExportedFixture(t *testing.T) {
	draft := testsupport.MustLoadDraft(t, "testdata/intake_draft.json")
	if len(draft.Fields) != 3 || len(draft.Sections) != 3 {
		t.Fatalf("fixture carries %d fields in %d sections, want 3 and 3", len(draft.Fields), len(draft.Sections))
	}

	result := ValidateDraft(draft)
	if !result.Valid {
		t.Errorf("ValidateDraft() issues = %+v, want none for an exported draft", result.Issues)
	}
}
