// Package validation checks assembled template drafts for structural
// problems before they leave the pipeline: duplicate identifiers, dangling
// section references, and rules inconsistent with their field's type.
package validation

import (
	"fmt"
	"regexp"

	"github.com/carelayer/scanform/pkg/template"
)

// Issue is one problem found in a draft, anchored to the field or section
// it was found on when known.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Section string `json:"section,omitempty"`
	Message string `json:"message"`
}

// Result captures one draft check.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var knownFieldTypes = map[template.FieldType]struct{}{
	template.FieldTypeText:     {},
	template.FieldTypeEmail:    {},
	template.FieldTypePhone:    {},
	template.FieldTypeDate:     {},
	template.FieldTypeTime:     {},
	template.FieldTypeNumber:   {},
	template.FieldTypeYesNo:    {},
	template.FieldTypeTextarea: {},
	template.FieldTypeCheckbox: {},
	template.FieldTypeRadio:    {},
	template.FieldTypeSelect:   {},
}

// ValidateDraft checks a draft's fields and section layout. Issues are
// reported in draft order so repeated runs diff cleanly.
func ValidateDraft(draft template.Draft) Result {
	var issues []Issue
	issues = append(issues, fieldIssues(draft)...)
	issues = append(issues, sectionIssues(draft)...)
	return Result{Valid: len(issues) == 0, Issues: issues}
}

func fieldIssues(draft template.Draft) []Issue {
	var issues []Issue
	seenIDs := make(map[string]bool, len(draft.Fields))
	seenNames := make(map[string]bool, len(draft.Fields))

	for _, field := range draft.Fields {
		anchor := field.ID
		if anchor == "" {
			anchor = field.Name
		}
		report := func(format string, args ...any) {
			issues = append(issues, Issue{Field: anchor, Message: fmt.Sprintf(format, args...)})
		}

		if field.ID == "" {
			report("field has no id")
		} else if seenIDs[field.ID] {
			report("field id %q is used more than once", field.ID)
		}
		seenIDs[field.ID] = true

		if !identifierPattern.MatchString(field.Name) {
			report("field name %q is not a valid identifier", field.Name)
		} else if seenNames[field.Name] {
			report("field name %q is used by more than one field", field.Name)
		}
		seenNames[field.Name] = true

		if field.Label == "" {
			report("field has no label")
		}
		if _, ok := knownFieldTypes[field.Type]; !ok {
			report("unsupported field type %q", field.Type)
		}

		issues = append(issues, ruleIssues(anchor, field)...)
	}
	return issues
}

func ruleIssues(anchor string, field template.Field) []Issue {
	var issues []Issue
	report := func(format string, args ...any) {
		issues = append(issues, Issue{Field: anchor, Message: fmt.Sprintf(format, args...)})
	}

	var hasRequired, hasPattern bool
	for _, rule := range field.ValidationRules {
		switch rule.Type {
		case template.RuleRequired:
			hasRequired = true
		case template.RulePattern:
			hasPattern = true
			if rule.Value == "" {
				report("pattern rule has no expression")
			} else if _, err := regexp.Compile(rule.Value); err != nil {
				report("pattern rule does not compile: %v", err)
			}
		default:
			report("unsupported rule type %q", rule.Type)
		}
		if rule.Message == "" {
			report("%s rule has no message", rule.Type)
		}
	}

	if field.Required && !hasRequired {
		report("required field is missing its required rule")
	}
	if hasRequired && !field.Required {
		report("field carries a required rule but is not marked required")
	}
	if (field.Type == template.FieldTypeEmail || field.Type == template.FieldTypePhone) && !hasPattern {
		report("%s field has no pattern rule", field.Type)
	}
	return issues
}

func sectionIssues(draft template.Draft) []Issue {
	var issues []Issue
	fieldByID := make(map[string]bool, len(draft.Fields))
	for _, field := range draft.Fields {
		fieldByID[field.ID] = true
	}

	seenSections := make(map[string]bool, len(draft.Sections))
	claimed := make(map[string]string, len(draft.Fields))

	for _, section := range draft.Sections {
		anchor := section.ID
		report := func(format string, args ...any) {
			issues = append(issues, Issue{Section: anchor, Message: fmt.Sprintf(format, args...)})
		}

		if section.ID == "" {
			report("section has no id")
		} else if seenSections[section.ID] {
			report("section id %q is used more than once", section.ID)
		}
		seenSections[section.ID] = true

		if section.Name == "" {
			report("section has no name")
		}

		for _, id := range section.FieldIDs {
			if !fieldByID[id] {
				report("section references unknown field %q", id)
				continue
			}
			if owner, ok := claimed[id]; ok {
				report("field %q already belongs to section %q", id, owner)
				continue
			}
			claimed[id] = section.ID
		}
	}

	for _, field := range draft.Fields {
		if field.ID == "" {
			continue
		}
		if _, ok := claimed[field.ID]; !ok {
			issues = append(issues, Issue{
				Field:   field.ID,
				Message: "field is not placed in any section",
			})
		}
	}
	return issues
}
