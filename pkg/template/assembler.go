package template

import (
	"fmt"
	"strings"
)

// DefaultSectionName is used when no upstream grouping exists.
const DefaultSectionName = "Main Section"

// sectionNameRules map label keywords onto clinical section names, checked in
// order. A group matching none of them falls back to "Section <n>".
var sectionNameRules = []struct {
	keywords []string
	name     string
}{
	{[]string{"demographic", "personal"}, "Demographics"},
	{[]string{"medical", "history"}, "Medical History"},
	{[]string{"vital", "sign"}, "Vital Signs"},
	{[]string{"medication", "drug"}, "Medications"},
	{[]string{"allerg"}, "Allergies"},
	{[]string{"contact", "emergency"}, "Contact Information"},
	{[]string{"insurance", "billing"}, "Insurance Information"},
}

// Group is one upstream cluster of field ids destined to become a section.
type Group struct {
	Key      string
	FieldIDs []string
}

// Assemble partitions fields into a sectioned draft. With no groups every
// field lands in a single "Main Section" in current order; the section is
// emitted even when the field list is empty. With groups, each becomes a
// section named from its field labels, unresolvable or already-claimed ids
// are skipped, and fields no group claimed trail in one extra section.
// Field order is reindexed 0..n-1 within each section. The draft is a
// snapshot: it copies fields and observes no later edits.
func Assemble(name string, fields []Field, groups []Group) Draft {
	draft := Draft{Name: name}

	if len(groups) == 0 {
		section := Section{ID: "section_1", Name: DefaultSectionName, Order: 0}
		for i, field := range fields {
			field.Order = i
			section.FieldIDs = append(section.FieldIDs, field.ID)
			draft.Fields = append(draft.Fields, field)
		}
		draft.Sections = []Section{section}
		return draft
	}

	byID := make(map[string]Field, len(fields))
	for _, field := range fields {
		byID[field.ID] = field
	}

	claimed := make(map[string]bool, len(fields))
	appendSection := func(ids []string) {
		ordinal := len(draft.Sections) + 1
		section := Section{ID: fmt.Sprintf("section_%d", ordinal), Order: ordinal - 1}
		var labels []string
		for _, id := range ids {
			field, ok := byID[id]
			if !ok || claimed[id] {
				continue
			}
			claimed[id] = true
			field.Order = len(section.FieldIDs)
			section.FieldIDs = append(section.FieldIDs, field.ID)
			draft.Fields = append(draft.Fields, field)
			labels = append(labels, field.Label)
		}
		section.Name = sectionName(labels, ordinal)
		draft.Sections = append(draft.Sections, section)
	}

	for _, group := range groups {
		appendSection(group.FieldIDs)
	}

	var leftovers []string
	for _, field := range fields {
		if !claimed[field.ID] {
			leftovers = append(leftovers, field.ID)
		}
	}
	if len(leftovers) > 0 {
		appendSection(leftovers)
	}

	return draft
}

func sectionName(labels []string, ordinal int) string {
	lowered := make([]string, len(labels))
	for i, label := range labels {
		lowered[i] = strings.ToLower(label)
	}
	for _, rule := range sectionNameRules {
		for _, label := range lowered {
			for _, keyword := range rule.keywords {
				if strings.Contains(label, keyword) {
					return rule.name
				}
			}
		}
	}
	return fmt.Sprintf("Section %d", ordinal)
}
