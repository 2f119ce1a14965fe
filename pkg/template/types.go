// Package template holds the form template model produced from recognized
// scans: fields, their validation rules, and the sectioned draft the
// assembler emits. Drafts are snapshots; consumers re-assemble after edits.
package template

import (
	"github.com/carelayer/scanform/pkg/geometry"
	"github.com/carelayer/scanform/pkg/recognition"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeNumber   FieldType = "number"
	FieldTypeYesNo    FieldType = "yes_no"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeSelect   FieldType = "select"
)

const (
	RuleRequired = "required"
	RulePattern  = "pattern"
)

// ValidationRule is a single constraint on a field. Pattern rules carry the
// expression in Value; required rules carry only a message.
type ValidationRule struct {
	Type    string `json:"type" yaml:"type"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// SourceAttributes trace a field back to the recognized element it was
// synthesized from.
type SourceAttributes struct {
	PageNumber  int                     `json:"pageNumber" yaml:"pageNumber"`
	Confidence  float64                 `json:"confidence" yaml:"confidence"`
	BoundingBox geometry.Box            `json:"boundingBox" yaml:"boundingBox"`
	SourceText  string                  `json:"sourceText,omitempty" yaml:"sourceText,omitempty"`
	SourceKind  recognition.ElementKind `json:"sourceKind,omitempty" yaml:"sourceKind,omitempty"`
}

// Field is the core output unit of synthesis. Order is the field's position
// within its section; ids are unique across a draft.
type Field struct {
	ID              string           `json:"id" yaml:"id"`
	Name            string           `json:"name" yaml:"name"`
	Label           string           `json:"label" yaml:"label"`
	Type            FieldType        `json:"type" yaml:"type"`
	Required        bool             `json:"required" yaml:"required"`
	PHI             bool             `json:"isPhiField" yaml:"isPhiField"`
	AuditRequired   bool             `json:"auditRequired" yaml:"auditRequired"`
	ValidationRules []ValidationRule `json:"validationRules,omitempty" yaml:"validationRules,omitempty"`
	Order           int              `json:"order" yaml:"order"`
	Source          SourceAttributes `json:"customAttributes" yaml:"customAttributes"`
}

// Section groups fields under a heading in the assembled draft.
type Section struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	FieldIDs []string `json:"fieldIds" yaml:"fieldIds"`
	Order    int      `json:"order" yaml:"order"`
}

// Draft is one assembled template: the field list plus its section layout.
// It is built from the then-current fields and not kept in sync afterward.
type Draft struct {
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Fields   []Field   `json:"fields" yaml:"fields"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// FieldByID returns the draft field with the given id, or nil.
func (d *Draft) FieldByID(id string) *Field {
	if d == nil {
		return nil
	}
	for i := range d.Fields {
		if d.Fields[i].ID == id {
			return &d.Fields[i]
		}
	}
	return nil
}

// SectionFields resolves a section's field ids against the draft's fields,
// skipping ids that no longer resolve.
func (d *Draft) SectionFields(section Section) []Field {
	if d == nil {
		return nil
	}
	fields := make([]Field, 0, len(section.FieldIDs))
	for _, id := range section.FieldIDs {
		if f := d.FieldByID(id); f != nil {
			fields = append(fields, *f)
		}
	}
	return fields
}
