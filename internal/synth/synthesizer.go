// Package synth converts recognized elements into structured form fields:
// type inference from label text, identifier and label derivation, required
// and PHI detection, and default validation rules.
package synth

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/carelayer/scanform/internal/layout"
	"github.com/carelayer/scanform/pkg/recognition"
	"github.com/carelayer/scanform/pkg/template"
)

// PlaceholderLabel is assigned when an element carries no usable text.
const PlaceholderLabel = "Unknown Field"

// textareaThreshold is the source text length, in runes, above which a field
// becomes a textarea.
const textareaThreshold = 50

// InferFieldType maps source text onto a field type using ordered keyword
// rules. Both "yes" and "no" must appear for the yes/no type; text longer
// than the textarea threshold becomes a textarea; everything else is text.
func InferFieldType(text string) template.FieldType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "email"):
		return template.FieldTypeEmail
	case strings.Contains(lower, "phone"), strings.Contains(lower, "tel"):
		return template.FieldTypePhone
	case strings.Contains(lower, "date"):
		return template.FieldTypeDate
	case strings.Contains(lower, "time"):
		return template.FieldTypeTime
	case strings.Contains(lower, "number"), strings.Contains(lower, "#"):
		return template.FieldTypeNumber
	case strings.Contains(lower, "yes") && strings.Contains(lower, "no"):
		return template.FieldTypeYesNo
	case utf8.RuneCountInString(text) > textareaThreshold:
		return template.FieldTypeTextarea
	default:
		return template.FieldTypeText
	}
}

// typeForKind overrides keyword inference when the recognized element itself
// declares an input shape.
func typeForKind(kind recognition.ElementKind) (template.FieldType, bool) {
	switch kind {
	case recognition.KindCheckbox:
		return template.FieldTypeCheckbox, true
	case recognition.KindRadio:
		return template.FieldTypeRadio, true
	case recognition.KindSelect:
		return template.FieldTypeSelect, true
	}
	return "", false
}

// Synthesizer builds fields from recognized elements. The zero value is not
// usable; construct with New.
type Synthesizer struct {
	labeler func(string) string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLabeler overrides how source text becomes a display label.
func WithLabeler(labeler func(string) string) Option {
	return func(s *Synthesizer) {
		if labeler != nil {
			s.labeler = labeler
		}
	}
}

// New builds a Synthesizer using FormatLabel unless overridden.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{labeler: FormatLabel}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromMatch synthesizes a field from a matched pair, deriving from the label
// half when present.
func (s *Synthesizer) FromMatch(m layout.Match, page, index int) template.Field {
	return s.FromElement(m.Source(), page, index)
}

// FromElement synthesizes a field from one recognized element. page is the
// 1-based page number; index is the running position within the synthesis
// pass and doubles as the field's initial order. A nil element or blank text
// produces a placeholder field rather than an error. The function is pure:
// same element, page, and index always yield the same field.
func (s *Synthesizer) FromElement(el *recognition.Element, page, index int) template.Field {
	if el == nil || strings.TrimSpace(el.Text) == "" {
		return template.Field{
			ID:    fieldID(page, index),
			Name:  FallbackName(page, index),
			Label: PlaceholderLabel,
			Type:  template.FieldTypeText,
			Order: index,
			Source: template.SourceAttributes{
				PageNumber: page,
			},
		}
	}

	text := strings.TrimSpace(el.Text)
	fieldType, overridden := typeForKind(el.Kind)
	if !overridden {
		fieldType = InferFieldType(text)
	}

	required := strings.Contains(text, "*") || strings.Contains(strings.ToLower(text), "required")
	phi := IsPotentialPHI(text)

	name := SanitizeName(text)
	if name == "" {
		name = FallbackName(page, index)
	}

	return template.Field{
		ID:              fieldID(page, index),
		Name:            name,
		Label:           s.labeler(text),
		Type:            fieldType,
		Required:        required,
		PHI:             phi,
		AuditRequired:   phi,
		ValidationRules: template.BuildRules(nil, fieldType, required),
		Order:           index,
		Source: template.SourceAttributes{
			PageNumber:  page,
			Confidence:  el.Confidence,
			BoundingBox: el.Box,
			SourceText:  el.Text,
			SourceKind:  el.Kind,
		},
	}
}

func fieldID(page, index int) string {
	return fmt.Sprintf("field_%d_%d", page, index)
}
