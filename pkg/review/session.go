package review

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/carelayer/scanform/internal/synth"
	"github.com/carelayer/scanform/pkg/template"
)

const (
	actionKeep   = "Keep"
	actionEdit   = "Edit"
	actionDelete = "Delete"
	actionFinish = "Finish review"
	actionCancel = "Cancel review"
)

var fieldActions = []string{actionKeep, actionEdit, actionDelete, actionFinish, actionCancel}

var fieldTypes = []template.FieldType{
	template.FieldTypeText,
	template.FieldTypeEmail,
	template.FieldTypePhone,
	template.FieldTypeDate,
	template.FieldTypeTime,
	template.FieldTypeNumber,
	template.FieldTypeYesNo,
	template.FieldTypeTextarea,
	template.FieldTypeCheckbox,
	template.FieldTypeRadio,
	template.FieldTypeSelect,
}

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Result is the outcome of a review session. Saved is false when the
// reviewer canceled; the draft is then the untouched input.
type Result struct {
	Draft template.Draft
	Saved bool
}

// Session walks a draft's fields one at a time. Edits and deletes apply to
// a working copy; the input draft is never modified.
type Session struct {
	driver   PromptDriver
	original template.Draft
	working  []template.Field
	pageSize int
}

// Option configures a session.
type Option func(*Session)

// WithPromptDriver overrides the survey-backed driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithPageSize bounds the visible option count in select prompts.
func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewSession snapshots the draft for review.
func NewSession(draft template.Draft, opts ...Option) *Session {
	s := &Session{
		driver:   newSurveyDriver(),
		original: draft,
		working:  append([]template.Field(nil), draft.Fields...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Fields returns a copy of the current working field list.
func (s *Session) Fields() []template.Field {
	return append([]template.Field(nil), s.working...)
}

// Run presents every field for keep/edit/delete decisions, then reassembles
// the survivors into the original section layout. Finishing early keeps the
// remaining fields as they are.
func (s *Session) Run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s.driver == nil {
		return Result{}, errors.New("review: prompt driver is nil")
	}

	if len(s.working) == 0 {
		_ = s.driver.Info(ctx, "No fields to review.")
		return s.save(), nil
	}

	_ = s.driver.Info(ctx, fmt.Sprintf("Reviewing %d fields. Keep, edit, or delete each one.", len(s.working)))

	i := 0
	for i < len(s.working) {
		field := s.working[i]

		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      fieldSummary(field, i, len(s.working)),
			Options:      fieldActions,
			DefaultIndex: 0,
			PageSize:     s.pageSize,
		})
		if err != nil {
			return Result{}, err
		}

		switch actionAt(idx) {
		case actionKeep:
			i++

		case actionEdit:
			if err := s.editField(ctx, field); err != nil {
				return Result{}, err
			}
			i++

		case actionDelete:
			confirmed, err := s.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Delete %q?", field.Label),
			})
			if err != nil {
				return Result{}, err
			}
			if !confirmed {
				i++
				continue
			}
			s.working, err = template.RemoveField(s.working, field.ID)
			if err != nil {
				return Result{}, err
			}

		case actionFinish:
			return s.save(), nil

		case actionCancel:
			confirmed, err := s.driver.Confirm(ctx, ConfirmConfig{
				Message: "Discard all review changes?",
			})
			if err != nil {
				return Result{}, err
			}
			if confirmed {
				return Result{Draft: s.original, Saved: false}, nil
			}

		default:
			_ = s.driver.Info(ctx, "Choose one of the listed actions.")
		}
	}

	return s.save(), nil
}

func (s *Session) editField(ctx context.Context, field template.Field) error {
	label, err := s.driver.Input(ctx, InputConfig{
		Message:   "Label",
		Default:   field.Label,
		Validator: nonEmpty("label"),
	})
	if err != nil {
		return err
	}
	label = strings.TrimSpace(label)

	// A changed label suggests a fresh identifier; the reviewer can still
	// override it at the next prompt.
	name := field.Name
	if label != field.Label {
		if derived := synth.SanitizeName(label); derived != "" {
			name = derived
		}
	}
	name, err = s.driver.Input(ctx, InputConfig{
		Message:   "Field name",
		Default:   name,
		Help:      "Lowercase letters, digits, and underscores.",
		Validator: identifier,
	})
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	typeIdx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "Field type",
		Options:      fieldTypeOptions(),
		DefaultIndex: fieldTypeIndex(field.Type),
		PageSize:     s.pageSize,
	})
	if err != nil {
		return err
	}
	fieldType := field.Type
	if typeIdx >= 0 && typeIdx < len(fieldTypes) {
		fieldType = fieldTypes[typeIdx]
	}

	required, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Required?",
		Default: field.Required,
	})
	if err != nil {
		return err
	}

	phi, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Contains protected health information?",
		Default: field.PHI,
	})
	if err != nil {
		return err
	}

	// Flipping PHI re-seeds the audit default; the reviewer confirms it
	// separately so the two flags can diverge.
	audit := field.AuditRequired
	if phi != field.PHI {
		audit = phi
	}
	audit, err = s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Audit access to this field?",
		Default: audit,
	})
	if err != nil {
		return err
	}

	updated, err := template.ApplyEdit(s.working, field.ID, template.FieldEdit{
		Label:         label,
		Name:          name,
		Type:          fieldType,
		Required:      required,
		PHI:           phi,
		AuditRequired: audit,
	})
	if err != nil {
		return err
	}
	s.working = updated
	return nil
}

// save reassembles the working fields into the original section layout,
// restoring the section names the reviewer saw.
func (s *Session) save() Result {
	var groups []template.Group
	for _, section := range s.original.Sections {
		groups = append(groups, template.Group{Key: section.Name, FieldIDs: section.FieldIDs})
	}

	draft := template.Assemble(s.original.Name, s.working, groups)
	for i := range draft.Sections {
		if i < len(s.original.Sections) {
			draft.Sections[i].Name = s.original.Sections[i].Name
		}
	}

	return Result{Draft: draft, Saved: true}
}

func actionAt(idx int) string {
	if idx < 0 || idx >= len(fieldActions) {
		return ""
	}
	return fieldActions[idx]
}

func fieldSummary(field template.Field, index, total int) string {
	attrs := []string{string(field.Type)}
	if field.Required {
		attrs = append(attrs, "required")
	}
	if field.PHI {
		attrs = append(attrs, "PHI")
	}
	return fmt.Sprintf("[%d/%d] %s (%s, page %d, %.0f%%)",
		index+1, total, field.Label, strings.Join(attrs, ", "),
		field.Source.PageNumber, field.Source.Confidence)
}

func fieldTypeOptions() []string {
	out := make([]string, len(fieldTypes))
	for i, t := range fieldTypes {
		out[i] = string(t)
	}
	return out
}

func fieldTypeIndex(t template.FieldType) int {
	for i, candidate := range fieldTypes {
		if candidate == t {
			return i
		}
	}
	return 0
}

func nonEmpty(what string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

func identifier(value string) error {
	if !identifierPattern.MatchString(strings.TrimSpace(value)) {
		return errors.New("use lowercase letters, digits, and underscores, starting with a letter")
	}
	return nil
}
