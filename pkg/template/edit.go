package template

import "errors"

// ErrFieldNotFound is returned when an edit addresses an id absent from the
// field list.
var ErrFieldNotFound = errors.New("template: field not found")

// FieldEdit carries the user-editable properties of one field.
type FieldEdit struct {
	Label         string
	Name          string
	Type          FieldType
	Required      bool
	PHI           bool
	AuditRequired bool
}

// ApplyEdit returns a copy of fields with the identified field updated and
// its validation rules rebuilt for the edited type and required flag. The
// input slice is not modified.
func ApplyEdit(fields []Field, id string, edit FieldEdit) ([]Field, error) {
	index := indexOf(fields, id)
	if index < 0 {
		return nil, ErrFieldNotFound
	}

	out := make([]Field, len(fields))
	copy(out, fields)

	field := &out[index]
	field.Label = edit.Label
	field.Name = edit.Name
	field.Type = edit.Type
	field.Required = edit.Required
	field.PHI = edit.PHI
	field.AuditRequired = edit.AuditRequired
	field.ValidationRules = BuildRules(field.ValidationRules, edit.Type, edit.Required)
	return out, nil
}

// RemoveField deletes the identified field and reindexes the remaining
// orders contiguously.
func RemoveField(fields []Field, id string) ([]Field, error) {
	index := indexOf(fields, id)
	if index < 0 {
		return nil, ErrFieldNotFound
	}

	out := make([]Field, 0, len(fields)-1)
	out = append(out, fields[:index]...)
	out = append(out, fields[index+1:]...)
	return reindex(out), nil
}

// MoveField relocates the identified field to position, clamped to the list
// bounds, and reindexes orders. Position is the target index in the new list.
func MoveField(fields []Field, id string, position int) ([]Field, error) {
	index := indexOf(fields, id)
	if index < 0 {
		return nil, ErrFieldNotFound
	}
	if position < 0 {
		position = 0
	}
	if position > len(fields)-1 {
		position = len(fields) - 1
	}

	out := make([]Field, 0, len(fields))
	out = append(out, fields[:index]...)
	out = append(out, fields[index+1:]...)

	moved := fields[index]
	out = append(out[:position], append([]Field{moved}, out[position:]...)...)
	return reindex(out), nil
}

// AppendField adds a field to the end of the list and assigns its order.
func AppendField(fields []Field, field Field) []Field {
	out := make([]Field, 0, len(fields)+1)
	out = append(out, fields...)
	out = append(out, field)
	return reindex(out)
}

func indexOf(fields []Field, id string) int {
	for i := range fields {
		if fields[i].ID == id {
			return i
		}
	}
	return -1
}

func reindex(fields []Field) []Field {
	for i := range fields {
		fields[i].Order = i
	}
	return fields
}
