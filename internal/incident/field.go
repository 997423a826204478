package incident

import (
	"strconv"
	"strings"
)

// Field names a categorical dimension of a Record that views can group by.
type Field string

const (
	FieldCategory        Field = "category"
	FieldSubcategory     Field = "subcategory"
	FieldSeverity        Field = "severity"
	FieldStatus          Field = "status"
	FieldPriority        Field = "priority"
	FieldSource          Field = "source"
	FieldRootCause       Field = "rootCause"
	FieldLineOfBusiness  Field = "lineOfBusiness"
	FieldAssignmentGroup Field = "assignmentGroup"
)

// Fields lists every groupable field.
var Fields = []Field{
	FieldCategory, FieldSubcategory, FieldSeverity, FieldStatus, FieldPriority,
	FieldSource, FieldRootCause, FieldLineOfBusiness, FieldAssignmentGroup,
}

// ParseField resolves a field name case-insensitively, accepting a few
// common spellings ("root_cause", "lob").
func ParseField(name string) (Field, bool) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
	switch key {
	case "lob":
		return FieldLineOfBusiness, true
	case "group", "team":
		return FieldAssignmentGroup, true
	}
	for _, f := range Fields {
		if strings.ToLower(string(f)) == key {
			return f, true
		}
	}
	return "", false
}

// Value returns the record's value for f. ok is false when the value is
// null: blank strings and an unset priority.
func (r Record) Value(f Field) (string, bool) {
	var v string
	switch f {
	case FieldCategory:
		v = r.Category
	case FieldSubcategory:
		v = r.Subcategory
	case FieldSeverity:
		v = string(r.Severity)
	case FieldStatus:
		v = string(r.Status)
	case FieldPriority:
		if r.Priority < 1 || r.Priority > 4 {
			return "", false
		}
		v = "P" + strconv.Itoa(r.Priority)
	case FieldSource:
		v = r.Source
	case FieldRootCause:
		v = r.RootCause
	case FieldLineOfBusiness:
		v = r.LineOfBusiness
	case FieldAssignmentGroup:
		v = r.AssignmentGroup
	default:
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// CanonicalOrder returns the natural label order for ordinal fields, nil
// for free-text fields.
func CanonicalOrder(f Field) []string {
	switch f {
	case FieldSeverity:
		out := make([]string, len(Severities))
		for i, s := range Severities {
			out[i] = string(s)
		}
		return out
	case FieldStatus:
		out := make([]string, len(Statuses))
		for i, s := range Statuses {
			out[i] = string(s)
		}
		return out
	case FieldPriority:
		return []string{"P1", "P2", "P3", "P4"}
	}
	return nil
}
