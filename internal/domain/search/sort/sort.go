// Package sort describes result ordering for lead searches.
package sort

import (
	"regexp"
	"strings"
)

// Direction is a sort order.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "asc"
	// Desc sorts descending.
	Desc Direction = "desc"
)

// IntrinsicField is the engine's index-order pseudo field.
const IntrinsicField = "_doc"

// fieldPattern restricts caller-supplied sort fields to plain dotted names.
var fieldPattern = regexp.MustCompile(`^[\w.@-]+$`)

// ValidField reports whether name is acceptable as an explicit sort field.
func ValidField(name string) bool {
	return fieldPattern.MatchString(name)
}

// ParseDirection maps "asc" (any case) to Asc and everything else to Desc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Asc)) {
		return Asc
	}
	return Desc
}

// Request is the caller's raw sort preference.
type Request struct {
	Field     string
	Direction string
}

// Field is one sort key.
type Field struct {
	Name        string
	Direction   Direction
	MissingLast bool
}

// Spec is an ordered list of sort keys, or the intrinsic document order.
type Spec struct {
	fields []Field
}

// By builds a Spec from explicit keys. With no keys it is the intrinsic order.
func By(fields ...Field) Spec {
	return Spec{fields: fields}
}

// Intrinsic returns the engine's document order.
func Intrinsic() Spec {
	return Spec{}
}

// Fields returns the sort keys. Empty for intrinsic order.
func (s Spec) Fields() []Field { return s.fields }

// IsIntrinsic reports whether no explicit key is set.
func (s Spec) IsIntrinsic() bool { return len(s.fields) == 0 }

// Source renders the OpenSearch sort array.
func (s Spec) Source() []any {
	if s.IsIntrinsic() {
		return []any{IntrinsicField}
	}
	out := make([]any, 0, len(s.fields))
	for _, f := range s.fields {
		opts := map[string]any{"order": string(f.Direction)}
		if f.MissingLast {
			opts["missing"] = "_last"
		}
		out = append(out, map[string]any{f.Name: opts})
	}
	return out
}
