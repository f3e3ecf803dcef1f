// Package query models OpenSearch boolean query trees.
//
// A compiled query is a Clause: either a single leaf (term, phrase, range,
// wildcard, match_all) or a Bool group whose members are themselves clauses.
// Clauses render to the engine DSL via Source and marshal to JSON directly.
package query

import "encoding/json"

// Clause is a node of a query tree.
type Clause interface {
	// Source returns the engine DSL for this clause.
	Source() map[string]any
}

// Marshal renders a clause to JSON DSL.
func Marshal(c Clause) ([]byte, error) {
	return json.Marshal(c.Source())
}

// MatchAll matches every document.
type MatchAll struct{}

// Source implements Clause.
func (MatchAll) Source() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// IsMatchAll reports whether c is the match-everything clause.
func IsMatchAll(c Clause) bool {
	_, ok := c.(MatchAll)
	return ok
}

// Term is an exact, non-analyzed value match.
type Term struct {
	Field string
	Value any
}

// Source implements Clause.
func (t Term) Source() map[string]any {
	return map[string]any{"term": map[string]any{t.Field: t.Value}}
}

// Phrase is an analyzed phrase match that tolerates Slop positions of token reordering.
type Phrase struct {
	Field string
	Query string
	Slop  int
}

// Source implements Clause.
func (p Phrase) Source() map[string]any {
	body := map[string]any{"query": p.Query}
	if p.Slop > 0 {
		body["slop"] = p.Slop
	}
	return map[string]any{"match_phrase": map[string]any{p.Field: body}}
}

// MultiPhrase is a phrase match evaluated against several fields at once.
// A document matches when any of the fields contains the phrase.
type MultiPhrase struct {
	Fields []string
	Query  string
	Slop   int
}

// Source implements Clause.
func (m MultiPhrase) Source() map[string]any {
	body := map[string]any{
		"query":  m.Query,
		"type":   "phrase",
		"fields": m.Fields,
	}
	if m.Slop > 0 {
		body["slop"] = m.Slop
	}
	return map[string]any{"multi_match": body}
}

// Wildcard is a pattern match where * and ? are wildcards.
type Wildcard struct {
	Field   string
	Pattern string
}

// Source implements Clause.
func (w Wildcard) Source() map[string]any {
	return map[string]any{"wildcard": map[string]any{
		w.Field: map[string]any{"value": w.Pattern, "case_insensitive": true},
	}}
}

// Range is an inclusive numeric range. At least one bound should be set.
type Range struct {
	Field string
	GTE   *float64
	LTE   *float64
}

// Source implements Clause.
func (r Range) Source() map[string]any {
	bounds := map[string]any{}
	if r.GTE != nil {
		bounds["gte"] = *r.GTE
	}
	if r.LTE != nil {
		bounds["lte"] = *r.LTE
	}
	return map[string]any{"range": map[string]any{r.Field: bounds}}
}

// Bool combines clauses: Must and Filter are AND'ed (Filter without scoring),
// Should is OR'ed and requires MinimumShouldMatch members when non-zero.
type Bool struct {
	Must               []Clause
	Should             []Clause
	Filter             []Clause
	MinimumShouldMatch int
}

// AnyOf builds an OR group that requires at least one of the clauses.
func AnyOf(clauses ...Clause) *Bool {
	return &Bool{Should: clauses, MinimumShouldMatch: 1}
}

// IsEmpty reports whether the group has no members.
func (b *Bool) IsEmpty() bool {
	return len(b.Must) == 0 && len(b.Should) == 0 && len(b.Filter) == 0
}

// Source implements Clause. Empty arrays are omitted.
func (b *Bool) Source() map[string]any {
	body := map[string]any{}
	if len(b.Must) > 0 {
		body["must"] = sources(b.Must)
	}
	if len(b.Should) > 0 {
		body["should"] = sources(b.Should)
		if b.MinimumShouldMatch > 0 {
			body["minimum_should_match"] = b.MinimumShouldMatch
		}
	}
	if len(b.Filter) > 0 {
		body["filter"] = sources(b.Filter)
	}
	return map[string]any{"bool": body}
}

func sources(cc []Clause) []map[string]any {
	out := make([]map[string]any, len(cc))
	for i, c := range cc {
		out[i] = c.Source()
	}
	return out
}
