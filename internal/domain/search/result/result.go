package result

import "encoding/json"

// IDKey is the response key carrying the engine document identifier.
const IDKey = "_id"

// Record is a single lead: the engine document id plus its source attributes.
type Record struct {
	id         string
	attributes map[string]any
}

// NewRecord creates a record.
func NewRecord(id string, attributes map[string]any) Record {
	return Record{id: id, attributes: attributes}
}

// ID returns the engine document identifier.
func (r Record) ID() string { return r.id }

// Attributes returns the document source.
func (r Record) Attributes() map[string]any { return r.attributes }

// Flatten merges the identifier and attributes into one map.
// The identifier is written first, so an attribute named _id overrides it.
func (r Record) Flatten() map[string]any {
	out := make(map[string]any, len(r.attributes)+1)
	out[IDKey] = r.id
	for k, v := range r.attributes {
		out[k] = v
	}
	return out
}

// MarshalJSON renders the flattened record.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Flatten())
}

// Result is one page of a lead search.
type Result struct {
	Index   string
	Total   int64
	Offset  int
	Limit   int
	Records []Record
}
