package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var errNoProperties = errors.New("no properties found in mapping")

// strategy locates the root properties object inside an index's "mappings" value.
type strategy struct {
	name   string
	unwrap func(mappings map[string]any) (map[string]any, bool)
}

// strategies are tried in order; the first that finds a properties map wins.
var strategies = []strategy{
	{name: "direct", unwrap: unwrapDirect},
	{name: "type_wrapper", unwrap: unwrapTypeWrapper},
	{name: "double_type_wrapper", unwrap: unwrapDoubleTypeWrapper},
}

// unwrapDirect handles {"properties": {...}}.
func unwrapDirect(m map[string]any) (map[string]any, bool) {
	props, ok := m["properties"].(map[string]any)
	return props, ok
}

// unwrapTypeWrapper handles {"<type>": {"properties": {...}}}.
func unwrapTypeWrapper(m map[string]any) (map[string]any, bool) {
	for _, k := range sortedKeys(m) {
		inner, ok := m[k].(map[string]any)
		if !ok {
			continue
		}
		if props, ok := unwrapDirect(inner); ok {
			return props, true
		}
	}
	return nil, false
}

// unwrapDoubleTypeWrapper handles {"<type>": {"<type>": {"properties": {...}}}}.
func unwrapDoubleTypeWrapper(m map[string]any) (map[string]any, bool) {
	for _, k := range sortedKeys(m) {
		inner, ok := m[k].(map[string]any)
		if !ok {
			continue
		}
		if props, ok := unwrapTypeWrapper(inner); ok {
			return props, true
		}
	}
	return nil, false
}

// Decode parses a get-mapping response into a flat field map.
// The response is keyed by concrete index name; an alias may resolve to
// several indices, in which case the first (by name) that decodes wins.
func Decode(raw json.RawMessage) (Fields, error) {
	var byIndex map[string]struct {
		Mappings map[string]any `json:"mappings"`
	}
	if err := json.Unmarshal(raw, &byIndex); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}

	for _, name := range slices.Sorted(maps.Keys(byIndex)) {
		if props, ok := unwrap(byIndex[name].Mappings); ok {
			fields := Fields{}
			flatten("", props, fields)
			return fields, nil
		}
	}
	return nil, errNoProperties
}

func unwrap(mappings map[string]any) (map[string]any, bool) {
	if mappings == nil {
		return nil, false
	}
	for _, s := range strategies {
		if props, ok := s.unwrap(mappings); ok {
			return props, true
		}
	}
	return nil, false
}

// flatten records every property under its dotted path. Object properties
// without an explicit type are recorded as "object"; multi-fields become
// "<field>.<sub>".
func flatten(prefix string, props map[string]any, out Fields) {
	for name, v := range props {
		node, ok := v.(map[string]any)
		if !ok {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		typ, _ := node["type"].(string)
		nested, hasNested := node["properties"].(map[string]any)
		switch {
		case typ != "":
			out[path] = typ
		case hasNested:
			out[path] = "object"
		}
		if hasNested {
			flatten(path, nested, out)
		}

		if multi, ok := node["fields"].(map[string]any); ok {
			for sub, sv := range multi {
				subNode, ok := sv.(map[string]any)
				if !ok {
					continue
				}
				if subType, ok := subNode["type"].(string); ok {
					out[path+"."+sub] = subType
				}
			}
		}
	}
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
