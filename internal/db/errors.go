package db

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for engine and cache operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
)

// Op constants name engine and cache calls for error context.
const (
	OpPing        = "PING"
	OpIndexExists = "INDICES.EXISTS"
	OpGetMapping  = "INDICES.GET_MAPPING"
	OpSearch      = "SEARCH"
	OpCount       = "COUNT"
	OpScroll      = "SCROLL"
	OpClearScroll = "CLEAR_SCROLL"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Cause is one entry of an engine error's root_cause list.
type Cause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Index  string `json:"index,omitempty"`
}

// EngineError is an error response returned by the search engine.
type EngineError struct {
	Status     int
	Type       string
	Reason     string
	RootCauses []Cause
}

func (e *EngineError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("engine error status %d", e.Status)
	}
	return fmt.Sprintf("engine error status %d: %s: %s", e.Status, e.Type, e.Reason)
}

// structuralTypes are error types raised when the engine cannot parse or
// execute the query itself, as opposed to availability problems.
var structuralTypes = []string{
	"search_phase_execution_exception",
	"query_shard_exception",
	"parsing_exception",
	"x_content_parse_exception",
	"query_parsing_exception",
}

// Structural reports whether the engine rejected the query shape.
func (e *EngineError) Structural() bool {
	types := make([]string, 0, len(e.RootCauses)+1)
	types = append(types, e.Type)
	for _, c := range e.RootCauses {
		types = append(types, c.Type)
	}
	for _, t := range types {
		for _, s := range structuralTypes {
			if strings.EqualFold(t, s) {
				return true
			}
		}
	}
	return false
}

// Detail returns a client-safe diagnostic payload.
func (e *EngineError) Detail() map[string]any {
	causes := make([]map[string]any, 0, len(e.RootCauses))
	for _, c := range e.RootCauses {
		causes = append(causes, map[string]any{"type": c.Type, "reason": c.Reason})
	}
	return map[string]any{
		"type":       e.Type,
		"reason":     e.Reason,
		"root_cause": causes,
	}
}

// AsEngineError extracts an *EngineError from err's chain.
func AsEngineError(err error) (*EngineError, bool) {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
