package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFilter signals an unrecognized or malformed request parameter.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrIndexUnavailable signals that no configured lead index exists.
	ErrIndexUnavailable = errors.New("no search index available")
	// ErrSearchEngine signals a structural rejection of the query by the engine.
	ErrSearchEngine = errors.New("search engine rejected query")
	// ErrSearchFailed signals any other search failure.
	ErrSearchFailed = errors.New("search failed")
	// ErrSchemaDiscovery signals that the index mapping could not be read.
	ErrSchemaDiscovery = errors.New("schema discovery failed")
	// ErrExportLimit signals that an export reached its configured row cap.
	ErrExportLimit = errors.New("export row limit reached")
)

// IndexUnavailableError wraps ErrIndexUnavailable with every candidate that was probed.
type IndexUnavailableError struct {
	Tried []string
}

func (e *IndexUnavailableError) Error() string {
	return fmt.Sprintf("%s (tried: %s)", ErrIndexUnavailable.Error(), strings.Join(e.Tried, ", "))
}

func (e *IndexUnavailableError) Unwrap() error { return ErrIndexUnavailable }

// SearchEngineError wraps ErrSearchEngine with the engine's diagnostic payload.
type SearchEngineError struct {
	Detail map[string]any
	Err    error
}

func (e *SearchEngineError) Error() string {
	if e.Err == nil {
		return ErrSearchEngine.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSearchEngine.Error(), e.Err.Error())
}

func (e *SearchEngineError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSearchEngine}
	}
	return []error{ErrSearchEngine, e.Err}
}
