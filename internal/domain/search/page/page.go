package page

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size used when none (or garbage) is supplied.
	DefaultLimit = 100
	// MaxLimit is the largest page size served.
	MaxLimit = 1000
)

// Page is a clamped offset/limit window.
type Page struct {
	offset int
	limit  int
}

// New clamps limit to [1, MaxLimit] and offset to >= 0.
func New(offset, limit int) Page {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{offset: offset, limit: limit}
}

// Default returns the first page with DefaultLimit.
func Default() Page {
	return Page{offset: 0, limit: DefaultLimit}
}

// Parse builds a Page from raw query values. Blank or non-numeric input
// falls back to the defaults instead of failing.
func Parse(rawLimit, rawOffset string) Page {
	return New(parseInt(rawOffset, 0), parseInt(rawLimit, DefaultLimit))
}

// parseInt saturates numbers that overflow int so New can clamp them.
func parseInt(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil {
		return v
	}
	var ne *strconv.NumError
	if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
		if strings.HasPrefix(strings.TrimSpace(raw), "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	return fallback
}

// Offset returns the number of records skipped.
func (p Page) Offset() int { return p.offset }

// Limit returns the page size.
func (p Page) Limit() int { return p.limit }

// IsZero reports whether p was never initialized.
func (p Page) IsZero() bool { return p.limit == 0 }
