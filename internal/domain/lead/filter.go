// Package lead defines the lead-search request vocabulary: the typed filter
// set decoded from query parameters and the schema fields each filter targets.
package lead

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/gorilla/schema"

	"github.com/kailas-cloud/leadsearch/internal/domain"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/page"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/sort"
)

// Pagination and sort parameters, decoded separately from filters.
const (
	ParamLimit     = "limit"
	ParamOffset    = "offset"
	ParamSortField = "sort_field"
	ParamSortDir   = "sort_dir"
)

var controlParams = map[string]struct{}{
	ParamLimit:     {},
	ParamOffset:    {},
	ParamSortField: {},
	ParamSortDir:   {},
}

// FilterSet is the typed set of lead filters. Every value is the raw,
// trimmed parameter; an empty string means the filter is not specified.
type FilterSet struct {
	Exact string `schema:"exact"`

	ContactFullName string `schema:"contact_full_name"`
	CompanyName     string `schema:"company_name"`
	Industry        string `schema:"industry"`
	City            string `schema:"city"`
	ZipCode         string `schema:"zip_code"`
	Website         string `schema:"website"`
	Domain          string `schema:"domain"`
	JobTitle        string `schema:"job_title"`
	Company         string `schema:"company"`
	SubRole         string `schema:"sub_role"`

	NormalizedEmail string `schema:"normalized_email"`
	Phone           string `schema:"phone"`

	StateCode                string `schema:"state_code"`
	State                    string `schema:"state"`
	CompanyLocationCountry   string `schema:"company_location_country"`
	CompanyLocationRegion    string `schema:"company_location_region"`
	CompanyLocationLocality  string `schema:"company_location_locality"`
	CompanyLocationContinent string `schema:"company_location_continent"`
	Countries                string `schema:"countries"`
	ESID                     string `schema:"es_id"`
	LinkedID                 string `schema:"linked_id"`

	Skills string `schema:"skills"`

	EmployeesMin string `schema:"employees_min"`
	EmployeesMax string `schema:"employees_max"`
	RevenueMin   string `schema:"revenue_min"`
	RevenueMax   string `schema:"revenue_max"`
}

// IsExact reports whether exact matching was requested ("1" or "true", any case).
func (f FilterSet) IsExact() bool {
	v := strings.TrimSpace(f.Exact)
	return v == "1" || strings.EqualFold(v, "true")
}

// Trimmed returns a copy with surrounding whitespace removed from every value.
func (f FilterSet) Trimmed() FilterSet {
	v := reflect.ValueOf(&f).Elem()
	for i := range v.NumField() {
		fv := v.Field(i)
		if fv.Kind() == reflect.String {
			fv.SetString(strings.TrimSpace(fv.String()))
		}
	}
	return f
}

// Query is a fully parsed lead-search request.
type Query struct {
	Filters FilterSet
	Page    page.Page
	Sort    sort.Request
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(false)
	d.ZeroEmpty(true)
	return d
}

// ParseQuery decodes raw query parameters. Unrecognized keys are rejected
// with domain.ErrInvalidFilter; malformed pagination falls back to defaults.
func ParseQuery(values url.Values) (Query, error) {
	filters := make(url.Values, len(values))
	for k, v := range values {
		if _, ok := controlParams[k]; ok {
			continue
		}
		filters[k] = v
	}

	var fs FilterSet
	if err := decoder.Decode(&fs, filters); err != nil {
		return Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}

	return Query{
		Filters: fs.Trimmed(),
		Page:    page.Parse(values.Get(ParamLimit), values.Get(ParamOffset)),
		Sort: sort.Request{
			Field:     strings.TrimSpace(values.Get(ParamSortField)),
			Direction: values.Get(ParamSortDir),
		},
	}, nil
}

// SplitList splits a comma- and/or semicolon-delimited value into trimmed,
// non-empty tokens.
func SplitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
