package search

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/leadsearch/internal/domain/lead"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/query"
)

const (
	// textSlop is the phrase tolerance for loose text attributes.
	textSlop = 2
	// tokenSlop is the phrase tolerance for list tokens, skills and phones.
	tokenSlop = 1
)

var (
	schemePrefix = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)
	nonDigits    = regexp.MustCompile(`\D+`)
)

// Compile translates a filter set into one boolean query clause.
// It performs no I/O and returns the same tree for the same input.
// A filter set that constrains nothing compiles to match_all.
func Compile(filters lead.FilterSet) query.Clause {
	f := filters.Trimmed()
	c := &compiler{exact: f.IsExact(), root: &query.Bool{}}

	c.contactName(f.ContactFullName)
	c.text(f.CompanyName, lead.CompanyNameFields)
	c.text(f.Company, lead.CompanyFields)
	c.text(f.Industry, lead.IndustryFields)
	c.text(f.City, lead.CityFields)
	c.text(f.ZipCode, lead.ZipCodeFields)
	c.text(f.Website, lead.WebsiteFields)
	c.text(f.JobTitle, lead.JobTitleFields)
	c.text(f.SubRole, lead.SubRoleFields)
	c.domain(f.Domain)
	c.email(f.NormalizedEmail)
	c.phone(f.Phone)

	c.list(f.StateCode, lead.StateCodeFields)
	c.list(f.State, lead.StateFields)
	c.list(f.CompanyLocationCountry, lead.CountryFields)
	c.list(f.CompanyLocationRegion, lead.RegionFields)
	c.list(f.CompanyLocationLocality, lead.LocalityFields)
	c.list(f.CompanyLocationContinent, lead.ContinentFields)
	c.list(f.Countries, lead.CountriesFields)
	c.list(f.ESID, lead.ESIDFields)
	c.list(f.LinkedID, lead.LinkedIDFields)
	c.skills(f.Skills)

	c.numericRange(lead.EmployeeCountField, f.EmployeesMin, f.EmployeesMax)
	c.numericRange(lead.RevenueField, f.RevenueMin, f.RevenueMax)

	if c.root.IsEmpty() {
		return query.MatchAll{}
	}
	if len(c.root.Should) > 0 {
		c.root.MinimumShouldMatch = 1
	}
	return c.root
}

type compiler struct {
	exact bool
	root  *query.Bool
}

// add places a mode-dependent clause: scoring must in loose mode,
// non-scoring filter in exact mode.
func (c *compiler) add(cl query.Clause) {
	if c.exact {
		c.root.Filter = append(c.root.Filter, cl)
		return
	}
	c.root.Must = append(c.root.Must, cl)
}

func (c *compiler) text(value string, fields []string) {
	if value == "" {
		return
	}
	c.add(c.anyField(value, fields))
}

// anyField matches value against any of fields: exact terms on the raw and
// keyword variants, or a sloppy phrase per field.
func (c *compiler) anyField(value string, fields []string) *query.Bool {
	if c.exact {
		lower := strings.ToLower(value)
		clauses := make([]query.Clause, 0, len(fields)*2)
		for _, f := range fields {
			clauses = append(clauses,
				query.Term{Field: f, Value: lower},
				query.Term{Field: f + lead.KeywordSuffix, Value: lower},
			)
		}
		return query.AnyOf(clauses...)
	}

	clauses := make([]query.Clause, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, query.Phrase{Field: f, Query: value, Slop: textSlop})
	}
	return query.AnyOf(clauses...)
}

// contactName also matches documents that store the name split into
// first and last name fields.
func (c *compiler) contactName(value string) {
	if value == "" {
		return
	}
	group := c.anyField(value, lead.ContactNameFields)

	if tokens := strings.Fields(value); len(tokens) >= 2 {
		first := c.anyField(tokens[0], lead.FirstNameFields)
		last := c.anyField(strings.Join(tokens[1:], " "), lead.LastNameFields)
		split := &query.Bool{}
		if c.exact {
			split.Filter = []query.Clause{first, last}
		} else {
			split.Must = []query.Clause{first, last}
		}
		group.Should = append(group.Should, split)
	}

	c.add(group)
}

// domain is always substring-oriented and ignores exact mode.
func (c *compiler) domain(value string) {
	d := NormalizeDomain(value)
	if d == "" {
		return
	}
	for _, f := range lead.DomainFields {
		c.root.Should = append(c.root.Should,
			query.Term{Field: f, Value: d},
			query.Phrase{Field: f, Query: d},
			query.Wildcard{Field: f, Pattern: "*" + escapeWildcard(d) + "*"},
		)
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// escapeWildcard makes user input match literally inside a wildcard pattern.
func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

func (c *compiler) email(value string) {
	if value == "" {
		return
	}
	lower := strings.ToLower(value)

	if c.exact {
		clauses := make([]query.Clause, 0, len(lead.EmailNormalizedFields)*2)
		for _, f := range lead.EmailNormalizedFields {
			clauses = append(clauses,
				query.Term{Field: f, Value: lower},
				query.Term{Field: f + lead.KeywordSuffix, Value: lower},
			)
		}
		c.add(query.AnyOf(clauses...))
		return
	}

	clauses := make([]query.Clause, 0, len(lead.EmailNormalizedFields)+len(lead.EmailRawFields))
	for _, f := range lead.EmailNormalizedFields {
		clauses = append(clauses, query.Term{Field: f, Value: lower})
	}
	for _, f := range lead.EmailRawFields {
		clauses = append(clauses, query.Phrase{Field: f, Query: value})
	}
	c.add(query.AnyOf(clauses...))
}

func (c *compiler) phone(value string) {
	if value == "" {
		return
	}
	digits := ExtractDigits(value)

	if c.exact {
		if digits == "" {
			return
		}
		clauses := make([]query.Clause, 0, len(lead.PhoneNormalizedFields))
		for _, f := range lead.PhoneNormalizedFields {
			clauses = append(clauses, query.Term{Field: f, Value: digits})
		}
		c.add(query.AnyOf(clauses...))
		return
	}

	fields := make([]string, 0, len(lead.PhoneNormalizedFields)+len(lead.PhoneRawFields))
	fields = append(fields, lead.PhoneNormalizedFields...)
	fields = append(fields, lead.PhoneRawFields...)

	if digits == "" {
		c.text(value, fields)
		return
	}
	clauses := make([]query.Clause, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, query.Phrase{Field: f, Query: value, Slop: tokenSlop})
	}
	c.add(query.AnyOf(clauses...))
}

// list requires every supplied token to match: two states mean a lead
// must match both, not either.
func (c *compiler) list(value string, fields []string) {
	for _, token := range lead.SplitList(value) {
		clauses := make([]query.Clause, 0, len(fields)*2)
		for _, f := range fields {
			clauses = append(clauses,
				query.Term{Field: f, Value: token},
				query.Phrase{Field: f, Query: token, Slop: tokenSlop},
			)
		}
		c.root.Filter = append(c.root.Filter, query.AnyOf(clauses...))
	}
}

func (c *compiler) skills(value string) {
	for _, token := range lead.SplitList(value) {
		c.root.Must = append(c.root.Must, query.MultiPhrase{
			Fields: lead.SkillsFields,
			Query:  token,
			Slop:   tokenSlop,
		})
	}
}

func (c *compiler) numericRange(field, rawMin, rawMax string) {
	gte, okMin := parseNumber(rawMin)
	lte, okMax := parseNumber(rawMax)
	if !okMin && !okMax {
		return
	}
	r := query.Range{Field: field}
	if okMin {
		r.GTE = &gte
	}
	if okMax {
		r.LTE = &lte
	}
	c.root.Filter = append(c.root.Filter, r)
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeDomain lower-cases a domain or URL and strips the scheme,
// a leading "www." and everything from the first "/".
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = schemePrefix.ReplaceAllString(d, "")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}

// ExtractDigits strips every non-digit character.
func ExtractDigits(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}
