package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/leadsearch/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCompile_PrintsQuery(t *testing.T) {
	out, err := run(t, "compile", "--compact", "skills=go", "employees_max=50")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bool":{
		"must":[{"multi_match":{"query":"go","type":"phrase","fields":["linked_skills","skills_text"],"slop":1}}],
		"filter":[{"range":{"linked_employee_count":{"lte":50}}}]
	}}`, out)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestCompile_NoArgsIsMatchAll(t *testing.T) {
	out, err := run(t, "compile")
	require.NoError(t, err)
	assert.JSONEq(t, `{"match_all":{}}`, out)
}

func TestCompile_IgnoresPaginationParameters(t *testing.T) {
	out, err := run(t, "compile", "limit=5", "sort_field=city")
	require.NoError(t, err)
	assert.JSONEq(t, `{"match_all":{}}`, out)
}

func TestCompile_UnknownParameter(t *testing.T) {
	_, err := run(t, "compile", "colour=red")
	require.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestCompile_MalformedArgument(t *testing.T) {
	_, err := run(t, "compile", "city")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=value")
}

func TestParsePairs(t *testing.T) {
	values, err := parsePairs([]string{"state_code=TX", "state_code=CA", "domain=a.com/x=y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"TX", "CA"}, values["state_code"])
	assert.Equal(t, "a.com/x=y", values.Get("domain"))

	_, err = parsePairs([]string{"=x"})
	require.Error(t, err)
}
