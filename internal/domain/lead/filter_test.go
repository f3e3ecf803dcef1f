package lead

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/leadsearch/internal/domain"
)

func TestParseQuery_Filters(t *testing.T) {
	q, err := ParseQuery(url.Values{
		"city":       {"  Austin "},
		"state_code": {"TX,CA"},
		"exact":      {"1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Austin", q.Filters.City)
	assert.Equal(t, "TX,CA", q.Filters.StateCode)
	assert.True(t, q.Filters.IsExact())
	assert.Equal(t, 100, q.Page.Limit())
	assert.Equal(t, 0, q.Page.Offset())
	assert.Empty(t, q.Sort.Field)
}

func TestParseQuery_ControlParams(t *testing.T) {
	q, err := ParseQuery(url.Values{
		"limit":      {"9999"},
		"offset":     {"-5"},
		"sort_field": {" created_at "},
		"sort_dir":   {"asc"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1000, q.Page.Limit())
	assert.Equal(t, 0, q.Page.Offset())
	assert.Equal(t, "created_at", q.Sort.Field)
	assert.Equal(t, "asc", q.Sort.Direction)
	assert.Equal(t, FilterSet{}, q.Filters)
}

func TestParseQuery_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseQuery(url.Values{"city": {"Austin"}, "favourite_colour": {"blue"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestParseQuery_BlankEqualsAbsent(t *testing.T) {
	q, err := ParseQuery(url.Values{"city": {"   "}, "skills": {""}})
	require.NoError(t, err)
	assert.Equal(t, FilterSet{}, q.Filters)
}

func TestFilterSet_IsExact(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" True ", true},
		{"", false},
		{"0", false},
		{"yes", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterSet{Exact: tt.raw}.IsExact())
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"TX", "CA"}, SplitList("TX,CA"))
	assert.Equal(t, []string{"python", "sql", "go"}, SplitList(" python ; sql,, go ;"))
	assert.Empty(t, SplitList(" , ; "))
	assert.Empty(t, SplitList(""))
}
