package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/leadsearch/internal/domain/search/query"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/sort"
)

func TestTotal_UnmarshalBareNumber(t *testing.T) {
	var tot Total
	require.NoError(t, json.Unmarshal([]byte(`42`), &tot))
	assert.Equal(t, int64(42), tot.Value)
	assert.False(t, tot.IsLowerBound())
}

func TestTotal_UnmarshalObject(t *testing.T) {
	var tot Total
	require.NoError(t, json.Unmarshal([]byte(`{"value":10000,"relation":"gte"}`), &tot))
	assert.Equal(t, int64(10000), tot.Value)
	assert.True(t, tot.IsLowerBound())
}

func TestTotal_UnmarshalGarbage(t *testing.T) {
	var tot Total
	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &tot))
}

func TestSearchRequest_Body(t *testing.T) {
	spec := sort.By(sort.Field{Name: "created_at", Direction: sort.Desc, MissingLast: true})
	req := &SearchRequest{
		Index:          "leads",
		Query:          query.MatchAll{},
		Sort:           &spec,
		From:           20,
		Size:           10,
		TrackTotalHits: true,
	}
	body, err := req.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"query":{"match_all":{}},
		"from":20,"size":10,
		"sort":[{"created_at":{"order":"desc","missing":"_last"}}],
		"track_total_hits":true
	}`, string(body))
}

func TestSearchRequest_BodyWithoutSortOrTracking(t *testing.T) {
	req := &SearchRequest{Index: "leads", Query: query.MatchAll{}, Size: 5}
	body, err := req.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"match_all":{}},"from":0,"size":5}`, string(body))
}

func TestSearchRequest_ScrollOmitsFrom(t *testing.T) {
	spec := sort.Intrinsic()
	req := &SearchRequest{Query: query.MatchAll{}, Sort: &spec, Size: 500, Scroll: time.Minute}
	body, err := req.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"match_all":{}},"size":500,"sort":["_doc"]}`, string(body))
}

func TestCountRequest_Body(t *testing.T) {
	req := &CountRequest{Index: "leads", Query: query.Term{Field: "state", Value: "TX"}}
	body, err := req.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"term":{"state":"TX"}}}`, string(body))
}
