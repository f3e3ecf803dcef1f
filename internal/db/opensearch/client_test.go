package opensearch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/leadsearch/internal/db"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/query"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/sort"
)

// fakeCluster records the last request and answers with a canned response per route.
type fakeCluster struct {
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
	lastPath string
	lastBody []byte
}

func newFakeCluster(t *testing.T) (*fakeCluster, *Store) {
	t.Helper()
	fc := &fakeCluster{routes: map[string]func(w http.ResponseWriter, r *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fc.lastPath = r.URL.Path
		fc.lastBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		for prefix, h := range fc.routes {
			if strings.HasPrefix(r.Method+" "+r.URL.Path, prefix) {
				h(w, r)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	store, err := NewStore(Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return fc, store
}

func respond(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNewStore_RequiresAddresses(t *testing.T) {
	_, err := NewStore(Config{})
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["HEAD /"] = respond(http.StatusOK, "")
	require.NoError(t, store.Ping(context.Background()))
}

func TestIndexExists(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["HEAD /merged_leads"] = respond(http.StatusOK, "")
	fc.routes["HEAD /linked_leads"] = respond(http.StatusNotFound, "")
	fc.routes["HEAD /broken"] = respond(http.StatusInternalServerError, "")

	ok, err := store.IndexExists(context.Background(), "merged_leads")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.IndexExists(context.Background(), "linked_leads")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.IndexExists(context.Background(), "broken")
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpIndexExists, dbErr.Op)
}

func TestGetMapping(t *testing.T) {
	fc, store := newFakeCluster(t)
	mapping := `{"leads":{"mappings":{"properties":{"city":{"type":"text"}}}}}`
	fc.routes["GET /leads/_mapping"] = respond(http.StatusOK, mapping)

	raw, err := store.GetMapping(context.Background(), "leads")
	require.NoError(t, err)
	assert.JSONEq(t, mapping, string(raw))

	_, err = store.GetMapping(context.Background(), "missing")
	assert.ErrorIs(t, err, db.ErrIndexNotFound)
}

func TestSearch_DecodesHitsAndTotal(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["POST /leads/_search"] = respond(http.StatusOK, `{
		"hits":{"total":{"value":10000,"relation":"gte"},
		"hits":[{"_id":"a","_source":{"city":"Austin"}},{"_id":"b","_source":{}}]}
	}`)

	intrinsic := sort.Intrinsic()
	res, err := store.Search(context.Background(), &db.SearchRequest{
		Index:          "leads",
		Query:          query.MatchAll{},
		Sort:           &intrinsic,
		From:           20,
		Size:           10,
		TrackTotalHits: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), res.Total.Value)
	assert.True(t, res.Total.IsLowerBound())
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "a", res.Hits[0].ID)
	assert.JSONEq(t, `{"city":"Austin"}`, string(res.Hits[0].Source))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(fc.lastBody, &sent))
	assert.Equal(t, float64(20), sent["from"])
	assert.Equal(t, float64(10), sent["size"])
	assert.Equal(t, true, sent["track_total_hits"])
	assert.Equal(t, []any{"_doc"}, sent["sort"])
}

func TestSearch_EngineError(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["POST /leads/_search"] = respond(http.StatusBadRequest, `{
		"error":{"type":"search_phase_execution_exception","reason":"all shards failed",
		"root_cause":[{"type":"query_shard_exception","reason":"No mapping found for [created_at]","index":"leads"}]},
		"status":400
	}`)

	_, err := store.Search(context.Background(), &db.SearchRequest{Index: "leads", Query: query.MatchAll{}, Size: 1})
	require.Error(t, err)

	ee, ok := db.AsEngineError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ee.Status)
	assert.True(t, ee.Structural())
	require.Len(t, ee.RootCauses, 1)
	assert.Equal(t, "leads", ee.RootCauses[0].Index)

	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpSearch, dbErr.Op)
}

func TestSearch_StringErrorBody(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["POST /leads/_search"] = respond(http.StatusForbidden, `{"error":"forbidden by proxy"}`)

	_, err := store.Search(context.Background(), &db.SearchRequest{Index: "leads", Query: query.MatchAll{}, Size: 1})
	ee, ok := db.AsEngineError(err)
	require.True(t, ok)
	assert.Equal(t, "forbidden by proxy", ee.Reason)
	assert.False(t, ee.Structural())
}

func TestSearch_Validation(t *testing.T) {
	_, store := newFakeCluster(t)
	_, err := store.Search(context.Background(), &db.SearchRequest{Query: query.MatchAll{}})
	require.Error(t, err)
	_, err = store.Search(context.Background(), &db.SearchRequest{Index: "leads"})
	require.Error(t, err)
}

func TestCount(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["POST /leads/_count"] = respond(http.StatusOK, `{"count":12345}`)

	n, err := store.Count(context.Background(), &db.CountRequest{Index: "leads", Query: query.MatchAll{}})
	require.NoError(t, err)
	assert.Equal(t, int64(12345), n)
	assert.JSONEq(t, `{"query":{"match_all":{}}}`, string(fc.lastBody))
}

func TestCount_Failure(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["POST /leads/_count"] = respond(http.StatusInternalServerError, `{"error":{"type":"exception","reason":"boom"}}`)

	_, err := store.Count(context.Background(), &db.CountRequest{Index: "leads", Query: query.MatchAll{}})
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpCount, dbErr.Op)
}

func TestScrollLifecycle(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["POST /leads/_search"] = respond(http.StatusOK,
		`{"_scroll_id":"s1","hits":{"total":2,"hits":[{"_id":"a","_source":{}}]}}`)
	page := respond(http.StatusOK, `{"_scroll_id":"s1","hits":{"total":2,"hits":[{"_id":"b","_source":{}}]}}`)
	fc.routes["POST /_search/scroll"] = page
	fc.routes["GET /_search/scroll"] = page
	fc.routes["DELETE /_search/scroll"] = respond(http.StatusOK, `{"succeeded":true,"num_freed":1}`)

	intrinsic := sort.Intrinsic()
	first, err := store.Search(context.Background(), &db.SearchRequest{
		Index:  "leads",
		Query:  query.MatchAll{},
		Sort:   &intrinsic,
		Size:   1,
		Scroll: time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", first.ScrollID)
	assert.Equal(t, int64(2), first.Total.Value)
	assert.False(t, first.Total.IsLowerBound())

	var sent map[string]any
	require.NoError(t, json.Unmarshal(fc.lastBody, &sent))
	assert.NotContains(t, sent, "from")

	next, err := store.Scroll(context.Background(), first.ScrollID, time.Minute)
	require.NoError(t, err)
	require.Len(t, next.Hits, 1)
	assert.Equal(t, "b", next.Hits[0].ID)

	require.NoError(t, store.ClearScroll(context.Background(), first.ScrollID))
	require.NoError(t, store.ClearScroll(context.Background(), ""))
}

func TestScroll_RequiresID(t *testing.T) {
	_, store := newFakeCluster(t)
	_, err := store.Scroll(context.Background(), "", time.Minute)
	require.Error(t, err)
}

func TestWaitForReady_Timeout(t *testing.T) {
	fc, store := newFakeCluster(t)
	fc.routes["HEAD /"] = respond(http.StatusInternalServerError, "")

	err := store.WaitForReady(context.Background(), 300*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
