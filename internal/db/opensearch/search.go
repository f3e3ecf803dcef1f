package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kailas-cloud/leadsearch/internal/db"
)

type searchBody struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Total db.Total `json:"total"`
		Hits  []db.Hit `json:"hits"`
	} `json:"hits"`
}

// Search runs a search, optionally opening a scroll context.
func (s *Store) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error) {
	if req.Index == "" {
		return nil, fmt.Errorf("index is required")
	}
	if req.Query == nil {
		return nil, fmt.Errorf("query is required")
	}

	body, err := req.Body()
	if err != nil {
		return nil, err
	}

	res, err := opensearchapi.SearchRequest{
		Index:  []string{req.Index},
		Body:   bytes.NewReader(body),
		Scroll: req.Scroll,
	}.Do(ctx, s.client)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, &db.Error{Op: db.OpSearch, Err: decodeError(res)}
	}
	return parseSearchBody(res, db.OpSearch)
}

// Count returns the exact number of documents matching the query.
func (s *Store) Count(ctx context.Context, req *db.CountRequest) (int64, error) {
	if req.Index == "" {
		return 0, fmt.Errorf("index is required")
	}
	if req.Query == nil {
		return 0, fmt.Errorf("query is required")
	}

	body, err := req.Body()
	if err != nil {
		return 0, err
	}

	res, err := opensearchapi.CountRequest{
		Index: []string{req.Index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return 0, &db.Error{Op: db.OpCount, Err: decodeError(res)}
	}

	var out struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Count, nil
}

// Scroll fetches the next page of an open scroll context.
func (s *Store) Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*db.SearchResponse, error) {
	if scrollID == "" {
		return nil, fmt.Errorf("scroll id is required")
	}

	res, err := opensearchapi.ScrollRequest{
		ScrollID: scrollID,
		Scroll:   keepAlive,
	}.Do(ctx, s.client)
	if err != nil {
		return nil, &db.Error{Op: db.OpScroll, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, &db.Error{Op: db.OpScroll, Err: decodeError(res)}
	}
	return parseSearchBody(res, db.OpScroll)
}

// ClearScroll releases a scroll context.
func (s *Store) ClearScroll(ctx context.Context, scrollID string) error {
	if scrollID == "" {
		return nil
	}

	res, err := opensearchapi.ClearScrollRequest{ScrollID: []string{scrollID}}.Do(ctx, s.client)
	if err != nil {
		return &db.Error{Op: db.OpClearScroll, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return &db.Error{Op: db.OpClearScroll, Err: decodeError(res)}
	}
	return nil
}

func parseSearchBody(res *opensearchapi.Response, op string) (*db.SearchResponse, error) {
	var body searchBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, &db.Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &db.SearchResponse{
		ScrollID: body.ScrollID,
		Total:    body.Hits.Total,
		Hits:     body.Hits.Hits,
	}, nil
}
