// Package opensearch implements db.Engine on top of opensearch-go.
package opensearch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	osgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kailas-cloud/leadsearch/internal/db"
)

// Compile-time check: Store implements db.Engine.
var _ db.Engine = (*Store)(nil)

// Config holds connection parameters for an OpenSearch cluster.
type Config struct {
	Addresses          []string
	Username           string
	Password           string
	InsecureSkipVerify bool
}

// Store implements db.Engine via opensearch-go.
type Store struct {
	client *osgo.Client
}

// NewStore creates an OpenSearch store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}

	client, err := osgo.NewClient(osgo.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			//nolint:gosec // opt-in for self-signed development clusters
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := opensearchapi.PingRequest{}.Do(ctx, s.client)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: decodeError(res)}
	}
	return nil
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search engine: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// IndexExists reports whether an index or alias exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := opensearchapi.IndicesExistsRequest{Index: []string{name}}.Do(ctx, s.client)
	if err != nil {
		return false, &db.Error{Op: db.OpIndexExists, Err: err}
	}
	defer closeBody(res)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &db.Error{Op: db.OpIndexExists, Err: decodeError(res)}
	}
}

// GetMapping returns the raw mapping response for an index.
func (s *Store) GetMapping(ctx context.Context, index string) (json.RawMessage, error) {
	res, err := opensearchapi.IndicesGetMappingRequest{Index: []string{index}}.Do(ctx, s.client)
	if err != nil {
		return nil, &db.Error{Op: db.OpGetMapping, Err: err}
	}
	defer closeBody(res)

	if res.StatusCode == http.StatusNotFound {
		return nil, &db.Error{Op: db.OpGetMapping, Err: db.ErrIndexNotFound}
	}
	if res.IsError() {
		return nil, &db.Error{Op: db.OpGetMapping, Err: decodeError(res)}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &db.Error{Op: db.OpGetMapping, Err: err}
	}
	return data, nil
}

func closeBody(res *opensearchapi.Response) {
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
}

// decodeError converts an error response into *db.EngineError.
// The error member is an object on modern clusters and a string on some proxies.
func decodeError(res *opensearchapi.Response) error {
	ee := &db.EngineError{Status: res.StatusCode}
	if res.Body == nil {
		return ee
	}
	data, err := io.ReadAll(res.Body)
	if err != nil || len(data) == 0 {
		return ee
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Error) == 0 {
		return ee
	}

	var detail struct {
		Type      string     `json:"type"`
		Reason    string     `json:"reason"`
		RootCause []db.Cause `json:"root_cause"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		ee.Type = detail.Type
		ee.Reason = detail.Reason
		ee.RootCauses = detail.RootCause
		return ee
	}

	var reason string
	if err := json.Unmarshal(envelope.Error, &reason); err == nil {
		ee.Reason = reason
	}
	return ee
}
