package schema

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/leadsearch/internal/domain"
)

type stubReader struct {
	raw   json.RawMessage
	err   error
	index string
}

func (s *stubReader) GetMapping(_ context.Context, index string) (json.RawMessage, error) {
	s.index = index
	return s.raw, s.err
}

func TestResolver_Fields(t *testing.T) {
	reader := &stubReader{raw: []byte(`{"leads":{"mappings":{"properties":{"created_at":{"type":"date"},"linked_id":{"type":"keyword"}}}}}`)}
	fields, err := NewResolver(reader).Fields(context.Background(), "leads")
	require.NoError(t, err)
	assert.Equal(t, "leads", reader.index)

	date, ok := fields.DateSortField()
	assert.True(t, ok)
	assert.Equal(t, "created_at", date)
	assert.Equal(t, IDSort{Field: "linked_id", Sortable: true}, fields.IDSort())
}

func TestResolver_FetchFailure(t *testing.T) {
	cause := errors.New("connection reset")
	_, err := NewResolver(&stubReader{err: cause}).Fields(context.Background(), "leads")
	require.ErrorIs(t, err, domain.ErrSchemaDiscovery)
	assert.ErrorIs(t, err, cause)
}

func TestResolver_DecodeFailure(t *testing.T) {
	_, err := NewResolver(&stubReader{raw: []byte(`{"leads":{}}`)}).Fields(context.Background(), "leads")
	require.ErrorIs(t, err, domain.ErrSchemaDiscovery)
	assert.ErrorIs(t, err, errNoProperties)
}
