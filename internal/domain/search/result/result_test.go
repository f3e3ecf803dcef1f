package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Flatten(t *testing.T) {
	r := NewRecord("doc-1", map[string]any{"city": "Austin", "employees": 12.0})

	flat := r.Flatten()
	assert.Equal(t, "doc-1", flat["_id"])
	assert.Equal(t, "Austin", flat["city"])
	assert.Len(t, flat, 3)
	assert.Equal(t, "doc-1", r.ID())
}

func TestRecord_AttributeWinsOnCollision(t *testing.T) {
	r := NewRecord("engine-id", map[string]any{"_id": "source-id"})
	assert.Equal(t, "source-id", r.Flatten()["_id"])
}

func TestRecord_MarshalJSON(t *testing.T) {
	r := NewRecord("doc-1", map[string]any{"city": "Austin"})
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"doc-1","city":"Austin"}`, string(data))
}

func TestRecord_NilAttributes(t *testing.T) {
	data, err := json.Marshal(NewRecord("doc-1", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"doc-1"}`, string(data))
}
