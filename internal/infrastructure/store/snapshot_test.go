package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotThreshold(t *testing.T) {
	assert.Equal(t, 10, SnapshotThreshold)
}

func TestSnapshot_StateRoundTrip(t *testing.T) {
	type cartState struct {
		ID       string `json:"id"`
		UserID   string `json:"user_id"`
		Subtotal int    `json:"subtotal"`
	}

	stateJSON, err := json.Marshal(cartState{
		ID:       "cart-user-1",
		UserID:   "user-1",
		Subtotal: 600,
	})
	require.NoError(t, err)

	original := Snapshot{
		AggregateID:   "cart-user-1",
		AggregateType: "Cart",
		Version:       10,
		State:         stateJSON,
		CreatedAt:     time.Now().Truncate(time.Second),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Snapshot
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.AggregateID, restored.AggregateID)
	assert.Equal(t, original.AggregateType, restored.AggregateType)
	assert.Equal(t, original.Version, restored.Version)

	var state cartState
	require.NoError(t, json.Unmarshal(restored.State, &state))
	assert.Equal(t, "user-1", state.UserID)
	assert.Equal(t, 600, state.Subtotal)
}
