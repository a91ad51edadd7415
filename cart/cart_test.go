package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecrementUpdateRemovesFieldAtOne(t *testing.T) {
	pipeline := decrementUpdate("cart.f1")
	require.Len(t, pipeline, 1)

	stage := pipeline[0]
	require.Equal(t, "$set", stage[0].Key)

	set, ok := stage[0].Value.(bson.D)
	require.True(t, ok)
	require.Len(t, set, 1)
	assert.Equal(t, "cart.f1", set[0].Key)

	cond, ok := set[0].Value.(bson.D)
	require.True(t, ok)
	require.Equal(t, "$cond", cond[0].Key)

	branches, ok := cond[0].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, branches, 3)

	// quantity must be strictly greater than one to survive a decrement
	gt, ok := branches[0].(bson.D)
	require.True(t, ok)
	assert.Equal(t, "$gt", gt[0].Key)
	assert.Equal(t, bson.A{"$cart.f1", 1}, gt[0].Value)

	sub, ok := branches[1].(bson.D)
	require.True(t, ok)
	assert.Equal(t, "$subtract", sub[0].Key)

	// the else branch deletes the field instead of writing a zero
	assert.Equal(t, "$$REMOVE", branches[2])
}
