package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.mongodb.org/mongo-driver/bson"
)

func TestReleaseFilterGuardsFloor(t *testing.T) {
	filter := releaseFilter("SAVE20")

	assert.Equal(t, "SAVE20", filter["code"])
	// without this guard a double release could drive usedCount negative
	assert.Equal(t, bson.M{"$gt": 0}, filter["usedCount"])
}

func TestReleaseUpdateDecrementsOneUse(t *testing.T) {
	assert.Equal(t, bson.M{"$inc": bson.M{"usedCount": -1}}, releaseUpdate())
}
