package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddStartsAtOneAndIncrements(t *testing.T) {
	c := Add(nil, "f1")
	assert.Equal(t, 1, c["f1"])

	c = Add(c, "f1")
	c = Add(c, "f1")
	assert.Equal(t, 3, c["f1"])
}

func TestAddKeepsLinesIndependent(t *testing.T) {
	c := Add(nil, "f1")
	c = Add(c, "f1|Size=Large")

	assert.Equal(t, 1, c["f1"])
	assert.Equal(t, 1, c["f1|Size=Large"])
}

func TestRemoveDeletesEntryAtZero(t *testing.T) {
	c := Add(nil, "f1")
	c = Add(c, "f1")

	c = Remove(c, "f1")
	assert.Equal(t, 1, c["f1"])

	c = Remove(c, "f1")
	_, present := c["f1"]
	assert.False(t, present, "line must disappear at zero, not store 0")
}

func TestRemoveAbsentKeyIsNoOp(t *testing.T) {
	c := Remove(map[string]int{"f1": 2}, "missing")
	assert.Equal(t, map[string]int{"f1": 2}, c)

	assert.Empty(t, Remove(nil, "missing"))
}

func TestMergeSumsMatchingKeys(t *testing.T) {
	server := map[string]int{"f1": 2, "f2": 1}
	incoming := map[string]int{"f1": 3, "f3": 1}

	merged := Merge(server, incoming)
	assert.Equal(t, map[string]int{"f1": 5, "f2": 1, "f3": 1}, merged)
}

func TestMergeIgnoresNonPositiveQuantities(t *testing.T) {
	merged := Merge(nil, map[string]int{"f1": 0, "f2": -4, "f3": 2})
	assert.Equal(t, map[string]int{"f3": 2}, merged)
}

func TestSanitizeIncomingRewritesUnsafeKeys(t *testing.T) {
	clean := SanitizeIncoming(map[string]int{
		"f1.x":       1,
		"$where":     2,
		"f2|Size=L":  3,
		"f3":         0,
		"f4":         -1,
		"plain-key_": 5,
	})

	assert.Equal(t, map[string]int{
		"f1_x":       1,
		"_where":     2,
		"f2|Size=L":  3,
		"plain-key_": 5,
	}, clean)

	for key := range clean {
		assert.NotContains(t, key, ".")
		assert.NotContains(t, key, "$")
	}
}

func TestSanitizeIncomingSumsCollidingKeys(t *testing.T) {
	clean := SanitizeIncoming(map[string]int{
		"f1.x": 2,
		"f1_x": 3,
	})
	assert.Equal(t, map[string]int{"f1_x": 5}, clean)
}
