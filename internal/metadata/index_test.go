package metadata_test

import (
	"testing"

	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedValuesEqualAndRange(t *testing.T) {
	ov := metadata.NewOrderedValues(metadata.KindInt)
	ov.Insert(metadata.Int(1), 10)
	ov.Insert(metadata.Int(3), 30)
	ov.Insert(metadata.Int(3), 31)
	ov.Insert(metadata.Int(5), 50)

	assert.ElementsMatch(t, []uint32{30, 31}, ov.Equal(metadata.Int(3)).ToArray())

	assert.ElementsMatch(t, []uint32{30, 31, 50}, ov.Range(metadata.Included(metadata.Int(3)), metadata.Unbounded()).ToArray())
	assert.ElementsMatch(t, []uint32{50}, ov.Range(metadata.Excluded(metadata.Int(3)), metadata.Unbounded()).ToArray())
	assert.ElementsMatch(t, []uint32{10, 30, 31}, ov.Range(metadata.Unbounded(), metadata.Included(metadata.Int(3))).ToArray())
	assert.ElementsMatch(t, []uint32{10}, ov.Range(metadata.Unbounded(), metadata.Excluded(metadata.Int(3))).ToArray())
}

func TestOrderedValuesInsertPanicsOnKindMismatch(t *testing.T) {
	ov := metadata.NewOrderedValues(metadata.KindInt)
	assert.Panics(t, func() {
		ov.Insert(metadata.Str("nope"), 1)
	})
}

func TestByKeyIndexFixesKindOnFirstInsert(t *testing.T) {
	idx := metadata.NewByKeyIndex()
	idx.Insert("age", metadata.Int(30), 1)
	idx.Insert("age", metadata.Int(40), 2)

	ov := idx.Get("age")
	require.NotNil(t, ov)
	assert.Equal(t, metadata.KindInt, ov.Kind())
	assert.ElementsMatch(t, []uint32{1}, ov.Equal(metadata.Int(30)).ToArray())
}

func TestByKeyIndexGetMissingKeyIsNil(t *testing.T) {
	idx := metadata.NewByKeyIndex()
	assert.Nil(t, idx.Get("missing"))
}

func TestCompareOpBounds(t *testing.T) {
	v := metadata.Int(10)

	lower, upper := metadata.Equal.Bounds(v)
	assert.Equal(t, metadata.Included(v), lower)
	assert.Equal(t, metadata.Included(v), upper)

	lower, upper = metadata.GreaterThan.Bounds(v)
	assert.Equal(t, metadata.Excluded(v), lower)
	assert.Equal(t, metadata.Unbounded(), upper)

	lower, upper = metadata.LessThanOrEqual.Bounds(v)
	assert.Equal(t, metadata.Unbounded(), lower)
	assert.Equal(t, metadata.Included(v), upper)
}
