package predicate

import (
	"context"
	"fmt"
	"testing"

	"github.com/iamNilotpal/predicatefilter/internal/logmaterializer"
	"github.com/iamNilotpal/predicatefilter/internal/logview"
	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	"github.com/iamNilotpal/predicatefilter/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// buildTestProvider seeds a small log-backed provider with offsets 1..10,
// is_even metadata and a document containing "<cat>" for multiples of 3.
func buildTestProvider(t *testing.T) provider.MetadataProvider {
	t.Helper()
	var ops []logmaterializer.RawOperation
	for i := uint32(1); i <= 10; i++ {
		var doc *string
		if i%3 == 0 {
			doc = strPtr("<cat>")
		}
		ops = append(ops, logmaterializer.RawOperation{
			Offset:    i,
			Operation: logmaterializer.AddNew,
			UserID:    fmt.Sprintf("u%d", i),
			Metadata: metadata.Map{
				"is_even": metadata.Bool(i%2 == 0),
				"id":      metadata.Int(int64(i)),
			},
			Document: doc,
		})
	}
	result, err := logmaterializer.Materialize(context.Background(), nil, ops)
	require.NoError(t, err)
	return provider.NewLog(logview.Build(result.Entries()))
}

func TestEvaluateNilIsUniverse(t *testing.T) {
	bm, err := Evaluate(context.Background(), buildTestProvider(t), nil)
	require.NoError(t, err)
	assert.True(t, bm.IsFull())
}

func TestEvaluatePrimitiveEqual(t *testing.T) {
	prov := buildTestProvider(t)
	where := Metadata("is_even", Primitive(OpEqual, metadata.Bool(true)))

	bm, err := Evaluate(context.Background(), prov, where)
	require.NoError(t, err)
	assert.False(t, bm.IsExcluded())
	assert.ElementsMatch(t, []uint32{2, 4, 6, 8, 10}, bm.Inner().ToArray())
}

func TestEvaluatePrimitiveNotEqualIncludesAbsentKey(t *testing.T) {
	prov := buildTestProvider(t)
	where := Metadata("missing_key", Primitive(OpNotEqual, metadata.Bool(true)))

	bm, err := Evaluate(context.Background(), prov, where)
	require.NoError(t, err)
	assert.True(t, bm.IsFull(), "≠ against an absent key must select everything, including records without the key")
}

func TestEvaluateSetIn(t *testing.T) {
	prov := buildTestProvider(t)
	where := Metadata("id", Set(SetIn, []metadata.Value{metadata.Int(1), metadata.Int(2), metadata.Int(3)}))

	bm, err := Evaluate(context.Background(), prov, where)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{1, 2, 3}, bm.Inner().ToArray())
}

func TestEvaluateSetNotInEmptyIsUniverse(t *testing.T) {
	prov := buildTestProvider(t)
	where := Metadata("id", Set(SetNotIn, nil))

	bm, err := Evaluate(context.Background(), prov, where)
	require.NoError(t, err)
	assert.True(t, bm.IsFull())
}

func TestEvaluateDocumentContains(t *testing.T) {
	prov := buildTestProvider(t)
	where := Document(DocContains, "<cat>")

	bm, err := Evaluate(context.Background(), prov, where)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{3, 6, 9}, bm.Inner().ToArray())
}

func TestEvaluateCompositeAndOr(t *testing.T) {
	prov := buildTestProvider(t)

	and := Composite(BoolAnd, []*Where{
		Metadata("is_even", Primitive(OpEqual, metadata.Bool(true))),
		Document(DocContains, "<cat>"),
	})
	bm, err := Evaluate(context.Background(), prov, and)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{6}, bm.Inner().ToArray())

	or := Composite(BoolOr, []*Where{
		Metadata("id", Primitive(OpEqual, metadata.Int(1))),
		Metadata("id", Primitive(OpEqual, metadata.Int(2))),
	})
	bm, err = Evaluate(context.Background(), prov, or)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{1, 2}, bm.Inner().ToArray())
}

func TestEvaluateCompositeEmptyAndIsUniverse(t *testing.T) {
	prov := buildTestProvider(t)
	bm, err := Evaluate(context.Background(), prov, Composite(BoolAnd, nil))
	require.NoError(t, err)
	assert.True(t, bm.IsFull())
}

func TestEvaluateCompositeEmptyOrIsEmpty(t *testing.T) {
	prov := buildTestProvider(t)
	bm, err := Evaluate(context.Background(), prov, Composite(BoolOr, nil))
	require.NoError(t, err)
	assert.True(t, bm.IsEmpty())
}
