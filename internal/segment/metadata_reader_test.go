package segment

import (
	"context"
	"testing"

	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	pferrors "github.com/iamNilotpal/predicatefilter/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMetadataSegment() *MetadataSegment {
	return NewMetadataSegment(
		map[uint32]metadata.Map{
			1: {"is_even": metadata.Bool(true), "count": metadata.Int(10)},
			2: {"is_even": metadata.Bool(false), "count": metadata.Int(11)},
			3: {"is_even": metadata.Bool(true), "count": metadata.Int(12)},
		},
		map[uint32]string{
			1: "a document about cats",
			2: "a document about dogs",
			3: "no pets mentioned here",
		},
	)
}

func TestFromMetadataSegmentUninitialized(t *testing.T) {
	_, err := FromMetadataSegment(NewUninitializedMetadataSegment())
	assert.ErrorIs(t, err, pferrors.ErrUninitializedSegment)

	_, err = FromMetadataSegment(nil)
	assert.ErrorIs(t, err, pferrors.ErrUninitializedSegment)
}

func TestMetadataReaderEqual(t *testing.T) {
	reader, err := FromMetadataSegment(buildMetadataSegment())
	require.NoError(t, err)

	bm, err := reader.Equal(context.Background(), "is_even", metadata.Bool(true))
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{1, 3}, bm.ToArray())

	bm, err = reader.Equal(context.Background(), "missing_key", metadata.Bool(true))
	require.NoError(t, err)
	assert.Empty(t, bm.ToArray())
}

func TestMetadataReaderRange(t *testing.T) {
	reader, err := FromMetadataSegment(buildMetadataSegment())
	require.NoError(t, err)

	bm, err := reader.Range(context.Background(), "count", metadata.Included(metadata.Int(11)), metadata.Unbounded())
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{2, 3}, bm.ToArray())
}

func TestMetadataReaderSearchDocuments(t *testing.T) {
	reader, err := FromMetadataSegment(buildMetadataSegment())
	require.NoError(t, err)

	assert.True(t, reader.HasFullTextIndex())

	bm, err := reader.SearchDocuments(context.Background(), "cats")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{1}, bm.ToArray())
}

func TestMetadataReaderNoFullTextIndex(t *testing.T) {
	segment := NewMetadataSegment(map[uint32]metadata.Map{1: {"k": metadata.Bool(true)}}, nil)
	reader, err := FromMetadataSegment(segment)
	require.NoError(t, err)

	assert.False(t, reader.HasFullTextIndex())

	bm, err := reader.SearchDocuments(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, bm.ToArray())

	_, ok, err := reader.MatchLiteralExpression(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
