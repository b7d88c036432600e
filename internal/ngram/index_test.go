package ngram

import (
	"context"
	"testing"

	"github.com/iamNilotpal/predicatefilter/internal/regexmatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *Index {
	return Build(map[uint32]string{
		1: "the quick brown fox",
		2: "the lazy dog",
		3: "foxes are quick",
		4: "hi",
	})
}

func TestSearchExactSubstring(t *testing.T) {
	idx := fixture()

	bm, err := idx.Search(context.Background(), "quick")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{1, 3}, bm.ToArray())

	bm, err = idx.Search(context.Background(), "fox")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{1, 3}, bm.ToArray())

	bm, err = idx.Search(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, bm.ToArray())
}

func TestSearchShortQueryFallsBackToScan(t *testing.T) {
	idx := fixture()

	// "hi" is shorter than the trigram width, so it has no postings and
	// must be resolved by scanning every stored document.
	bm, err := idx.Search(context.Background(), "hi")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{4}, bm.ToArray())
}

func TestMatchLiteralExpressionNilMeansNoFilter(t *testing.T) {
	idx := fixture()

	bm, ok, err := idx.MatchLiteralExpression(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, bm)
}

func TestMatchLiteralExpressionSingleLiteral(t *testing.T) {
	idx := fixture()

	pattern, err := regexmatch.Parse("quick")
	require.NoError(t, err)

	bm, ok, err := idx.MatchLiteralExpression(context.Background(), pattern.LiteralExpr())
	require.NoError(t, err)
	require.True(t, ok)
	assert.ElementsMatch(t, []uint32{1, 3}, bm.ToArray())
}

func TestMatchLiteralExpressionConjunction(t *testing.T) {
	idx := fixture()

	pattern, err := regexmatch.Parse("quick.*fox")
	require.NoError(t, err)
	require.NotNil(t, pattern.LiteralExpr())

	bm, ok, err := idx.MatchLiteralExpression(context.Background(), pattern.LiteralExpr())
	require.NoError(t, err)
	require.True(t, ok)
	// Candidate generation only requires both literals to appear somewhere in
	// the document, not in order — record 3 ("foxes are quick") is a
	// (harmless, over-inclusive) candidate even though "fox" precedes
	// "quick" there rather than following it.
	assert.ElementsMatch(t, []uint32{1, 3}, bm.ToArray())
}

func TestCanMatchExactly(t *testing.T) {
	idx := fixture()

	literalPattern, err := regexmatch.Parse("quick")
	require.NoError(t, err)
	assert.True(t, idx.CanMatchExactly(literalPattern.LiteralExpr()))

	conjunctionPattern, err := regexmatch.Parse("quick.*fox")
	require.NoError(t, err)
	assert.False(t, idx.CanMatchExactly(conjunctionPattern.LiteralExpr()))
}

func TestExactMatchLiteralAgreesWithSearch(t *testing.T) {
	idx := fixture()

	want, err := idx.Search(context.Background(), "quick")
	require.NoError(t, err)

	got, err := idx.ExactMatchLiteral(context.Background(), "quick")
	require.NoError(t, err)

	assert.True(t, want.Equals(got))
}

func TestBuildEmptyCorpus(t *testing.T) {
	idx := Build(nil)
	assert.Equal(t, 0, idx.Count())

	bm, err := idx.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, bm.ToArray())
}
