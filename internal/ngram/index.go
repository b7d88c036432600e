// Package ngram implements a full-text index over fixed-width character
// shingles (trigrams), the same technique PostgreSQL's pg_trgm and
// Google Code Search use to turn substring and regex search into roaring
// bitmap intersections instead of a linear document scan: each trigram in
// the corpus maps to a posting list of the documents containing it, so a
// multi-trigram query resolves by ANDing a handful of small bitmaps together
// rather than scanning every document's text.
package ngram

import (
	"context"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/iamNilotpal/predicatefilter/internal/regexmatch"
)

// shingleSize is the fixed n-gram width. Trigrams are the conventional
// choice for code/text full-text indexes (the same width used by
// PostgreSQL's pg_trgm and the Google Code Search trigram index this
// design descends from).
const shingleSize = 3

// Index is a trigram posting-list index over a fixed corpus of documents,
// the reference "full-text n-gram index" collaborator of spec §6.
type Index struct {
	documents map[uint32]string
	postings  map[string]*roaring.Bitmap
}

// Build constructs an Index over documents, keyed by offset id. A nil or
// empty documents map yields a valid, empty index, which
// segment.MetadataReader.HasFullTextIndex treats the same as an absent one.
func Build(documents map[uint32]string) *Index {
	idx := &Index{
		documents: make(map[uint32]string, len(documents)),
		postings:  make(map[string]*roaring.Bitmap),
	}
	for offset, doc := range documents {
		idx.documents[offset] = doc
		for _, gram := range shingles(doc) {
			bm, ok := idx.postings[gram]
			if !ok {
				bm = roaring.New()
				idx.postings[gram] = bm
			}
			bm.Add(offset)
		}
	}
	return idx
}

// shingles returns every distinct trigram in s. Documents shorter than the
// shingle width produce no postings and can only be found by a full
// verification scan, which Search and MatchLiteralExpression fall back to.
func shingles(s string) []string {
	runes := []rune(s)
	if len(runes) < shingleSize {
		return nil
	}
	seen := make(map[string]struct{}, len(runes))
	out := make([]string, 0, len(runes))
	for i := 0; i+shingleSize <= len(runes); i++ {
		gram := string(runes[i : i+shingleSize])
		if _, ok := seen[gram]; !ok {
			seen[gram] = struct{}{}
			out = append(out, gram)
		}
	}
	return out
}

// candidatesForLiteral returns offsets whose document contains every
// trigram of literal, or nil with ok=false if literal is too short to
// shingle (meaning every document is a candidate).
func (idx *Index) candidatesForLiteral(literal string) (*roaring.Bitmap, bool) {
	grams := shingles(literal)
	if len(grams) == 0 {
		return nil, false
	}

	var result *roaring.Bitmap
	for _, gram := range grams {
		bm, ok := idx.postings[gram]
		if !ok {
			return roaring.New(), true // no document has this trigram
		}
		if result == nil {
			result = bm.Clone()
		} else {
			result.And(bm)
		}
	}
	return result, true
}

// Search returns the exact set of offsets whose document contains query as
// a substring (spec §4.3, MetadataProvider.contains segment variant).
// Trigram candidates narrow the search; every candidate (or every document,
// if query is too short to shingle) is then verified against the stored
// text so the result is exact, not approximate.
func (idx *Index) Search(_ context.Context, query string) (*roaring.Bitmap, error) {
	candidates, ok := idx.candidatesForLiteral(query)
	result := roaring.New()

	verify := func(offset uint32) {
		if strings.Contains(idx.documents[offset], query) {
			result.Add(offset)
		}
	}

	if !ok {
		for offset := range idx.documents {
			verify(offset)
		}
		return result, nil
	}

	it := candidates.Iterator()
	for it.HasNext() {
		verify(it.Next())
	}
	return result, nil
}

// MatchLiteralExpression returns the set of offsets that *might* match the
// literal/n-gram expression extracted from a regex's syntax tree, or ok=false
// if expr is nil (spec's "no filter possible", treated by the caller as "all
// documents"). A bare single literal (the case CanMatchExactly reports true)
// is resolved through ExactMatchLiteral, so its result is the exact, verified
// match set. For an And/Or composition the result is only a candidate set —
// it is not verified against the stored text, matching spec §4.3's
// description of this as an approximate pre-filter ahead of a verification
// pass.
func (idx *Index) MatchLiteralExpression(ctx context.Context, expr *regexmatch.LiteralExpr) (*roaring.Bitmap, bool, error) {
	if expr == nil {
		return nil, false, nil
	}
	if idx.CanMatchExactly(expr) {
		bm, err := idx.ExactMatchLiteral(ctx, expr.Literal)
		if err != nil {
			return nil, false, err
		}
		return bm, true, nil
	}
	bm, ok := idx.matchExpr(expr)
	if !ok {
		return nil, false, nil
	}
	return bm, true, nil
}

func (idx *Index) matchExpr(expr *regexmatch.LiteralExpr) (*roaring.Bitmap, bool) {
	switch {
	case expr.IsLiteral():
		candidates, ok := idx.candidatesForLiteral(expr.Literal)
		if !ok {
			return nil, false
		}
		return candidates, true
	case len(expr.And) > 0:
		var result *roaring.Bitmap
		for _, sub := range expr.And {
			bm, ok := idx.matchExpr(sub)
			if !ok {
				continue // an unconstrained conjunct doesn't narrow the set
			}
			if result == nil {
				result = bm.Clone()
			} else {
				result.And(bm)
			}
		}
		if result == nil {
			return nil, false
		}
		return result, true
	case len(expr.Or) > 0:
		result := roaring.New()
		for _, sub := range expr.Or {
			bm, ok := idx.matchExpr(sub)
			if !ok {
				return nil, false // any unconstrained branch means "could match anything"
			}
			result.Or(bm)
		}
		return result, true
	default:
		return nil, false
	}
}

// CanMatchExactly reports whether the candidate set MatchLiteralExpression
// would return for expr is already the exact match set, with no further
// verification needed. MatchLiteralExpression resolves a single literal run
// through ExactMatchLiteral below, the same trigram-candidates-then-verify
// path Search uses, so it is exact; a composition of multiple literals
// (And/Or) is only ever a candidate narrowing — trigram membership across
// several required substrings doesn't guarantee they appear in the
// relative order or adjacency the original pattern demands — so it is
// never reported exact.
func (idx *Index) CanMatchExactly(expr *regexmatch.LiteralExpr) bool {
	return expr.IsLiteral()
}

// ExactMatchLiteral is the exact counterpart used when CanMatchExactly
// reports true: it verifies trigram candidates against stored text exactly
// like Search, so the HIR-exactness optimization of spec §4.3 step 2 never
// returns false positives.
func (idx *Index) ExactMatchLiteral(ctx context.Context, literal string) (*roaring.Bitmap, error) {
	return idx.Search(ctx, literal)
}

// Count reports the number of indexed documents, occasionally useful for
// diagnostics; not part of the consumed interface in spec §6 but kept
// alongside the rest of the index's read surface.
func (idx *Index) Count() int { return len(idx.documents) }
