package segment

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	"github.com/iamNilotpal/predicatefilter/internal/ngram"
	"github.com/iamNilotpal/predicatefilter/internal/regexmatch"
	pferrors "github.com/iamNilotpal/predicatefilter/pkg/errors"
)

// MetadataSegment is the committed metadata segment: a by-key ordered index
// over every typed metadata value (spec §6's typed column indexes,
// structurally identical to LogView.by_key) plus an optional full-text
// index over document bodies. Building it separately from Store mirrors the
// teacher's segment layout, where record and metadata segments are distinct,
// independently-opened blockfiles.
type MetadataSegment struct {
	index       *metadata.ByKeyIndex
	fullText    *ngram.Index
	initialized bool
}

// NewMetadataSegment builds a committed metadata segment from per-offset
// metadata maps and document bodies. documents may be a strict subset of
// metadataByOffset's keys (not every record need carry a document).
func NewMetadataSegment(metadataByOffset map[uint32]metadata.Map, documents map[uint32]string) *MetadataSegment {
	idx := metadata.NewByKeyIndex()
	for offset, m := range metadataByOffset {
		for key, value := range m {
			idx.Insert(key, value, offset)
		}
	}
	return &MetadataSegment{
		index:       idx,
		fullText:    ngram.Build(documents),
		initialized: true,
	}
}

// NewUninitializedMetadataSegment mirrors NewUninitializedStore for the
// metadata side: a collection whose metadata segment has never been written.
func NewUninitializedMetadataSegment() *MetadataSegment {
	return &MetadataSegment{}
}

// MetadataReader is the concrete MetadataSegmentReader collaborator of spec
// §6, wrapping a MetadataSegment's typed column indexes and full-text index
// behind the read surface MetadataProvider.CompactData needs.
type MetadataReader struct {
	segment *MetadataSegment
}

// FromMetadataSegment opens a MetadataReader over segment, or returns
// pferrors.ErrUninitializedSegment if segment was never populated.
func FromMetadataSegment(segment *MetadataSegment) (*MetadataReader, error) {
	if segment == nil || !segment.initialized {
		return nil, pferrors.ErrUninitializedSegment
	}
	return &MetadataReader{segment: segment}, nil
}

// Range returns the bitmap of offsets whose value for key falls within
// [lower, upper], or an empty bitmap if key was never indexed. This backs
// every comparison operator of spec §4.3's compare operation (Equal is a
// Range call with both bounds set to the same inclusive value).
func (r *MetadataReader) Range(_ context.Context, key string, lower, upper metadata.Bound) (*roaring.Bitmap, error) {
	ov := r.segment.index.Get(key)
	if ov == nil {
		return roaring.New(), nil
	}
	return ov.Range(lower, upper), nil
}

// Equal returns the bitmap of offsets whose value for key exactly equals
// value.
func (r *MetadataReader) Equal(_ context.Context, key string, value metadata.Value) (*roaring.Bitmap, error) {
	ov := r.segment.index.Get(key)
	if ov == nil {
		return roaring.New(), nil
	}
	return ov.Equal(value), nil
}

// HasFullTextIndex reports whether this metadata segment carries a
// full-text index over document bodies. Spec §4.3: "delegates to the
// full-text n-gram index if present; else empty" — callers branch on this
// before attempting a contains/regex evaluation.
func (r *MetadataReader) HasFullTextIndex() bool {
	return r.segment.fullText != nil && r.segment.fullText.Count() > 0
}

// SearchDocuments returns the exact set of offsets whose document contains
// substr, delegating to the full-text index (spec §4.3 contains operator).
func (r *MetadataReader) SearchDocuments(ctx context.Context, substr string) (*roaring.Bitmap, error) {
	if r.segment.fullText == nil {
		return roaring.New(), nil
	}
	return r.segment.fullText.Search(ctx, substr)
}

// MatchLiteralExpression delegates literal/n-gram candidate generation to
// the full-text index for the regex evaluation path of spec §4.3.
func (r *MetadataReader) MatchLiteralExpression(ctx context.Context, expr *regexmatch.LiteralExpr) (*roaring.Bitmap, bool, error) {
	if r.segment.fullText == nil {
		return nil, false, nil
	}
	return r.segment.fullText.MatchLiteralExpression(ctx, expr)
}

// CanMatchExactly reports whether the full-text index's candidate set for
// expr is already exact, the second half of spec §4.3's regex exactness
// test.
func (r *MetadataReader) CanMatchExactly(expr *regexmatch.LiteralExpr) bool {
	return r.segment.fullText != nil && r.segment.fullText.CanMatchExactly(expr)
}
