package filter

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/iamNilotpal/predicatefilter/internal/logmaterializer"
	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	"github.com/iamNilotpal/predicatefilter/internal/predicate"
	"github.com/iamNilotpal/predicatefilter/internal/segment"
	"github.com/iamNilotpal/predicatefilter/pkg/bitmap"
	"github.com/iamNilotpal/predicatefilter/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture: spec §8's seed scenario. Offsets 11..50 are committed, live
// segment records (1..10 were deleted before this segment generation and
// simply never appear); the log adds offsets 51..100 and deletes 11..20.
// Every live record carries is_even, modulo_3 = offset%3, id = offset, and
// a document containing "<cat>" iff offset%3==0 and "<dog>" iff offset%5==0.

func userID(offset uint32) string { return fmt.Sprintf("user-%d", offset) }

func fixtureDocument(offset uint32) string {
	doc := fmt.Sprintf("record %d", offset)
	if offset%3 == 0 {
		doc += " <cat>"
	}
	if offset%5 == 0 {
		doc += " <dog>"
	}
	return doc
}

func fixtureMetadata(offset uint32) metadata.Map {
	return metadata.Map{
		"is_even":  metadata.Bool(offset%2 == 0),
		"modulo_3": metadata.Int(int64(offset % 3)),
		"id":       metadata.Int(int64(offset)),
	}
}

func buildFixtureInput() Input {
	metadataByOffset := make(map[uint32]metadata.Map)
	documents := make(map[uint32]string)
	var segmentEntries []segment.Entry

	for offset := uint32(11); offset <= 50; offset++ {
		metadataByOffset[offset] = fixtureMetadata(offset)
		documents[offset] = fixtureDocument(offset)
		segmentEntries = append(segmentEntries, segment.Entry{
			Offset: offset,
			UserID: userID(offset),
			Record: segment.Record{Document: strPtrFilter(fixtureDocument(offset))},
		})
	}

	var logOps []logmaterializer.RawOperation
	for offset := uint32(51); offset <= 100; offset++ {
		doc := fixtureDocument(offset)
		logOps = append(logOps, logmaterializer.RawOperation{
			Offset:    offset,
			Operation: logmaterializer.AddNew,
			UserID:    userID(offset),
			Metadata:  fixtureMetadata(offset),
			Document:  &doc,
		})
	}
	for offset := uint32(11); offset <= 20; offset++ {
		logOps = append(logOps, logmaterializer.RawOperation{Offset: offset, Operation: logmaterializer.DeleteExisting})
	}

	return Input{
		Logs:            logOps,
		MetadataSegment: segment.NewMetadataSegment(metadataByOffset, documents),
		RecordSegment:   segment.NewStore(segmentEntries),
	}
}

func strPtrFilter(s string) *string { return &s }

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// probe is a generous sample of offsets spanning well past the fixture's
// live ranges, used to check Exclude-type results' complement semantics
// in addition to the offsets the scenarios explicitly describe.
func probe() []uint32 {
	out := make([]uint32, 0, 120)
	for i := uint32(0); i <= 110; i++ {
		out = append(out, i)
	}
	return out
}

func membership(s bitmap.SignedBitmap, offset uint32) bool {
	in := s.Inner().Contains(offset)
	if s.IsExcluded() {
		return !in
	}
	return in
}

func assertOffsets(t *testing.T, label string, got bitmap.SignedBitmap, want func(uint32) bool) {
	t.Helper()
	for _, offset := range probe() {
		assert.Equalf(t, want(offset), membership(got, offset), "%s: offset %d", label, offset)
	}
}

func runFixture(t *testing.T, config Config) Result {
	t.Helper()
	op := New(config, options.NewDefaultOptions(), testLogger())
	result, err := op.Run(context.Background(), buildFixtureInput())
	require.NoError(t, err)
	return result
}

func TestSeedScenario1EmptyPredicateNoWhitelist(t *testing.T) {
	result := runFixture(t, Config{})

	assertOffsets(t, "log", result.LogOffsetIDs, func(uint32) bool { return true })
	assertOffsets(t, "compact", result.CompactOffsetIDs, func(offset uint32) bool {
		return !(offset >= 11 && offset <= 20)
	})
}

func TestSeedScenario2Whitelist0To29(t *testing.T) {
	var ids []string
	for offset := uint32(0); offset <= 29; offset++ {
		ids = append(ids, userID(offset))
	}
	result := runFixture(t, Config{QueryIDs: ids})

	assertOffsets(t, "log", result.LogOffsetIDs, func(uint32) bool { return false })
	assertOffsets(t, "compact", result.CompactOffsetIDs, func(offset uint32) bool {
		return offset >= 21 && offset <= 29
	})
}

func TestSeedScenario3IsEvenTrue(t *testing.T) {
	where := predicate.Metadata("is_even", predicate.Primitive(predicate.OpEqual, metadata.Bool(true)))
	result := runFixture(t, Config{WhereClause: where})

	assertOffsets(t, "log", result.LogOffsetIDs, func(offset uint32) bool {
		return offset >= 51 && offset <= 100 && offset%2 == 0
	})
	assertOffsets(t, "compact", result.CompactOffsetIDs, func(offset uint32) bool {
		return offset >= 21 && offset <= 50 && offset%2 == 0
	})
}

func TestSeedScenario4Modulo3NotEqualZero(t *testing.T) {
	where := predicate.Metadata("modulo_3", predicate.Primitive(predicate.OpNotEqual, metadata.Int(0)))
	result := runFixture(t, Config{WhereClause: where})

	// Primitive(≠, v) selects everything outside the equality set, which on
	// the log side only has entries for offsets 51..100 (that's all the log
	// knows about), so the result is the complement of the multiples of 3
	// within that range.
	assertOffsets(t, "log", result.LogOffsetIDs, func(offset uint32) bool {
		return !(offset >= 51 && offset <= 100 && offset%3 == 0)
	})
	// On the segment side the equality set only has entries for the
	// committed range 11..50; the shadow mask then removes 11..20 from the
	// final result regardless of which side of the complement they fell on.
	assertOffsets(t, "compact", result.CompactOffsetIDs, func(offset uint32) bool {
		if offset >= 11 && offset <= 20 {
			return false
		}
		inEqualitySet := offset >= 11 && offset <= 50 && offset%3 == 0
		return !inEqualitySet
	})
}

func TestSeedScenario5ContainsCat(t *testing.T) {
	where := predicate.Document(predicate.DocContains, "<cat>")
	result := runFixture(t, Config{WhereClause: where})

	assertOffsets(t, "log", result.LogOffsetIDs, func(offset uint32) bool {
		return offset >= 51 && offset <= 100 && offset%3 == 0
	})
	assertOffsets(t, "compact", result.CompactOffsetIDs, func(offset uint32) bool {
		return offset >= 21 && offset <= 50 && offset%3 == 0
	})
}

func TestSeedScenario6CompositeWithWhitelist(t *testing.T) {
	where := predicate.Composite(predicate.BoolAnd, []*predicate.Where{
		predicate.Document(predicate.DocNotContains, "<dog>"),
		predicate.Composite(predicate.BoolOr, []*predicate.Where{
			predicate.Metadata("id", predicate.Primitive(predicate.OpLessThan, metadata.Int(72))),
			predicate.Metadata("modulo_3", predicate.Set(predicate.SetNotIn, []metadata.Value{metadata.Int(0), metadata.Int(1)})),
		}),
	})

	var ids []string
	for offset := uint32(0); offset <= 95; offset++ {
		ids = append(ids, userID(offset))
	}

	result := runFixture(t, Config{QueryIDs: ids, WhereClause: where})

	assertOffsets(t, "log", result.LogOffsetIDs, func(offset uint32) bool {
		if offset < 51 || offset > 95 {
			return false
		}
		notDog := offset%5 != 0
		idOrModulo := offset < 72 || offset%3 == 2
		return notDog && idOrModulo
	})
	assertOffsets(t, "compact", result.CompactOffsetIDs, func(offset uint32) bool {
		if offset < 21 || offset > 50 {
			return false
		}
		return offset%5 != 0
	})
}

func TestOutputInvariantCompactNeverIntersectsShadowed(t *testing.T) {
	result := runFixture(t, Config{})
	for offset := uint32(11); offset <= 20; offset++ {
		assert.False(t, membership(result.CompactOffsetIDs, offset))
	}
}
