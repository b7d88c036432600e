// Package logview builds the in-memory read-only view of a materialized log
// batch that the log-backed MetadataProvider reads against (spec §3, §4.2).
package logview

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/iamNilotpal/predicatefilter/internal/logmaterializer"
	"github.com/iamNilotpal/predicatefilter/internal/metadata"
)

// LogView is the derived, single-evaluation view spec §3 describes: an
// ordered by-key metadata index, a document map, a user-id-to-offset map,
// and the set of segment offsets this log batch shadows.
type LogView struct {
	byKey          *metadata.ByKeyIndex
	document       map[uint32]string
	userIDToOffset map[string]uint32
	shadowed       *roaring.Bitmap
}

// Build constructs a LogView from a materialized log's collapsed entries,
// following the single-pass algorithm of spec §4.2.
func Build(entries []*logmaterializer.Entry) *LogView {
	view := &LogView{
		byKey:          metadata.NewByKeyIndex(),
		document:       make(map[uint32]string),
		userIDToOffset: make(map[string]uint32),
		shadowed:       roaring.New(),
	}

	for _, entry := range entries {
		offset := entry.Offset()
		op := entry.Operation()

		// Step 1: an offset is shadowed iff its final operation is neither
		// Initial nor AddNew — i.e. it already existed in the segment and
		// this batch touched it (spec §3 invariant 2).
		if op != logmaterializer.Initial && op != logmaterializer.AddNew {
			view.shadowed.Add(offset)
		}

		// Step 2: a deleted offset contributes nothing further — it is
		// absent from document, by_key, and user_id_to_offset (invariant 1).
		if op == logmaterializer.DeleteExisting {
			continue
		}

		view.userIDToOffset[entry.UserID()] = offset
		for key, value := range entry.MergedMetadata() {
			view.byKey.Insert(key, value, offset)
		}
		if doc := entry.MergedDocument(); doc != nil {
			view.document[offset] = *doc
		}
	}

	return view
}

// ByKey returns the ordered by-key/by-value metadata index built from the
// log's live records.
func (v *LogView) ByKey() *metadata.ByKeyIndex { return v.byKey }

// Document returns the document for offset and whether it has one.
func (v *LogView) Document(offset uint32) (string, bool) {
	doc, ok := v.document[offset]
	return doc, ok
}

// Documents returns the full offset-to-document map backing Document, for
// callers that need to iterate (the log-side contains/regex linear scan of
// spec §4.3).
func (v *LogView) Documents() map[uint32]string { return v.document }

// OffsetForUserID returns the live offset mapped to userID, if any.
func (v *LogView) OffsetForUserID(userID string) (uint32, bool) {
	offset, ok := v.userIDToOffset[userID]
	return offset, ok
}

// SearchUserIDs resolves a batch of user ids against the log's own
// userIDToOffset map in one pass, returning the offsets found. This view
// owns that map outright, so a batch lookup costs nothing beyond the one
// map access per id it would take anyway; the asymmetric counterpart on the
// segment side, which has no such map resident in memory, instead exposes
// only a one-at-a-time point lookup per id.
func (v *LogView) SearchUserIDs(ids []string) *roaring.Bitmap {
	found := roaring.New()
	for _, id := range ids {
		if offset, ok := v.userIDToOffset[id]; ok {
			found.Add(offset)
		}
	}
	return found
}

// Shadowed returns the bitmap of segment offsets this log batch shadows
// (spec §3, §4.5 step 8's `Exclude(shadowed)` term).
func (v *LogView) Shadowed() *roaring.Bitmap { return v.shadowed }
