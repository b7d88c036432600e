// Package bitmap implements SignedBitmap, the symbolic set representation
// the predicate evaluation core uses to describe "this set of offsets" or
// "everything except this set of offsets" over an implicit, unmaterialized
// universe of 32-bit offset identifiers (spec §4.1).
//
// Without a signed representation, negating a predicate over billions of
// live offsets (NotEqual, NotContains, NotRegex) would force materializing
// every offset that does *not* match just to hand the next operator a
// concrete set. SignedBitmap keeps these predicates proportional to the
// size of whichever side of the complement is smaller, by deferring the
// complement itself: Exclude(B) means "the universe minus B", and B never
// has to be expanded against the universe to compute unions, intersections,
// or further complements.
package bitmap

import "github.com/RoaringBitmap/roaring/v2"

// SignedBitmap is exactly one of two canonical forms: Include, meaning the
// set is exactly its inner bitmap, or Exclude, meaning the set is the
// complement of its inner bitmap within the (never materialized) universe
// of all possible offsets. Include(empty) is the canonical empty set;
// Exclude(empty) is the canonical universe. No other encoding of the empty
// set or the universe is produced by this package.
type SignedBitmap struct {
	excluded bool
	inner    *roaring.Bitmap
}

// Empty returns the canonical empty set, Include(∅).
func Empty() SignedBitmap {
	return SignedBitmap{excluded: false, inner: roaring.New()}
}

// Full returns the canonical universe, Exclude(∅).
func Full() SignedBitmap {
	return SignedBitmap{excluded: true, inner: roaring.New()}
}

// Include wraps b as an inclusion set: the result is exactly b's members.
// Include takes ownership of b; callers must not mutate b afterwards.
func Include(b *roaring.Bitmap) SignedBitmap {
	if b == nil {
		b = roaring.New()
	}
	return SignedBitmap{excluded: false, inner: b}
}

// Exclude wraps b as an exclusion set: the result is every offset not in b.
// Exclude takes ownership of b; callers must not mutate b afterwards.
func Exclude(b *roaring.Bitmap) SignedBitmap {
	if b == nil {
		b = roaring.New()
	}
	return SignedBitmap{excluded: true, inner: b}
}

// IsExcluded reports whether this value is in Exclude form.
func (s SignedBitmap) IsExcluded() bool {
	return s.excluded
}

// Inner returns the bitmap backing this value: its members directly if
// Include, or the members of its complement if Exclude.
func (s SignedBitmap) Inner() *roaring.Bitmap {
	if s.inner == nil {
		return roaring.New()
	}
	return s.inner
}

// IsEmpty reports whether this value is the canonical empty set.
func (s SignedBitmap) IsEmpty() bool {
	return !s.excluded && s.Inner().IsEmpty()
}

// IsFull reports whether this value is the canonical universe.
func (s SignedBitmap) IsFull() bool {
	return s.excluded && s.Inner().IsEmpty()
}

// Complement swaps Include and Exclude over the same inner bitmap, giving
// the set of every offset not in s. complement(complement(x)) == x always,
// since the inner bitmap is untouched.
func (s SignedBitmap) Complement() SignedBitmap {
	return SignedBitmap{excluded: !s.excluded, inner: s.Inner()}
}

// Or computes the union a | b, choosing the algebraic identity that avoids
// materializing the universe:
//
//	Include(x) | Include(y) = Include(x∪y)
//	Include(x) | Exclude(y) = Exclude(y \ x)
//	Exclude(x) | Exclude(y) = Exclude(x∩y)
func (a SignedBitmap) Or(b SignedBitmap) SignedBitmap {
	switch {
	case !a.excluded && !b.excluded:
		return Include(roaring.Or(a.Inner(), b.Inner()))
	case !a.excluded && b.excluded:
		return Exclude(roaring.AndNot(b.Inner(), a.Inner()))
	case a.excluded && !b.excluded:
		return Exclude(roaring.AndNot(a.Inner(), b.Inner()))
	default: // a.excluded && b.excluded
		return Exclude(roaring.And(a.Inner(), b.Inner()))
	}
}

// And computes the intersection a & b, choosing the algebraic identity that
// avoids materializing the universe:
//
//	Include(x) & Include(y) = Include(x∩y)
//	Include(x) & Exclude(y) = Include(x \ y)
//	Exclude(x) & Exclude(y) = Exclude(x∪y)
func (a SignedBitmap) And(b SignedBitmap) SignedBitmap {
	switch {
	case !a.excluded && !b.excluded:
		return Include(roaring.And(a.Inner(), b.Inner()))
	case !a.excluded && b.excluded:
		return Include(roaring.AndNot(a.Inner(), b.Inner()))
	case a.excluded && !b.excluded:
		return Include(roaring.AndNot(b.Inner(), a.Inner()))
	default: // a.excluded && b.excluded
		return Exclude(roaring.Or(a.Inner(), b.Inner()))
	}
}

// Clone returns a deep copy so callers can keep folding without aliasing
// the bitmaps participating in earlier results.
func (s SignedBitmap) Clone() SignedBitmap {
	return SignedBitmap{excluded: s.excluded, inner: s.Inner().Clone()}
}
