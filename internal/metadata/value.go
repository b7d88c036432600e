// Package metadata defines the tagged-union metadata value type shared by
// both the log-backed and segment-backed MetadataProvider variants, and the
// ordered by-key/by-value index structure the log side builds over it
// (spec §3, LogView.by_key).
package metadata

import "cmp"

// Kind identifies which variant of Value is populated. Equality and
// ordering are defined within each variant; values of different Kinds are
// never equal and never ordered against each other, which is how the
// cross-variant non-match rule of spec §3 falls out of ordinary map/ordered
// lookups rather than needing special-cased comparison logic.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
)

// Value is a tagged union over the four metadata value variants spec §3
// defines: boolean, signed 64-bit integer, 64-bit float, or UTF-8 string.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func Bool(b bool) Value    { return Value{kind: KindBool, b: b} }
func Int(i int64) Value    { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Str(s string) Value   { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) BoolValue() bool    { return v.b }
func (v Value) IntValue() int64    { return v.i }
func (v Value) FloatValue() float64 { return v.f }
func (v Value) StringValue() string { return v.s }

// Compare orders two values of the same Kind, returning a negative number,
// zero, or a positive number as v is less than, equal to, or greater than
// other. Compare panics if the two values are of different Kinds: callers
// (the ordered by-key/by-value index) never compare across variants,
// because each variant occupies an independent ordered sub-map per spec §3.
func (v Value) Compare(other Value) int {
	if v.kind != other.kind {
		panic("metadata: cannot compare values of different kinds")
	}
	switch v.kind {
	case KindBool:
		return cmp.Compare(boolToInt(v.b), boolToInt(other.b))
	case KindInt:
		return cmp.Compare(v.i, other.i)
	case KindFloat:
		return cmp.Compare(v.f, other.f)
	case KindString:
		return cmp.Compare(v.s, other.s)
	default:
		panic("metadata: unknown value kind")
	}
}

// Equal reports whether v and other are the same Kind and the same value.
// Values of different Kinds are never equal, implementing spec §3's
// "cross-variant comparisons never match" rule.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	return v.Compare(other) == 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Map is a record's metadata: a mapping from UTF-8 key to Value, at most one
// map per record, keys unique per record (spec §3).
type Map map[string]Value
