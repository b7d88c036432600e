// Package predicate defines the Where predicate grammar of spec §6 and the
// recursive evaluator that turns a tree of it into a bitmap.SignedBitmap
// against a given provider.MetadataProvider (spec §4.4).
package predicate

import "github.com/iamNilotpal/predicatefilter/internal/metadata"

// PrimitiveOperator is the prim_op production of the grammar.
type PrimitiveOperator uint8

const (
	OpEqual PrimitiveOperator = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
)

// SetOperator is the set_op production of the grammar.
type SetOperator uint8

const (
	SetIn SetOperator = iota
	SetNotIn
)

// BooleanOperator is the bool_op production of the grammar.
type BooleanOperator uint8

const (
	BoolAnd BooleanOperator = iota
	BoolOr
)

// DocumentOperator is the operator production for Document expressions.
type DocumentOperator uint8

const (
	DocContains DocumentOperator = iota
	DocNotContains
	DocRegex
	DocNotRegex
)

// Comparison is the comparison production: either a Primitive or a Set
// comparison against a metadata key. Exactly one of Primitive/Set is set.
type Comparison struct {
	Primitive *PrimitiveComparison
	Set       *SetComparison
}

// PrimitiveComparison compares a single metadata value.
type PrimitiveComparison struct {
	Operator PrimitiveOperator
	Value    metadata.Value
}

// SetComparison compares against a list of metadata values (In/NotIn).
type SetComparison struct {
	Operator SetOperator
	Values   []metadata.Value
}

// Where is the predicate tree node type of spec §6's grammar. Exactly one
// of Metadata, Document, Composite is set per node.
type Where struct {
	Metadata  *MetadataExpr
	Document  *DocumentExpr
	Composite *CompositeExpr
}

// MetadataExpr is the `Metadata(key, comparison)` grammar production.
type MetadataExpr struct {
	Key        string
	Comparison Comparison
}

// DocumentExpr is the `Document(operator, pattern)` grammar production.
type DocumentExpr struct {
	Operator DocumentOperator
	Pattern  string
}

// CompositeExpr is the `Composite(bool_op, [Where])` grammar production.
type CompositeExpr struct {
	Operator BooleanOperator
	Children []*Where
}

// Metadata builds a Where node wrapping a metadata comparison.
func Metadata(key string, comparison Comparison) *Where {
	return &Where{Metadata: &MetadataExpr{Key: key, Comparison: comparison}}
}

// Document builds a Where node wrapping a document expression.
func Document(operator DocumentOperator, pattern string) *Where {
	return &Where{Document: &DocumentExpr{Operator: operator, Pattern: pattern}}
}

// Composite builds a Where node wrapping a boolean composition of children.
func Composite(operator BooleanOperator, children []*Where) *Where {
	return &Where{Composite: &CompositeExpr{Operator: operator, Children: children}}
}

// Primitive builds a Comparison wrapping a single-value comparison.
func Primitive(op PrimitiveOperator, value metadata.Value) Comparison {
	return Comparison{Primitive: &PrimitiveComparison{Operator: op, Value: value}}
}

// Set builds a Comparison wrapping a set-membership comparison.
func Set(op SetOperator, values []metadata.Value) Comparison {
	return Comparison{Set: &SetComparison{Operator: op, Values: values}}
}
