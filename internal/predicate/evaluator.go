package predicate

import (
	"context"
	"fmt"

	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	"github.com/iamNilotpal/predicatefilter/internal/provider"
	"github.com/iamNilotpal/predicatefilter/pkg/bitmap"
)

// Evaluate walks where depth-first and turns it into a bitmap.SignedBitmap
// against prov. A nil where evaluates to Exclude(∅) (the universe), matching
// FilterOperator's rule that an unset predicate excludes nothing.
//
// Children are evaluated in order, never concurrently, using ordinary Go
// call-stack recursion. An async evaluator built around a self-referential
// future type needs an explicit heap-allocated work stack to keep that
// future from growing with tree depth; a synchronous call stack already is
// that work stack, so no separate indirection is needed here.
func Evaluate(ctx context.Context, prov provider.MetadataProvider, where *Where) (bitmap.SignedBitmap, error) {
	if where == nil {
		return bitmap.Full(), nil
	}

	switch {
	case where.Metadata != nil:
		return evaluateMetadata(ctx, prov, where.Metadata)
	case where.Document != nil:
		return evaluateDocument(ctx, prov, where.Document)
	case where.Composite != nil:
		return evaluateComposite(ctx, prov, where.Composite)
	default:
		return bitmap.SignedBitmap{}, fmt.Errorf("predicate: Where node has no populated variant")
	}
}

func evaluateMetadata(ctx context.Context, prov provider.MetadataProvider, expr *MetadataExpr) (bitmap.SignedBitmap, error) {
	switch {
	case expr.Comparison.Primitive != nil:
		return evaluatePrimitive(ctx, prov, expr.Key, expr.Comparison.Primitive)
	case expr.Comparison.Set != nil:
		return evaluateSet(ctx, prov, expr.Key, expr.Comparison.Set)
	default:
		return bitmap.SignedBitmap{}, fmt.Errorf("predicate: Comparison has no populated variant")
	}
}

// evaluatePrimitive implements spec §4.4's Primitive rules. NotEqual is
// deliberately not `complement(provider.compare(key, v, !=))` — there is no
// such provider operation — it is the complement of the *equality* set,
// which is why records missing the key end up selected by `≠` (they are
// absent from the equality set, hence present in its complement).
func evaluatePrimitive(ctx context.Context, prov provider.MetadataProvider, key string, cmp *PrimitiveComparison) (bitmap.SignedBitmap, error) {
	if cmp.Operator == OpNotEqual {
		equal, err := prov.Compare(ctx, key, cmp.Value, metadata.Equal)
		if err != nil {
			return bitmap.SignedBitmap{}, err
		}
		return bitmap.Exclude(equal), nil
	}

	op, err := toCompareOp(cmp.Operator)
	if err != nil {
		return bitmap.SignedBitmap{}, err
	}
	bm, err := prov.Compare(ctx, key, cmp.Value, op)
	if err != nil {
		return bitmap.SignedBitmap{}, err
	}
	return bitmap.Include(bm), nil
}

func toCompareOp(op PrimitiveOperator) (metadata.CompareOp, error) {
	switch op {
	case OpEqual:
		return metadata.Equal, nil
	case OpGreaterThan:
		return metadata.GreaterThan, nil
	case OpGreaterThanOrEqual:
		return metadata.GreaterThanOrEqual, nil
	case OpLessThan:
		return metadata.LessThan, nil
	case OpLessThanOrEqual:
		return metadata.LessThanOrEqual, nil
	default:
		return 0, fmt.Errorf("predicate: unsupported primitive operator %d", op)
	}
}

// evaluateSet implements spec §4.4's Set(In)/Set(NotIn) folds: In unions
// Include(=) lookups from an Include(∅) base case; NotIn intersects
// Exclude(=) lookups from an Exclude(∅) base case.
func evaluateSet(ctx context.Context, prov provider.MetadataProvider, key string, cmp *SetComparison) (bitmap.SignedBitmap, error) {
	switch cmp.Operator {
	case SetIn:
		result := bitmap.Empty()
		for _, value := range cmp.Values {
			bm, err := prov.Compare(ctx, key, value, metadata.Equal)
			if err != nil {
				return bitmap.SignedBitmap{}, err
			}
			result = result.Or(bitmap.Include(bm))
		}
		return result, nil
	case SetNotIn:
		result := bitmap.Full()
		for _, value := range cmp.Values {
			bm, err := prov.Compare(ctx, key, value, metadata.Equal)
			if err != nil {
				return bitmap.SignedBitmap{}, err
			}
			result = result.And(bitmap.Exclude(bm))
		}
		return result, nil
	default:
		return bitmap.SignedBitmap{}, fmt.Errorf("predicate: unsupported set operator %d", cmp.Operator)
	}
}

func evaluateDocument(ctx context.Context, prov provider.MetadataProvider, expr *DocumentExpr) (bitmap.SignedBitmap, error) {
	switch expr.Operator {
	case DocContains:
		bm, err := prov.Contains(ctx, expr.Pattern)
		if err != nil {
			return bitmap.SignedBitmap{}, err
		}
		return bitmap.Include(bm), nil
	case DocNotContains:
		bm, err := prov.Contains(ctx, expr.Pattern)
		if err != nil {
			return bitmap.SignedBitmap{}, err
		}
		return bitmap.Exclude(bm), nil
	case DocRegex:
		bm, err := prov.Regex(ctx, expr.Pattern)
		if err != nil {
			return bitmap.SignedBitmap{}, err
		}
		return bitmap.Include(bm), nil
	case DocNotRegex:
		bm, err := prov.Regex(ctx, expr.Pattern)
		if err != nil {
			return bitmap.SignedBitmap{}, err
		}
		return bitmap.Exclude(bm), nil
	default:
		return bitmap.SignedBitmap{}, fmt.Errorf("predicate: unsupported document operator %d", expr.Operator)
	}
}

// evaluateComposite implements spec §4.4's And/Or folds over children,
// awaited strictly in order (spec §5).
func evaluateComposite(ctx context.Context, prov provider.MetadataProvider, expr *CompositeExpr) (bitmap.SignedBitmap, error) {
	switch expr.Operator {
	case BoolAnd:
		result := bitmap.Full()
		for _, child := range expr.Children {
			childResult, err := Evaluate(ctx, prov, child)
			if err != nil {
				return bitmap.SignedBitmap{}, err
			}
			result = result.And(childResult)
		}
		return result, nil
	case BoolOr:
		result := bitmap.Empty()
		for _, child := range expr.Children {
			childResult, err := Evaluate(ctx, prov, child)
			if err != nil {
				return bitmap.SignedBitmap{}, err
			}
			result = result.Or(childResult)
		}
		return result, nil
	default:
		return bitmap.SignedBitmap{}, fmt.Errorf("predicate: unsupported boolean operator %d", expr.Operator)
	}
}
