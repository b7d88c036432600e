// Package provider implements the MetadataProvider façade of spec §4.3:
// two variants, Log and CompactData, sharing one interface over
// comparison, substring, and regular-expression document matching.
package provider

import (
	"context"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/iamNilotpal/predicatefilter/internal/logview"
	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	"github.com/iamNilotpal/predicatefilter/internal/regexmatch"
)

// MetadataProvider is the interface PredicateEvaluator recurses against; Log
// and CompactData are its two implementations.
type MetadataProvider interface {
	// Compare returns the bitmap of offsets whose record has key set and
	// whose value satisfies op relative to value. op is never NotEqual
	// (spec §4.4 desugars that at the evaluator).
	Compare(ctx context.Context, key string, value metadata.Value, op metadata.CompareOp) (*roaring.Bitmap, error)
	// Contains returns the bitmap of offsets whose document contains query
	// as a substring.
	Contains(ctx context.Context, query string) (*roaring.Bitmap, error)
	// Regex returns the bitmap of offsets whose document matches pattern.
	Regex(ctx context.Context, pattern string) (*roaring.Bitmap, error)
}

// Log is the log-backed MetadataProvider variant, reading against a
// materialized LogView.
type Log struct {
	view *logview.LogView
}

// NewLog wraps view as a MetadataProvider.
func NewLog(view *logview.LogView) *Log {
	return &Log{view: view}
}

// Compare looks up by_key[key] and range-scans its ordered value sub-map
// (spec §4.3 log variant). Only entries whose Kind matches value's Kind
// participate, which is how the cross-variant non-match rule holds without
// any special-cased comparison logic.
func (p *Log) Compare(_ context.Context, key string, value metadata.Value, op metadata.CompareOp) (*roaring.Bitmap, error) {
	ov := p.view.ByKey().Get(key)
	if ov == nil || ov.Kind() != value.Kind() {
		return roaring.New(), nil
	}
	lower, upper := op.Bounds(value)
	return ov.Range(lower, upper), nil
}

// Contains linear-scans the log's document map (spec §4.3 log variant);
// the log is small and in-memory, so no index is warranted here.
func (p *Log) Contains(_ context.Context, query string) (*roaring.Bitmap, error) {
	result := roaring.New()
	for offset, doc := range p.view.Documents() {
		if strings.Contains(doc, query) {
			result.Add(offset)
		}
	}
	return result, nil
}

// Regex linear-scans the log's document map, testing each document against
// the compiled pattern (spec §4.3 log variant).
func (p *Log) Regex(_ context.Context, pattern string) (*roaring.Bitmap, error) {
	compiled, err := regexmatch.Parse(pattern)
	if err != nil {
		return nil, err
	}
	result := roaring.New()
	for offset, doc := range p.view.Documents() {
		if compiled.MatchString(doc) {
			result.Add(offset)
		}
	}
	return result, nil
}
