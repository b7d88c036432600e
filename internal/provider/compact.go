package provider

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	"github.com/iamNilotpal/predicatefilter/internal/regexmatch"
	"github.com/iamNilotpal/predicatefilter/internal/segment"
	pferrors "github.com/iamNilotpal/predicatefilter/pkg/errors"
	"github.com/iamNilotpal/predicatefilter/pkg/options"
)

// CompactData is the segment-backed MetadataProvider variant (spec §4.3,
// §4.5's `segment_provider = CompactData(&metadata_reader, &record_reader)`).
// Either reader may be nil, modeling an absent collaborator per spec §6 ("any
// of these may be absent and must be handled as 'no match'").
type CompactData struct {
	metadataReader *segment.MetadataReader
	recordReader   *segment.Reader
	options        options.Options
}

// NewCompactData wraps metadataReader and recordReader as a MetadataProvider.
// opts supplies the regex point-lookup selectivity ratio (spec §4.3's
// tuned one-tenth constant).
func NewCompactData(metadataReader *segment.MetadataReader, recordReader *segment.Reader, opts options.Options) *CompactData {
	return &CompactData{metadataReader: metadataReader, recordReader: recordReader, options: opts}
}

// Compare dispatches by value's Kind to the segment's typed column index via
// metadataReader (spec §4.3 segment variant). If metadataReader is absent,
// returns the empty bitmap.
func (p *CompactData) Compare(ctx context.Context, key string, value metadata.Value, op metadata.CompareOp) (*roaring.Bitmap, error) {
	if p.metadataReader == nil {
		return roaring.New(), nil
	}
	if op == metadata.Equal {
		return p.metadataReader.Equal(ctx, key, value)
	}
	lower, upper := op.Bounds(value)
	return p.metadataReader.Range(ctx, key, lower, upper)
}

// Contains delegates to the full-text n-gram index if present; else returns
// the empty bitmap (spec §4.3 segment variant).
func (p *CompactData) Contains(ctx context.Context, query string) (*roaring.Bitmap, error) {
	if p.metadataReader == nil || !p.metadataReader.HasFullTextIndex() {
		return roaring.New(), nil
	}
	return p.metadataReader.SearchDocuments(ctx, query)
}

// Regex implements the three-step segment-side regex evaluation of spec
// §4.3: literal/n-gram candidate extraction, an exactness check that can
// short-circuit verification entirely, and otherwise a point-lookup-vs-scan
// choice driven by the tuned selectivity heuristic.
func (p *CompactData) Regex(ctx context.Context, pattern string) (*roaring.Bitmap, error) {
	compiled, err := regexmatch.Parse(pattern)
	if err != nil {
		return nil, err
	}

	if p.metadataReader == nil || p.recordReader == nil || !p.metadataReader.HasFullTextIndex() {
		return roaring.New(), nil
	}

	literalExpr := compiled.LiteralExpr()
	candidates, hasCandidates, err := p.metadataReader.MatchLiteralExpression(ctx, literalExpr)
	if err != nil {
		return nil, err
	}

	exact := !compiled.HasLookAssertion() && p.metadataReader.CanMatchExactly(literalExpr)
	if exact {
		if !hasCandidates {
			// "no filter possible" for an exact predicate: every record is a
			// match, so stream the full offset set rather than testing it.
			return p.fullOffsetBitmap(ctx)
		}
		return candidates, nil
	}

	count, err := p.recordReader.Count(ctx)
	if err != nil {
		return nil, pferrors.NewRecordError(err, "failed to read record segment count for regex selectivity")
	}

	threshold := count / p.options.RegexPointLookupRatio
	if hasCandidates && candidates.GetCardinality() < threshold {
		return p.verifyCandidates(ctx, candidates, compiled)
	}
	return p.scanAll(ctx, candidates, hasCandidates, compiled)
}

func (p *CompactData) fullOffsetBitmap(ctx context.Context) (*roaring.Bitmap, error) {
	offsets, errc := p.recordReader.GetOffsetStream(ctx)
	result := roaring.New()
	for offset := range offsets {
		result.Add(offset)
	}
	if err := <-errc; err != nil {
		return nil, pferrors.NewRecordError(err, "offset stream failed while resolving an exact unconstrained regex")
	}
	return result, nil
}

func (p *CompactData) verifyCandidates(ctx context.Context, candidates *roaring.Bitmap, pattern *regexmatch.Pattern) (*roaring.Bitmap, error) {
	result := roaring.New()
	it := candidates.Iterator()
	for it.HasNext() {
		offset := it.Next()
		rec, ok, err := p.recordReader.GetDataForOffsetID(ctx, offset)
		if err != nil {
			return nil, pferrors.NewRecordError(err, "failed to read candidate record for regex verification").
				WithOffsetID(offset)
		}
		if !ok || rec.Document == nil {
			continue
		}
		if pattern.MatchString(*rec.Document) {
			result.Add(offset)
		}
	}
	return result, nil
}

func (p *CompactData) scanAll(ctx context.Context, candidates *roaring.Bitmap, hasCandidates bool, pattern *regexmatch.Pattern) (*roaring.Bitmap, error) {
	out, errc := p.recordReader.GetDataStream(ctx)
	result := roaring.New()
	for rec := range out {
		if hasCandidates && !candidates.Contains(rec.Offset) {
			continue
		}
		if rec.Record.Document == nil {
			continue
		}
		if pattern.MatchString(*rec.Record.Document) {
			result.Add(rec.Offset)
		}
	}
	if err := <-errc; err != nil {
		return nil, pferrors.NewRecordError(err, "record stream failed during regex scan")
	}
	return result, nil
}
