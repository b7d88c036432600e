// Package filter implements FilterOperator, the orchestrator of spec §4.5:
// it builds both MetadataProvider variants, resolves the optional id
// whitelist against each, evaluates the predicate tree once per provider,
// and combines results with the log-shadow mask.
package filter

import (
	"context"
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"

	"github.com/iamNilotpal/predicatefilter/internal/logmaterializer"
	"github.com/iamNilotpal/predicatefilter/internal/logview"
	"github.com/iamNilotpal/predicatefilter/internal/predicate"
	"github.com/iamNilotpal/predicatefilter/internal/provider"
	"github.com/iamNilotpal/predicatefilter/internal/segment"
	"github.com/iamNilotpal/predicatefilter/pkg/bitmap"
	pferrors "github.com/iamNilotpal/predicatefilter/pkg/errors"
	"github.com/iamNilotpal/predicatefilter/pkg/options"
)

// Config is FilterOperator's static configuration (spec §4.5, §6): an
// optional id whitelist and an optional predicate tree. A nil WhereClause
// evaluates as Exclude(∅) (the universe, spec §4.5 step 7); a nil QueryIDs
// means no whitelist is applied (step 6).
type Config struct {
	QueryIDs    []string
	WhereClause *predicate.Where
}

// Input bundles everything one FilterOperator.Run invocation reads from
// (spec §6's `run with { logs, blockfile_provider, metadata_segment,
// record_segment }`; the blockfile_provider collaborator is fully absorbed
// into RecordSegment/MetadataSegment in this in-memory reference
// implementation, so it is not a separate parameter here).
type Input struct {
	Logs            []logmaterializer.RawOperation
	MetadataSegment *segment.MetadataSegment
	RecordSegment   *segment.Store
}

// Result is FilterOperator's output: two independent SignedBitmaps, one per
// storage source, ready for the downstream k-NN operator to use as an
// inclusion/exclusion mask.
type Result struct {
	LogOffsetIDs     bitmap.SignedBitmap
	CompactOffsetIDs bitmap.SignedBitmap
}

// Operator is the FilterOperator of spec §2/§4.5.
type Operator struct {
	config  Config
	options options.Options
	log     *zap.SugaredLogger
}

// New constructs an Operator. logger must not be nil; opts supplies the
// regex selectivity ratio the segment-side provider needs.
func New(config Config, opts options.Options, logger *zap.SugaredLogger) *Operator {
	return &Operator{config: config, options: opts, log: logger}
}

// Run executes the procedure of spec §4.5 steps 1-8.
func (o *Operator) Run(ctx context.Context, input Input) (Result, error) {
	o.log.Infow(
		"running filter operator",
		"hasWhereClause", o.config.WhereClause != nil,
		"queryIDCount", len(o.config.QueryIDs),
		"logEntryCount", len(input.Logs),
	)

	// Step 1: open the record-segment reader, demoting the distinguished
	// "uninitialized segment" error into an absent reader.
	recordReader, err := o.openRecordReader(input.RecordSegment)
	if err != nil {
		return Result{}, err
	}

	// Step 2: materialize the log against the reader.
	materialized, err := logmaterializer.Materialize(ctx, recordReader, input.Logs)
	if err != nil {
		return Result{}, err
	}

	// Step 3: build the LogView.
	view := logview.Build(materialized.Entries())

	// Step 4: open the metadata-segment reader. Unlike the record segment,
	// spec §4.5 names no demotion case here — any failure to open it,
	// including an uninitialized segment, is fatal.
	metadataReader, err := o.openMetadataReader(input.MetadataSegment)
	if err != nil {
		return Result{}, err
	}

	// Step 5: construct both provider variants.
	logProvider := provider.NewLog(view)
	segmentProvider := provider.NewCompactData(metadataReader, recordReader, o.options)

	// Step 6: resolve the id-whitelist masks.
	allowLog, allowSeg, err := o.resolveWhitelist(ctx, view, recordReader)
	if err != nil {
		return Result{}, err
	}

	// Step 7: evaluate the predicate tree against each provider.
	resultLog, err := predicate.Evaluate(ctx, logProvider, o.config.WhereClause)
	if err != nil {
		return Result{}, err
	}
	resultSeg, err := predicate.Evaluate(ctx, segmentProvider, o.config.WhereClause)
	if err != nil {
		return Result{}, err
	}

	// Step 8: combine with the whitelist masks and, for the segment side,
	// the negation of the log's shadowed offsets.
	logOffsets := resultLog.And(allowLog)
	compactOffsets := resultSeg.And(allowSeg).And(bitmap.Exclude(view.Shadowed()))

	o.log.Debugw(
		"filter operator run complete",
		"logOffsetCount", logOffsets.Inner().GetCardinality(),
		"compactOffsetCount", compactOffsets.Inner().GetCardinality(),
	)

	return Result{LogOffsetIDs: logOffsets, CompactOffsetIDs: compactOffsets}, nil
}

// openRecordReader opens a record-segment reader over store, swallowing the
// distinguished uninitialized-segment error into a nil reader ("absent
// reader", spec §7.5) and wrapping any other failure as a fatal
// RecordReaderError.
func (o *Operator) openRecordReader(store *segment.Store) (*segment.Reader, error) {
	reader, err := segment.FromSegment(store)
	if err != nil {
		if errors.Is(err, pferrors.ErrUninitializedSegment) {
			o.log.Infow("record segment is uninitialized, proceeding without a record-segment side")
			return nil, nil
		}
		return nil, pferrors.NewRecordReaderError(err, "failed to open record segment reader")
	}
	return reader, nil
}

// openMetadataReader opens a metadata-segment reader over segmentData.
// Spec §4.5 step 4 names no demotion path for this collaborator, so every
// failure — including an uninitialized segment — is fatal.
func (o *Operator) openMetadataReader(segmentData *segment.MetadataSegment) (*segment.MetadataReader, error) {
	reader, err := segment.FromMetadataSegment(segmentData)
	if err != nil {
		return nil, pferrors.NewMetadataReaderError(err, "failed to open metadata segment reader")
	}
	return reader, nil
}

// resolveWhitelist implements spec §4.5 step 6. An unset QueryIDs yields
// Exclude(∅) on both sides (no whitelist restriction). Otherwise each id is
// looked up independently against the log's user-id map and, if a record
// reader is present, the segment's; ids with no live mapping on a given
// side are simply dropped from that side's whitelist.
func (o *Operator) resolveWhitelist(ctx context.Context, view *logview.LogView, recordReader *segment.Reader) (allowLog, allowSeg bitmap.SignedBitmap, err error) {
	if o.config.QueryIDs == nil {
		return bitmap.Full(), bitmap.Full(), nil
	}

	allowLog = bitmap.Include(view.SearchUserIDs(o.config.QueryIDs))

	if recordReader == nil {
		return allowLog, bitmap.Full(), nil
	}

	segBitmap := roaring.New()
	for _, id := range o.config.QueryIDs {
		offset, ok, err := recordReader.GetOffsetIDForUserID(ctx, id)
		if err != nil {
			return bitmap.SignedBitmap{}, bitmap.SignedBitmap{}, pferrors.NewRecordError(err, "failed to resolve whitelist user id against record segment")
		}
		if ok {
			segBitmap.Add(offset)
		}
	}
	return allowLog, bitmap.Include(segBitmap), nil
}
