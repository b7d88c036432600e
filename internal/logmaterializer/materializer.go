// Package logmaterializer collapses a batch of raw, possibly repeated log
// write operations into one hydrated entry per offset, the "Log
// materializer" external collaborator of spec §6 ("materialize_logs" /
// "hydrate"). LogView construction (spec §4.2) consumes its output directly.
package logmaterializer

import (
	"context"
	"maps"

	"github.com/iamNilotpal/predicatefilter/internal/metadata"
	"github.com/iamNilotpal/predicatefilter/internal/segment"
	pferrors "github.com/iamNilotpal/predicatefilter/pkg/errors"
)

// Operation is the log entry operation tag of spec §3.
type Operation uint8

const (
	Initial Operation = iota
	AddNew
	UpdateExisting
	OverwriteExisting
	DeleteExisting
)

func (o Operation) String() string {
	switch o {
	case Initial:
		return "initial"
	case AddNew:
		return "add_new"
	case UpdateExisting:
		return "update_existing"
	case OverwriteExisting:
		return "overwrite_existing"
	case DeleteExisting:
		return "delete_existing"
	default:
		return "unknown"
	}
}

// RawOperation is a single write emitted onto the log by the write path,
// before collapsing. AddNew, OverwriteExisting, and Initial carry a record's
// full state; UpdateExisting carries only the keys it changes, merged onto
// whatever state this offset already holds earlier in the batch. Document is
// nil when this operation leaves the document untouched — its final value is
// resolved from whatever prior state exists, falling back to the segment at
// hydration time.
type RawOperation struct {
	Offset    uint32
	Operation Operation
	UserID    string
	Metadata  metadata.Map
	Document  *string
}

// Entry is one collapsed, per-offset log entry (spec §3, §4.2). Construct
// it only through Materialize.
type Entry struct {
	offset    uint32
	operation Operation
	userID    string
	metadata  metadata.Map
	document  *string
	hydrated  bool
}

// Offset returns the offset id this entry describes.
func (e *Entry) Offset() uint32 { return e.offset }

// Operation returns the entry's final collapsed operation tag.
func (e *Entry) Operation() Operation { return e.operation }

// UserID returns the entry's user id. Meaningless if Operation is
// DeleteExisting.
func (e *Entry) UserID() string { return e.userID }

// MergedMetadata returns the entry's fully merged metadata map. Meaningless
// if Operation is DeleteExisting.
func (e *Entry) MergedMetadata() metadata.Map { return e.metadata }

// MergedDocument returns the entry's final document reference, or nil if it
// has none. Only valid to call after Hydrate.
func (e *Entry) MergedDocument() *string { return e.document }

// Hydrate resolves any state this entry still owes the segment: specifically,
// a document left untouched by every raw operation in this batch is filled
// in from recordReader, matching spec §4.2's "obtain the final merged
// metadata map, user id, and optional document" step. recordReader may be
// nil (segment absent); in that case an entry missing its document simply
// has none. Metadata and user id never need segment hydration here, because
// every raw operation that establishes or updates them (AddNew,
// OverwriteExisting, Initial, UpdateExisting) carries its own contribution
// explicitly.
func (e *Entry) Hydrate(ctx context.Context, recordReader *segment.Reader) error {
	if e.hydrated || e.operation == DeleteExisting {
		e.hydrated = true
		return nil
	}
	if e.document == nil && recordReader != nil {
		rec, ok, err := recordReader.GetDataForOffsetID(ctx, e.offset)
		if err != nil {
			return pferrors.NewLogMaterializerError(err, "failed to hydrate document from record segment").
				WithOffsetID(e.offset)
		}
		if ok {
			e.document = rec.Document
		}
	}
	e.hydrated = true
	return nil
}

// MaterializedLogs is the output of Materialize: one collapsed, hydrated
// Entry per offset touched by the log batch, in first-touched order.
type MaterializedLogs struct {
	entries map[uint32]*Entry
	order   []uint32
}

// Entries returns every collapsed entry, in the order their offset was
// first touched by the batch.
func (m *MaterializedLogs) Entries() []*Entry {
	out := make([]*Entry, 0, len(m.order))
	for _, off := range m.order {
		out = append(out, m.entries[off])
	}
	return out
}

// Len returns the number of distinct offsets touched by this batch.
func (m *MaterializedLogs) Len() int { return len(m.order) }

// Materialize collapses rawOps into one hydrated Entry per offset (spec
// §4.2). recordReader may be nil when the record segment is absent (the
// uninitialized-segment demotion of spec §7.5, §4.5 step 1); entries whose
// document would otherwise be inherited from the segment simply have none.
func Materialize(ctx context.Context, recordReader *segment.Reader, rawOps []RawOperation) (*MaterializedLogs, error) {
	result := &MaterializedLogs{entries: make(map[uint32]*Entry, len(rawOps))}

	for _, op := range rawOps {
		entry, ok := result.entries[op.Offset]
		if !ok {
			entry = &Entry{offset: op.Offset}
			result.entries[op.Offset] = entry
			result.order = append(result.order, op.Offset)
		}
		applyOperation(entry, op)
	}

	for _, off := range result.order {
		if err := result.entries[off].Hydrate(ctx, recordReader); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// applyOperation folds one raw operation onto entry's running state. Within
// a single log batch, offsets are rarely touched more than once, but the
// write path may emit more than one raw operation per offset (e.g. a
// partial update following the same batch's initial add); collapsing must
// still converge to the single final observable state spec §3 requires.
func applyOperation(entry *Entry, op RawOperation) {
	switch op.Operation {
	case AddNew, OverwriteExisting, Initial:
		entry.metadata = cloneMetadata(op.Metadata)
		entry.document = op.Document
		entry.userID = op.UserID
		entry.operation = resolveTag(entry.operation, op.Operation)

	case UpdateExisting:
		if entry.metadata == nil {
			entry.metadata = metadata.Map{}
		}
		maps.Copy(entry.metadata, op.Metadata)
		if op.Document != nil {
			entry.document = op.Document
		}
		if op.UserID != "" {
			entry.userID = op.UserID
		}
		entry.operation = resolveTag(entry.operation, op.Operation)

	case DeleteExisting:
		entry.operation = DeleteExisting
		entry.metadata = nil
		entry.document = nil
		entry.userID = ""
	}
}

// resolveTag picks the operation tag a sequence of (prev, next) raw
// operations on the same offset collapses to. An offset added by this same
// batch (AddNew) stays AddNew no matter how many subsequent partial updates
// or overwrites touch it within the batch, since it is still brand new
// relative to the segment — that relationship, not the verb of the most
// recent write, is what the tag records (spec §3, and the shadowed
// invariant of §3/§4.2 step 1 that keys off exactly this distinction).
func resolveTag(prev, next Operation) Operation {
	if prev == AddNew && (next == UpdateExisting || next == OverwriteExisting) {
		return AddNew
	}
	return next
}

func cloneMetadata(m metadata.Map) metadata.Map {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
