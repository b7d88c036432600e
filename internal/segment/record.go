// Package segment provides the committed, block-structured collaborators
// the predicate evaluation core reads against: a record-segment reader
// (offset -> document/user-id) and a metadata-segment reader (typed column
// indexes plus a full-text reader). Spec §6 treats these as external
// collaborators with only their consumed interfaces specified; this
// package supplies a concrete, in-memory reference implementation of both.
// Segments here carry no segment ID and no size bound: each is built once
// from its rows and read through a Reader, so swapping in a real on-disk
// block format later is a matter of re-implementing these same reader
// interfaces.
package segment

import (
	"context"
	"sort"
	"sync"

	pferrors "github.com/iamNilotpal/predicatefilter/pkg/errors"
)

// Record is the payload stored for a single offset in the record segment:
// just enough to answer the RecordSegmentReader contract of spec §6.
type Record struct {
	Document *string
}

// Entry is one committed row: an offset, the user id that maps to it, and
// its record payload. A Store is built from a sequence of these at segment
// construction time (spec's "committed, block-structured segment").
type Entry struct {
	Offset uint32
	UserID string
	Record Record
}

// Store is the in-memory committed record segment. It is the reference
// implementation of the "Record-segment reader" collaborator named in spec
// §6, playing the collapsed, already-compacted state that a real on-disk
// segment would serve from its blockfiles.
type Store struct {
	mu           sync.RWMutex
	initialized  bool
	byOffset     map[uint32]Record
	userToOffset map[string]uint32
	offsets      []uint32 // sorted, for range streaming
}

// NewStore builds a committed record store from entries. Passing zero
// entries still yields an initialized (but empty) store; to model a
// collection whose record segment has never been written to (spec §7.5's
// UninitializedSegment case), use NewUninitializedStore instead.
func NewStore(entries []Entry) *Store {
	s := &Store{
		initialized:  true,
		byOffset:     make(map[uint32]Record, len(entries)),
		userToOffset: make(map[string]uint32, len(entries)),
		offsets:      make([]uint32, 0, len(entries)),
	}
	for _, e := range entries {
		s.byOffset[e.Offset] = e.Record
		s.userToOffset[e.UserID] = e.Offset
		s.offsets = append(s.offsets, e.Offset)
	}
	sort.Slice(s.offsets, func(i, j int) bool { return s.offsets[i] < s.offsets[j] })
	return s
}

// NewUninitializedStore returns a Store that reports itself as never having
// been written to. Opening a reader against it yields
// pferrors.ErrUninitializedSegment, which FilterOperator demotes to "no
// record-segment side" rather than treating as fatal (spec §4.5 step 1,
// §7.5).
func NewUninitializedStore() *Store {
	return &Store{initialized: false}
}

// Reader is the concrete RecordSegmentReader collaborator of spec §6.
type Reader struct {
	store *Store
}

// FromSegment opens a Reader over store. If store was built with
// NewUninitializedStore, it returns pferrors.ErrUninitializedSegment
// instead of a *RecordReaderError, matching the distinguished demotion
// path of spec §7.5.
func FromSegment(store *Store) (*Reader, error) {
	if store == nil || !store.initialized {
		return nil, pferrors.ErrUninitializedSegment
	}
	return &Reader{store: store}, nil
}

// GetOffsetIDForUserID returns the offset mapped to userID, or ok=false if
// no live record maps to it.
func (r *Reader) GetOffsetIDForUserID(_ context.Context, userID string) (offset uint32, ok bool, err error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	offset, ok = r.store.userToOffset[userID]
	return offset, ok, nil
}

// GetDataForOffsetID performs a point lookup of the record at offset,
// ok=false if it doesn't exist (spec §6, used by the regex point-lookup
// verification path).
func (r *Reader) GetDataForOffsetID(_ context.Context, offset uint32) (rec Record, ok bool, err error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok = r.store.byOffset[offset]
	return rec, ok, nil
}

// RecordAt pairs an offset with its record, the element type streamed by
// GetDataStream.
type RecordAt struct {
	Offset uint32
	Record Record
}

// GetDataStream streams every committed (offset, record) pair in
// ascending-offset order. Spec §5 requires the "stream all records" path
// not buffer beyond what's needed to produce the result bitmap;
// implementations consume this channel incrementally rather than
// collecting it into a slice first.
func (r *Reader) GetDataStream(ctx context.Context) (<-chan RecordAt, <-chan error) {
	out := make(chan RecordAt)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		r.store.mu.RLock()
		offsets := make([]uint32, len(r.store.offsets))
		copy(offsets, r.store.offsets)
		r.store.mu.RUnlock()

		for _, off := range offsets {
			r.store.mu.RLock()
			rec := r.store.byOffset[off]
			r.store.mu.RUnlock()

			select {
			case out <- RecordAt{Offset: off, Record: rec}:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	return out, errc
}

// GetOffsetStream streams every committed offset in ascending order,
// without fetching the associated record.
func (r *Reader) GetOffsetStream(ctx context.Context) (<-chan uint32, <-chan error) {
	out := make(chan uint32)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		r.store.mu.RLock()
		offsets := make([]uint32, len(r.store.offsets))
		copy(offsets, r.store.offsets)
		r.store.mu.RUnlock()

		for _, off := range offsets {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}
			select {
			case out <- off:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	return out, errc
}

// Count returns the number of committed records, used by the regex
// selectivity heuristic of spec §4.3.
func (r *Reader) Count(context.Context) (uint64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return uint64(len(r.store.offsets)), nil
}
