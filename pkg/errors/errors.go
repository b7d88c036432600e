// Package errors implements the stable error taxonomy of the predicate
// evaluation core (spec §7). Every domain-specific error type embeds a
// shared baseError, which carries a causing error, a stable ErrorCode, a
// human-readable message, and a lazily-allocated details map. Domain types
// add only the context specific to where they can occur: a key and operator
// for index lookups, an offset for record/log errors, a segment identifier
// for reader-construction errors, a pattern for regex errors.
//
// Callers extract typed context with the As* helpers below, or fall back to
// GetErrorCode/GetErrorDetails for generic handling that doesn't care which
// concrete type produced the failure.
package errors

import stdErrors "errors"

// ErrUninitializedSegment is the single sentinel demotion recognized by
// FilterOperator: constructing a record-segment reader against a segment
// that has never been written to is not a fault, it means there is no
// record-segment side to this collection yet (spec §7.5, §4.5 step 1).
// Every other error out of record-segment-reader construction is wrapped in
// a RecordReaderError and surfaced.
var ErrUninitializedSegment = stdErrors.New("record segment is uninitialized")

func IsIndexQueryError(err error) bool {
	var e *IndexQueryError
	return stdErrors.As(err, &e)
}

func IsLogMaterializerError(err error) bool {
	var e *LogMaterializerError
	return stdErrors.As(err, &e)
}

func IsMetadataReaderError(err error) bool {
	var e *MetadataReaderError
	return stdErrors.As(err, &e)
}

func IsRecordError(err error) bool {
	var e *RecordError
	return stdErrors.As(err, &e)
}

func IsRecordReaderError(err error) bool {
	var e *RecordReaderError
	return stdErrors.As(err, &e)
}

func IsRegexError(err error) bool {
	var e *RegexError
	return stdErrors.As(err, &e)
}

func AsIndexQueryError(err error) (*IndexQueryError, bool) {
	var e *IndexQueryError
	ok := stdErrors.As(err, &e)
	return e, ok
}

func AsLogMaterializerError(err error) (*LogMaterializerError, bool) {
	var e *LogMaterializerError
	ok := stdErrors.As(err, &e)
	return e, ok
}

func AsMetadataReaderError(err error) (*MetadataReaderError, bool) {
	var e *MetadataReaderError
	ok := stdErrors.As(err, &e)
	return e, ok
}

func AsRecordError(err error) (*RecordError, bool) {
	var e *RecordError
	ok := stdErrors.As(err, &e)
	return e, ok
}

func AsRecordReaderError(err error) (*RecordReaderError, bool) {
	var e *RecordReaderError
	ok := stdErrors.As(err, &e)
	return e, ok
}

func AsRegexError(err error) (*RegexError, bool) {
	var e *RegexError
	ok := stdErrors.As(err, &e)
	return e, ok
}

// GetErrorCode extracts the stable ErrorCode from any error in the
// taxonomy, or returns ErrorCodeInternal for errors that don't carry one.
// This lets callers (e.g. a metrics layer counting failures by code)
// categorize errors without knowing their concrete type.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsIndexQueryError(err); ok {
		return e.Code()
	}
	if e, ok := AsLogMaterializerError(err); ok {
		return e.Code()
	}
	if e, ok := AsMetadataReaderError(err); ok {
		return e.Code()
	}
	if e, ok := AsRecordError(err); ok {
		return e.Code()
	}
	if e, ok := AsRecordReaderError(err); ok {
		return e.Code()
	}
	if e, ok := AsRegexError(err); ok {
		return e.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts the structured detail map from any error in the
// taxonomy, or an empty map for errors that don't carry one.
func GetErrorDetails(err error) map[string]any {
	if e, ok := AsIndexQueryError(err); ok && e.Details() != nil {
		return e.Details()
	}
	if e, ok := AsLogMaterializerError(err); ok && e.Details() != nil {
		return e.Details()
	}
	if e, ok := AsMetadataReaderError(err); ok && e.Details() != nil {
		return e.Details()
	}
	if e, ok := AsRecordError(err); ok && e.Details() != nil {
		return e.Details()
	}
	if e, ok := AsRecordReaderError(err); ok && e.Details() != nil {
		return e.Details()
	}
	if e, ok := AsRegexError(err); ok && e.Details() != nil {
		return e.Details()
	}
	return make(map[string]any)
}
