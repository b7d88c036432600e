package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary: reading a segment's blockfiles, hydrating a log entry
	// against the record store, streaming records during a regex scan.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidArgument represents a caller-supplied predicate or
	// pattern that cannot be evaluated as given. No constructor in this
	// package assigns it: each error type below carries its own fixed code
	// (IndexQueryError the code passed to it), and GetErrorCode in errors.go
	// reports that code without consulting the wrapped cause.
	ErrorCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Predicate-evaluation error codes implement the taxonomy of spec §7.
const (
	// ErrorCodeIndex marks a failure inside a metadata column index or the
	// full-text n-gram index (§7.1, IndexError). NewIndexQueryError takes
	// its code from the caller, so an index failure may carry this code or
	// any other.
	ErrorCodeIndex ErrorCode = "INDEX_ERROR"

	// ErrorCodeLogMaterializer marks a failure hydrating a collapsed log
	// entry against the record segment (§7.2, LogMaterializerError).
	ErrorCodeLogMaterializer ErrorCode = "LOG_MATERIALIZER_ERROR"

	// ErrorCodeMetadataReader marks a failure constructing the
	// metadata-segment reader (§7.3, MetadataReaderError).
	ErrorCodeMetadataReader ErrorCode = "METADATA_READER_ERROR"

	// ErrorCodeRecord marks a failure reading a record from the record
	// segment (§7.4, RecordError).
	ErrorCodeRecord ErrorCode = "RECORD_ERROR"

	// ErrorCodeRecordReader marks a failure constructing the record-segment
	// reader, excluding the UninitializedSegment case which is demoted to
	// "no segment side" rather than surfaced as an error (§7.5, RecordReaderError).
	ErrorCodeRecordReader ErrorCode = "RECORD_READER_ERROR"

	// ErrorCodeRegex marks an invalid regular expression pattern supplied to
	// a Regex/NotRegex predicate (§7.6, RegexError). NewRegexError always
	// assigns this code, not ErrorCodeInvalidArgument.
	ErrorCodeRegex ErrorCode = "REGEX_ERROR"
)
