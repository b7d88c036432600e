package errors

// IndexQueryError is returned when a metadata column index or the full-text
// n-gram index fails to answer a lookup (spec §7.1). It carries the code
// passed to NewIndexQueryError; the wrapped cause's code is not read.
type IndexQueryError struct {
	*baseError
	key      string
	operator string
}

func NewIndexQueryError(err error, code ErrorCode, msg string) *IndexQueryError {
	return &IndexQueryError{baseError: NewBaseError(err, code, msg)}
}

func (e *IndexQueryError) WithKey(key string) *IndexQueryError {
	e.key = key
	return e
}

func (e *IndexQueryError) WithOperator(op string) *IndexQueryError {
	e.operator = op
	return e
}

func (e *IndexQueryError) Key() string      { return e.key }
func (e *IndexQueryError) Operator() string { return e.operator }

// LogMaterializerError is returned when hydrating a collapsed log entry
// against the record segment fails (spec §7.2).
type LogMaterializerError struct {
	*baseError
	offsetID uint32
}

func NewLogMaterializerError(err error, msg string) *LogMaterializerError {
	return &LogMaterializerError{baseError: NewBaseError(err, ErrorCodeLogMaterializer, msg)}
}

func (e *LogMaterializerError) WithOffsetID(id uint32) *LogMaterializerError {
	e.offsetID = id
	return e
}

func (e *LogMaterializerError) OffsetID() uint32 { return e.offsetID }

// MetadataReaderError is returned when constructing the metadata-segment
// reader fails (spec §7.3).
type MetadataReaderError struct {
	*baseError
	segmentID string
}

func NewMetadataReaderError(err error, msg string) *MetadataReaderError {
	return &MetadataReaderError{baseError: NewBaseError(err, ErrorCodeMetadataReader, msg)}
}

func (e *MetadataReaderError) WithSegmentID(id string) *MetadataReaderError {
	e.segmentID = id
	return e
}

func (e *MetadataReaderError) SegmentID() string { return e.segmentID }

// RecordError is returned when a read against the record segment fails once
// the reader has been constructed (spec §7.4).
type RecordError struct {
	*baseError
	offsetID uint32
}

func NewRecordError(err error, msg string) *RecordError {
	return &RecordError{baseError: NewBaseError(err, ErrorCodeRecord, msg)}
}

func (e *RecordError) WithOffsetID(id uint32) *RecordError {
	e.offsetID = id
	return e
}

func (e *RecordError) OffsetID() uint32 { return e.offsetID }

// RecordReaderError is returned when constructing the record-segment reader
// fails for a reason other than the segment simply being uninitialized
// (spec §7.5). The uninitialized case is represented by ErrUninitializedSegment
// instead, and is never wrapped in a RecordReaderError.
type RecordReaderError struct {
	*baseError
	segmentID string
}

func NewRecordReaderError(err error, msg string) *RecordReaderError {
	return &RecordReaderError{baseError: NewBaseError(err, ErrorCodeRecordReader, msg)}
}

func (e *RecordReaderError) WithSegmentID(id string) *RecordReaderError {
	e.segmentID = id
	return e
}

func (e *RecordReaderError) SegmentID() string { return e.segmentID }

// RegexError is returned when a Regex/NotRegex predicate's pattern fails to
// parse as a regular expression (spec §7.6). Its code is always
// ErrorCodeRegex.
type RegexError struct {
	*baseError
	pattern string
}

func NewRegexError(err error, msg string) *RegexError {
	return &RegexError{baseError: NewBaseError(err, ErrorCodeRegex, msg)}
}

func (e *RegexError) WithPattern(pattern string) *RegexError {
	e.pattern = pattern
	return e
}

func (e *RegexError) Pattern() string { return e.pattern }
