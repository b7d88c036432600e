package errors

// baseError is the shared cause/code/detail payload every predicate-evaluation
// error type in this package embeds. A concrete type (IndexQueryError,
// RecordError, ...) adds only the fields specific to the component it
// represents and exposes them through its own With* builders; baseError
// carries the parts common to all of them so Code, Details and Unwrap behave
// the same way across the whole taxonomy.
type baseError struct {
	cause   error
	message string
	code    ErrorCode
	details map[string]any
}

// NewBaseError wraps cause under code with the given message. Every
// NewXxxError constructor in this package calls through to this, so the
// taxonomy's codes are always assigned at construction rather than patched in
// later.
func NewBaseError(cause error, code ErrorCode, message string) *baseError {
	return &baseError{cause: cause, code: code, message: message}
}

// WithDetail attaches a key/value pair of diagnostic context (an offset, a
// segment id, a pattern) to the error. The map is allocated on first use so
// an error built without any detail pays nothing for the field.
func (b *baseError) WithDetail(key string, value any) *baseError {
	if b.details == nil {
		b.details = make(map[string]any)
	}
	b.details[key] = value
	return b
}

// Error satisfies the error interface with the message set at construction.
func (b *baseError) Error() string {
	return b.message
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As can see through a
// baseError to whatever failed underneath it.
func (b *baseError) Unwrap() error {
	return b.cause
}

// Code reports the taxonomy code this error was constructed with.
func (b *baseError) Code() ErrorCode {
	return b.code
}

// Details returns the accumulated detail map, or nil if WithDetail was never
// called. Callers must treat the result as read-only.
func (b *baseError) Details() map[string]any {
	return b.details
}
