package eval

import "fmt"

// RuntimeErrorKind enumerates spec.md §7's runtime error taxonomy,
// distinct from the analyzer's diagnostics.Code taxonomy: these are
// produced only as the Err arm of ControlFlow and abort execution at
// first occurrence (spec.md §7's "Propagation policy").
type RuntimeErrorKind string

const (
	ErrUndefinedVariable  RuntimeErrorKind = "undefined_variable"
	ErrNotCallable        RuntimeErrorKind = "not_callable"
	ErrTypeError          RuntimeErrorKind = "type_error"
	ErrArgumentCount      RuntimeErrorKind = "argument_count_mismatch"
	ErrIndexOutOfBounds   RuntimeErrorKind = "index_out_of_bounds"
	ErrPropertyNotFound   RuntimeErrorKind = "property_not_found"
	ErrDivisionByZero     RuntimeErrorKind = "division_by_zero"
	ErrUserCustom         RuntimeErrorKind = "user_custom"
	ErrInternal           RuntimeErrorKind = "internal"
	ErrInvalidCast        RuntimeErrorKind = "invalid_cast"
)

// RuntimeError is the Err(RuntimeErrorKind) arm's payload, an ordinary Go
// error so it composes with the rest of the standard library.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func newErr(kind RuntimeErrorKind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
