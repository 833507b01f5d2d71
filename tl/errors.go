package tl

import (
	"fmt"

	"github.com/teranos/tlgen/errors"
)

// Statement-level parse errors.
var (
	// ErrEmpty indicates a statement with no content
	ErrEmpty = errors.New("empty definition")
	// ErrMissingName indicates a statement without a constructor name
	ErrMissingName = errors.New("missing definition name")
	// ErrMissingType indicates a statement without a valid result type
	ErrMissingType = errors.New("missing result type")
	// ErrNotImplemented indicates syntax the parser does not support
	ErrNotImplemented = errors.New("unsupported definition syntax")
	// ErrUnknownSeparator indicates a ---section--- marker other than types or functions
	ErrUnknownSeparator = errors.New("unknown section separator")
	// ErrInvalidID indicates a name#id suffix that is not a 32-bit hex number
	ErrInvalidID = errors.New("invalid definition id")
)

// Parameter-level parse errors.
var (
	ErrEmptyParam          = errors.New("empty parameter")
	ErrInvalidGeneric      = errors.New("unterminated generic argument")
	ErrParamNotImplemented = errors.New("unsupported parameter syntax")
	// ErrMissingDef indicates a malformed {X:Type} declaration or a !X
	// reference to an undeclared generic
	ErrMissingDef = errors.New("missing generic type definition")
)

// TypeDefError is returned by ParseParameter for a {X:Type} token. It is
// not a failure: the caller registers X as a generic type parameter.
type TypeDefError struct {
	Name string
}

func (e *TypeDefError) Error() string {
	return fmt.Sprintf("generic type definition {%s:Type}", e.Name)
}

// InvalidParamError wraps the failure of one parameter token.
type InvalidParamError struct {
	Param string
	Err   error
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %v", e.Param, e.Err)
}

func (e *InvalidParamError) Unwrap() error { return e.Err }

// StatementError ties a parse error to its position in the schema.
type StatementError struct {
	Line      int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }
