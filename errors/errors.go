// Package errors provides error handling for tlgen.
//
// This package re-exports github.com/cockroachdb/errors so that parser,
// generator and runtime errors all carry stack traces, user hints and
// detail annotations while remaining comparable with Is/As.
//
// Usage:
//
//	// Wrap with context
//	if err := emit(w, def); err != nil {
//	    return errors.Wrapf(err, "failed to emit %s", def.Name)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run tlgen generate to refresh the output")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
	Join         = crdb.Join
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors shared across packages.
var (
	// ErrInvalidConfig indicates a configuration value failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrOutputMismatch indicates checked-in generated code is stale
	ErrOutputMismatch = New("generated output is out of date")

	// ErrClosed indicates an operation on a closed session or watcher
	ErrClosed = New("closed")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = New("operation timed out")
)

// IsOutputMismatch checks if an error is or wraps ErrOutputMismatch
func IsOutputMismatch(err error) bool {
	return err != nil && Is(err, ErrOutputMismatch)
}

// IsInvalidConfig checks if an error is or wraps ErrInvalidConfig
func IsInvalidConfig(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// WrapInvalidConfig marks err as a configuration error, keeping its message
func WrapInvalidConfig(err error, context string) error {
	return Wrap(Mark(err, ErrInvalidConfig), context)
}
