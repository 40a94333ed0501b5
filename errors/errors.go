// Package errors provides error handling for cxxbind.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for operator-facing messages
//   - Combining independent failures into one error
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := load(path); err != nil {
//	    return errors.Wrapf(err, "failed to load %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "regenerate the AST with a newer frontend")
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnsupported) {
//	    // skip the declaration, keep going
//	}
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
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Combining independent failures
var (
	CombineErrors       = crdb.CombineErrors
	WithSecondaryError  = crdb.WithSecondaryError
	AssertionFailedf    = crdb.AssertionFailedf
	IsAssertionFailure  = crdb.IsAssertionFailure
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinel errors for the translation engine.
// Use these with errors.Is() for type-safe error checking.
var (
	// ErrUnsupported marks a construct the translator or a TypeMap cannot
	// render yet. It aborts a single declaration, never the run.
	ErrUnsupported = New("unsupported construct")

	// ErrMalformedAST indicates the AST handed over by the frontend is missing
	// data the translator needs (unnamed typedef, dangling reference...)
	ErrMalformedAST = New("malformed AST")

	// ErrInvalidPattern indicates an editor or transform pattern is not a valid
	// regular expression
	ErrInvalidPattern = New("invalid pattern")
)

// UnsupportedConstructError names the construct kind and the qualified native
// name that could not be translated.
type UnsupportedConstructError struct {
	Construct string
	Name      string
}

func (e *UnsupportedConstructError) Error() string {
	if e.Name == "" {
		return "unsupported construct: " + e.Construct
	}
	return "unsupported construct: " + e.Construct + " (" + e.Name + ")"
}

// Is makes every UnsupportedConstructError match ErrUnsupported.
func (e *UnsupportedConstructError) Is(target error) bool {
	return target == ErrUnsupported
}

// Unsupported creates an UnsupportedConstructError with a stack trace.
func Unsupported(construct, name string) error {
	return WithStack(&UnsupportedConstructError{Construct: construct, Name: name})
}

// IsUnsupported checks if an error is or wraps ErrUnsupported
func IsUnsupported(err error) bool {
	return err != nil && Is(err, ErrUnsupported)
}

// IsMalformedAST checks if an error is or wraps ErrMalformedAST
func IsMalformedAST(err error) bool {
	return err != nil && Is(err, ErrMalformedAST)
}

// NewMalformedASTError creates a malformed-AST error with a formatted message
func NewMalformedASTError(format string, args ...interface{}) error {
	return Wrap(ErrMalformedAST, Newf(format, args...).Error())
}

// NewInvalidPatternError wraps a regexp compile failure as ErrInvalidPattern
func NewInvalidPatternError(pattern string, cause error) error {
	return WithHintf(Wrapf(Mark(cause, ErrInvalidPattern), "invalid pattern %q", pattern),
		"patterns use Go regexp syntax (RE2)")
}
