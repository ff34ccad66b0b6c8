// Package errors provides error handling for starmatch.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	if err := loadDump(path); err != nil {
//	    return errors.Wrapf(err, "failed to load %s", path)
//	}
//
//	return errors.WithHint(err, "check data.catalogue_a in am.toml")
//
// Codec operations never return errors; an unparsable name or an out-of-range
// position is an expected absence, reported as a boolean or an Invalid value.
// Errors here are for the outer shell: files, feeds, databases and config.
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
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenDetails = crdb.FlattenDetails
)

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// Common sentinel errors. Wrap these with errors.Wrap() to add context while
// preserving the type for errors.Is().
var (
	// ErrNotFound indicates the requested system, region or file does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the caller passed arguments that cannot be used
	ErrInvalidRequest = New("invalid request")

	// ErrMalformedRecord indicates a dump row or feed message that could not be decoded
	ErrMalformedRecord = New("malformed record")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsMalformedRecordError checks if an error is or wraps ErrMalformedRecord
func IsMalformedRecordError(err error) bool {
	return err != nil && Is(err, ErrMalformedRecord)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}

// NewMalformedRecordError creates a malformed-record error with a formatted message
func NewMalformedRecordError(format string, args ...interface{}) error {
	return Wrapf(ErrMalformedRecord, format, args...)
}
