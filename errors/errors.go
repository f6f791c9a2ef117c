// Package errors provides error handling for standoff.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Marks, so wrapped failures still match their sentinel
//   - Hints and details for CLI reporting
//
// Usage:
//
//	// Wrap with context
//	if err := store.ScopeOf(ctx, db, id); err != nil {
//	    return errors.Wrapf(err, "normalization lookup for %s", id)
//	}
//
//	// Classify a failure without losing the original message
//	return errors.Mark(err, errors.ErrStoreUnavailable)
//
//	// Check errors
//	if errors.Is(err, errors.ErrStoreUnavailable) {
//	    // abort the conversion
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
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// GetStack returns the reportable stack trace attached to an error, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors for the conversion taxonomy.
// Wrap or Mark these to add context while keeping errors.Is() working.
var (
	// ErrConfigUnavailable indicates the ontology document is missing or unparseable.
	// Fatal: the conversion is aborted and produces no output.
	ErrConfigUnavailable = New("ontology config unavailable")

	// ErrStoreUnavailable indicates a normalization store lookup failed.
	// Fatal: the conversion is aborted rather than emitting dangling shadow links.
	ErrStoreUnavailable = New("normalization store unavailable")

	// ErrMalformedRecord indicates an annotation line that cannot be turned into a record.
	// Non-fatal: the line is skipped and the conversion continues.
	ErrMalformedRecord = New("malformed record")

	// ErrUploadFailed indicates the triplestore rejected or did not answer an upload
	ErrUploadFailed = New("triplestore upload failed")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsConfigUnavailable checks if an error is or wraps ErrConfigUnavailable
func IsConfigUnavailable(err error) bool {
	return err != nil && Is(err, ErrConfigUnavailable)
}

// IsStoreUnavailable checks if an error is or wraps ErrStoreUnavailable
func IsStoreUnavailable(err error) bool {
	return err != nil && Is(err, ErrStoreUnavailable)
}

// IsMalformedRecord checks if an error is or wraps ErrMalformedRecord
func IsMalformedRecord(err error) bool {
	return err != nil && Is(err, ErrMalformedRecord)
}

// NewMalformedRecordError creates a malformed-record error with a formatted message
func NewMalformedRecordError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrMalformedRecord)
}

// WrapStoreUnavailable classifies a store failure, keeping the cause's message
func WrapStoreUnavailable(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrStoreUnavailable)
}

// WrapConfigUnavailable classifies an ontology loading failure
func WrapConfigUnavailable(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrConfigUnavailable)
}
