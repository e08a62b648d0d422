// Package errs defines the error kinds from spec.md §7 as plain wrapped
// stdlib errors, in the teacher's idiom (fmt.Errorf("%w", ...) chains, no
// bespoke error-code framework).
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying each kind from spec.md §7. Use errors.Is to
// classify an error returned from a StorageProvider or detector.
var (
	// ErrAuthExpired means the provider rejected the access token (HTTP 401
	// or equivalent). The caller should prompt for re-authentication; the
	// scan aborts.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrProvider covers other provider failures (rate limit, transient
	// network, server error). At the file level it is recorded per-file
	// and the scan continues; at the listing level it aborts the scan.
	ErrProvider = errors.New("storage provider error")

	// ErrValidation marks a malformed request (e.g. empty folder list),
	// rejected before any work starts.
	ErrValidation = errors.New("validation error")

	// ErrExtraction marks a text-extraction failure for one file. Never
	// propagated past the extractor boundary; the file proceeds with
	// text = null.
	ErrExtraction = errors.New("extraction error")

	// ErrHash marks a per-file hashing failure. Should not occur in
	// practice; the file is dropped from detection.
	ErrHash = errors.New("hash error")
)

// AuthExpired wraps err as an authentication-failure error.
func AuthExpired(err error) error {
	return fmt.Errorf("%w: %w", ErrAuthExpired, err)
}

// Provider wraps err as a provider-level error, annotated with op.
func Provider(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrProvider, op, err)
}

// Validation builds a validation error from a message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Extraction wraps err as an extraction error for the named file.
func Extraction(fileName string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExtraction, fileName, err)
}

// Hash wraps err as a hashing error for the named file.
func Hash(fileName string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrHash, fileName, err)
}

// IsAuthExpired reports whether err (or anything it wraps) is an
// authentication-failure error.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// IsValidation reports whether err (or anything it wraps) is a validation
// error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
