package repo

import "errors"

var (
	// ErrNotFound covers both "row absent" and "row outside the caller's
	// scope" so handlers cannot leak which one occurred.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidToken is returned for an unknown or already consumed
	// approval token. Deliberately one error for both cases.
	ErrInvalidToken = errors.New("invalid or used token")
	// ErrBadRecord marks a stored row that fails schema validation
	// (e.g. unknown role). Fail closed rather than defaulting.
	ErrBadRecord = errors.New("malformed record")
	// ErrConflict is returned for unique-constraint violations.
	ErrConflict = errors.New("record already exists")
)
