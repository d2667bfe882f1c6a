package domain

import "errors"

var (
	// ErrSourceUnavailable means the primary source failed and the local
	// fallback could not fill in either.
	ErrSourceUnavailable = errors.New("request source unavailable")
	// ErrInvalidCriteria marks filter criteria that failed validation,
	// e.g. an unknown status value or an unparseable date bound.
	ErrInvalidCriteria = errors.New("invalid filter criteria")
	// ErrSnapshotNotFound means the local snapshot file does not exist.
	ErrSnapshotNotFound = errors.New("snapshot file not found")
)
