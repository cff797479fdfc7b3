package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)
	ErrProbeNotFound  = fmt.Errorf("%w: probe", ErrNotFound)
	ErrCacheNotFound  = fmt.Errorf("%w: results cache", ErrNotFound)

	// Input errors
	ErrEmptyCorpus   = errors.New("corpus contains no tokens")
	ErrColumnMissing = errors.New("required transcription column missing")
	ErrBadRecord     = errors.New("malformed transcription record")

	// Statistical errors
	ErrInsufficientData = errors.New("insufficient data for statistical test")
	ErrDegenerateTable  = errors.New("contingency table has fewer than two rows or columns")
)

// IsNotFound checks whether err is any not-found variant
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
