package domain

import (
	"errors"
	"fmt"
)

// ErrIngestion is the single failure kind for weather ingestion. Network
// failures, non-success statuses and malformed payloads all match it.
var ErrIngestion = errors.New("weather ingestion failed")

// IngestionError wraps the underlying cause of a failed weather fetch.
// The cause is kept for logging; callers should only test for ErrIngestion.
type IngestionError struct {
	Op  string
	Err error
}

func (e *IngestionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrIngestion, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrIngestion, e.Op, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Is reports ErrIngestion as a match so errors.Is works through wrapping.
func (e *IngestionError) Is(target error) bool { return target == ErrIngestion }

// ValidationError reports an input value outside its documented domain.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
