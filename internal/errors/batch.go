package errors

import (
	stdErrors "errors"
	"fmt"
)

// BatchError reports a failed offer retrieval for one identifier slice.
// The slice bounds let a caller retry the exact same range; the scheduler
// does not advance its cursor past a failed slice.
type BatchError struct {
	Start int // index of the first identifier in the failed slice
	End   int // index one past the last identifier in the failed slice
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("offer batch [%d:%d] failed: %v", e.Start, e.End, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// NewBatchError creates a BatchError for the slice [start:end).
func NewBatchError(start, end int, err error) *BatchError {
	return &BatchError{Start: start, End: end, Err: err}
}

// IsBatchError checks if error is a BatchError
func IsBatchError(err error) bool {
	var batchErr *BatchError
	return stdErrors.As(err, &batchErr)
}
