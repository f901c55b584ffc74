package errors

import (
	stdErrors "errors"
	"fmt"
)

// ResolutionError represents a failed directory lookup (the hotel list for a
// location could not be retrieved). The workflow degrades to an empty result
// set when it sees one of these.
type ResolutionError struct {
	LocationCode string
	StatusCode   int
	APIMessage   string // Error message from the directory provider if available
}

func (e *ResolutionError) Error() string {
	if e.APIMessage != "" {
		return fmt.Sprintf("resolving hotels for %q failed (HTTP %d): %s", e.LocationCode, e.StatusCode, e.APIMessage)
	}
	return fmt.Sprintf("resolving hotels for %q failed (HTTP %d)", e.LocationCode, e.StatusCode)
}

// NewResolutionError creates a directory lookup error
func NewResolutionError(locationCode string, statusCode int, apiMessage string) *ResolutionError {
	return &ResolutionError{
		LocationCode: locationCode,
		StatusCode:   statusCode,
		APIMessage:   apiMessage,
	}
}

// IsResolutionError checks if error is a ResolutionError
func IsResolutionError(err error) bool {
	var resErr *ResolutionError
	return stdErrors.As(err, &resErr)
}
