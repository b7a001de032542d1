package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnauthenticated = errors.New("not authorized, no valid token")
var ErrForbidden = errors.New("access denied: admins only")
var ErrDuplicateCourse = errors.New("course code already exists")
var ErrCourseNotFound = errors.New("course not found")
var ErrCodeMismatch = errors.New("course code in body does not match URL")
var ErrUnsupportedMedia = errors.New("unsupported media type: image required")
var ErrStorage = errors.New("storage failure")

// FieldError identifies one offending field in a rejected payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail for a rejected payload. The
// wrapped request never reaches the store.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Storage wraps a backend error so callers can match it with
// errors.Is(err, ErrStorage) while keeping the underlying cause in the message.
func Storage(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
