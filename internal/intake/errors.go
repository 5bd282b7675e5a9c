package intake

import "fmt"

// Validation error codes.
const (
	CodeRequired   = "required"
	CodeInvalid    = "invalid_format"
	CodeTooLong    = "too_long"
	CodeOutOfRange = "out_of_range"
	CodeNotAllowed = "not_allowed"
	CodeBadLength  = "invalid_length"
)

// ValidationError reports the first rule a submission failed.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("intake: %s: %s", e.Field, e.Message)
}

func newError(field, code, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)}
}
