package errors

import "fmt"

// New creates a PlatformError classified by the default for code.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidConfig, "unknown cache mode")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}
