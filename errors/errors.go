package errors

// PlatformError is an error with a code, a classification and optional context.
type PlatformError interface {
	error

	// Code returns the error code.
	Code() ErrorCode

	// Classification returns whether the error is retryable.
	Classification() ErrorClassification

	// Message returns the message without the code prefix or cause.
	Message() string

	// Context returns a copy of the attached metadata, or nil.
	Context() map[string]interface{}

	// Unwrap returns the wrapped cause, or nil.
	Unwrap() error
}
