package errors

// ErrorCode identifies a category of failure.
// Codes are strings so they read well in logs.
type ErrorCode string

const (
	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvalidInput indicates a caller supplied malformed input, such as an
	// artifact name that cannot be mapped to a cache path.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates the cache was configured in a way it cannot run with.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeStorage indicates the backing store could not be read or written.
	CodeStorage ErrorCode = "STORAGE_ERROR"

	// CodeTransformFailed indicates the wrapped transformation rejected its input.
	CodeTransformFailed ErrorCode = "TRANSFORM_FAILED"

	// CodeExecutionFailed indicates an external process could not be run.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeUnavailable indicates a required resource is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// CodeInternal indicates a bug or an invariant violation.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown is used for errors that carry no code.
	CodeUnknown ErrorCode = "UNKNOWN"
)
