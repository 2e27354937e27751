package errors

import (
	stderrors "errors"
	"fmt"
)

// Wrap wraps err with a code and message. The cause stays reachable through
// errors.Is and errors.As. If err already contains a PlatformError its
// classification is kept; otherwise the default for code is used.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err := fs.MkdirAll(root, 0o755); err != nil {
//	    return errors.Wrap(err, errors.CodeStorage, "failed to create cache root")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	if err == nil {
		return nil
	}

	return &platformError{
		code:           code,
		classification: inheritClassification(err, code),
		message:        message,
		cause:          err,
	}
}

// Wrapf is Wrap with a formatted message.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches a copy of ctx in one step.
//
// Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	return &platformError{
		code:           code,
		classification: inheritClassification(err, code),
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}

func inheritClassification(err error, code ErrorCode) ErrorClassification {
	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Classification()
	}
	return getDefaultClassification(code)
}
