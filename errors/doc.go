// Package errors provides structured errors for the transform cache.
//
// Errors carry a code, a retry classification, optional context metadata, and
// the wrapped cause. They interoperate with the standard library: errors.Is,
// errors.As and errors.Unwrap all traverse the chain.
//
// # Creating Errors
//
//	err := errors.New(errors.CodeInvalidConfig, "cache mode FILE requires a base directory")
//	err = errors.WithContext(err, "mode", "FILE")
//
// # Wrapping Errors
//
//	if err := fs.MkdirAll(dir, 0o755); err != nil {
//	    return errors.Wrapf(err, errors.CodeStorage, "failed to create %s", dir)
//	}
//
// # Classification
//
// Each code has a default classification. Storage and availability errors are
// retryable; configuration, input and transformation errors are permanent.
// Wrapping a PlatformError keeps the classification of the inner error.
//
//	if errors.IsRetryable(err) {
//	    // try again later
//	}
//
// The cache itself never surfaces storage errors to callers (a failed read is a
// miss, a failed write is dropped). These types are used for initialization
// failures and for errors raised by transformer implementations.
package errors
