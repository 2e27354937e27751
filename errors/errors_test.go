package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidConfig, "unknown cache mode")

	require.Equal(t, CodeInvalidConfig, err.Code())
	require.Equal(t, ClassificationPermanent, err.Classification())
	require.Equal(t, "unknown cache mode", err.Message())
	require.Equal(t, "[INVALID_CONFIGURATION] unknown cache mode", err.Error())
	require.Nil(t, err.Context())
	require.Nil(t, err.Unwrap())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidInput, "artifact name %q is empty", "")
	require.Equal(t, `[INVALID_INPUT] artifact name "" is empty`, err.Error())
}

func TestGetDefaultClassification(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want ErrorClassification
	}{
		{name: "storage is retryable", code: CodeStorage, want: ClassificationRetryable},
		{name: "unavailable is retryable", code: CodeUnavailable, want: ClassificationRetryable},
		{name: "invalid config is permanent", code: CodeInvalidConfig, want: ClassificationPermanent},
		{name: "transform failure is permanent", code: CodeTransformFailed, want: ClassificationPermanent},
		{name: "unmapped code is permanent", code: ErrorCode("SOMETHING_ELSE"), want: ClassificationPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, getDefaultClassification(tt.code))
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		require.Nil(t, Wrap(nil, CodeStorage, "ignored"))
		require.Nil(t, Wrapf(nil, CodeStorage, "ignored %d", 1))
		require.Nil(t, WrapWithContext(nil, CodeStorage, "ignored", nil))
	})

	t.Run("preserves chain", func(t *testing.T) {
		err := Wrap(fs.ErrPermission, CodeStorage, "failed to create cache root")

		require.True(t, stderrors.Is(err, fs.ErrPermission))
		require.Equal(t, fs.ErrPermission, err.Unwrap())
		require.Equal(t, "[STORAGE_ERROR] failed to create cache root: permission denied", err.Error())
		require.True(t, err.Classification().IsRetryable())
	})

	t.Run("inherits inner classification", func(t *testing.T) {
		inner := New(CodeInvalidConfig, "no base directory")
		err := Wrap(inner, CodeUnavailable, "file cache unavailable")

		require.Equal(t, CodeUnavailable, err.Code())
		require.Equal(t, ClassificationPermanent, err.Classification())
	})

	t.Run("wrapf formats", func(t *testing.T) {
		err := Wrapf(fmt.Errorf("boom"), CodeExecutionFailed, "engine %s failed", "asm")
		require.Equal(t, "engine asm failed", err.Message())
	})

	t.Run("with context copies map", func(t *testing.T) {
		ctx := map[string]interface{}{"dir": "/tmp/cache"}
		err := WrapWithContext(fs.ErrExist, CodeStorage, "mkdir", ctx)
		ctx["dir"] = "mutated"

		require.Equal(t, "/tmp/cache", err.Context()["dir"])
	})
}

func TestWithContext(t *testing.T) {
	t.Run("adds fields", func(t *testing.T) {
		err := New(CodeTransformFailed, "engine rejected input")
		err = WithContext(err, "artifact", "com.example.Foo")
		err = WithContext(err, "scope", "00000000")

		require.Equal(t, map[string]interface{}{
			"artifact": "com.example.Foo",
			"scope":    "00000000",
		}, err.Context())
		require.Equal(t, CodeTransformFailed, err.Code())
	})

	t.Run("converts plain errors", func(t *testing.T) {
		plain := fmt.Errorf("plain")
		err := WithContext(plain, "k", "v")

		require.Equal(t, CodeUnknown, err.Code())
		require.True(t, stderrors.Is(err, plain))
	})

	t.Run("context is immutable", func(t *testing.T) {
		err := WithContext(New(CodeInternal, "x"), "k", "v")
		got := err.Context()
		got["k"] = "changed"

		require.Equal(t, "v", err.Context()["k"])
	})

	t.Run("nil", func(t *testing.T) {
		require.Nil(t, WithContext(nil, "k", "v"))
		require.Nil(t, WithContextMap(nil, nil))
		require.Nil(t, WithClassification(nil, ClassificationRetryable))
	})
}

func TestWithClassification(t *testing.T) {
	err := WithClassification(New(CodeInvalidConfig, "bad"), ClassificationRetryable)
	require.True(t, IsRetryable(err))
	require.Equal(t, CodeInvalidConfig, err.Code())
}

func TestHelpers(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(CodeStorage, "disk full"))

	require.Equal(t, CodeStorage, GetCode(wrapped))
	require.True(t, IsRetryable(wrapped))
	require.Equal(t, CodeUnknown, GetCode(nil))
	require.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain")))
	require.Equal(t, ClassificationPermanent, GetClassification(nil))
	require.False(t, IsRetryable(fmt.Errorf("plain")))

	var platformErr PlatformError
	require.True(t, As(wrapped, &platformErr))
	require.True(t, Is(wrapped, platformErr))
}
