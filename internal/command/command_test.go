package command

import (
	"bytes"
	"context"
	"errors"
	osexec "os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Stdin(t *testing.T) {
	r := New(WithInheritEnv())
	res, err := r.Run(context.Background(), Invocation{
		Args:  []string{"cat"},
		Stdin: []byte{0x00, 0xCA, 0xFE},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xCA, 0xFE}, res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunner_Env(t *testing.T) {
	r := New(WithEnv(map[string]string{"GLOBAL_VAR": "global", "SHARED": "runner"}))
	res, err := r.Run(context.Background(), Invocation{
		Args: []string{"/bin/sh", "-c", `printf '%s %s %s' "$GLOBAL_VAR" "$LOCAL_VAR" "$SHARED"`},
		Env:  map[string]string{"LOCAL_VAR": "local", "SHARED": "invocation"},
	})
	require.NoError(t, err)
	assert.Equal(t, "global local invocation", string(res.Stdout))
}

func TestRunner_NoInheritedEnv(t *testing.T) {
	t.Setenv("TRANSFORMCACHE_TEST_PARENT", "leaked")

	res, err := New().Run(context.Background(), Invocation{
		Args: []string{"/bin/sh", "-c", `printf '%s' "$TRANSFORMCACHE_TEST_PARENT"`},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Stdout)
}

func TestRunner_DisableColors(t *testing.T) {
	res, err := New(WithDisableColors()).Run(context.Background(), Invocation{
		Args: []string{"/bin/sh", "-c", `printf '%s' "$NO_COLOR"`},
	})
	require.NoError(t, err)
	assert.Equal(t, "1", string(res.Stdout))
}

func TestRunner_Dir(t *testing.T) {
	dir := t.TempDir()
	r := New(WithInheritEnv(), WithDir("/"))

	res, err := r.Run(context.Background(), Invocation{Args: []string{"pwd"}, Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, strings.TrimSpace(string(res.Stdout)))

	res, err = r.Run(context.Background(), Invocation{Args: []string{"pwd"}})
	require.NoError(t, err)
	assert.Equal(t, "/", strings.TrimSpace(string(res.Stdout)))
}

func TestRunner_Failure(t *testing.T) {
	var stderr bytes.Buffer
	r := New(WithInheritEnv(), WithStderr(&stderr))

	res, err := r.Run(context.Background(), Invocation{
		Args: []string{"/bin/sh", "-c", "echo partial; echo broken >&2; exit 3"},
	})
	require.Error(t, err)
	require.NotNil(t, res)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 3, execErr.ExitCode)
	assert.True(t, execErr.Started())
	assert.Equal(t, "broken\n", execErr.Stderr)
	assert.Equal(t, "partial\n", string(res.Stdout))
	assert.Equal(t, "broken\n", stderr.String())
}

func TestRunner_NoArgs(t *testing.T) {
	_, err := New().Run(context.Background(), Invocation{})
	require.Error(t, err)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.False(t, execErr.Started())
	assert.True(t, errors.Is(err, osexec.ErrNotFound))
}

func TestRunner_NotFound(t *testing.T) {
	_, err := New().Run(context.Background(), Invocation{Args: []string{"definitely-not-a-real-binary-xyz"}})
	require.Error(t, err)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, -1, execErr.ExitCode)
}

func TestRunner_Timeout(t *testing.T) {
	r := New(WithInheritEnv(), WithTimeout(50*time.Millisecond))

	_, err := r.Run(context.Background(), Invocation{Args: []string{"sleep", "5"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRunner_Concurrent(t *testing.T) {
	r := New(WithInheritEnv())
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			in := []byte(strings.Repeat("x", i+1))
			res, err := r.Run(context.Background(), Invocation{Args: []string{"cat"}, Stdin: in})
			assert.NoError(t, err)
			assert.Equal(t, in, res.Stdout)
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
