package transform

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/transformcache/cache"
)

func upper() cache.Transformer {
	return Func(func(input []byte) ([]byte, bool, error) {
		return bytes.ToUpper(input), true, nil
	})
}

func suffix(s string) cache.Transformer {
	return Func(func(input []byte) ([]byte, bool, error) {
		return append(append([]byte{}, input...), s...), true, nil
	})
}

func TestIdentity(t *testing.T) {
	input := []byte("abc")
	out, ok, err := Identity().Transform(context.Background(), nil, "pkg.Type", input)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, input, out)

	out[0] = 'z'
	assert.Equal(t, []byte("abc"), input)
}

func TestPassThrough(t *testing.T) {
	out, ok, err := PassThrough().Transform(context.Background(), nil, "pkg.Type", []byte("abc"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	t.Run("stages compose in order", func(t *testing.T) {
		out, ok, err := Chain(upper(), suffix("!")).Transform(ctx, nil, "pkg.Type", []byte("abc"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "ABC!", string(out))
	})

	t.Run("pass-through stages are skipped", func(t *testing.T) {
		out, ok, err := Chain(PassThrough(), suffix("?"), PassThrough()).Transform(ctx, nil, "pkg.Type", []byte("abc"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "abc?", string(out))
	})

	t.Run("nothing transformed", func(t *testing.T) {
		out, ok, err := Chain(PassThrough(), PassThrough()).Transform(ctx, nil, "pkg.Type", []byte("abc"))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, out)
	})

	t.Run("error stops the chain", func(t *testing.T) {
		boom := errors.New("boom")
		reached := false
		failing := Func(func([]byte) ([]byte, bool, error) { return nil, false, boom })
		after := Func(func([]byte) ([]byte, bool, error) { reached = true; return nil, false, nil })

		_, _, err := Chain(upper(), failing, after).Transform(ctx, nil, "pkg.Type", []byte("abc"))
		assert.Same(t, boom, err)
		assert.False(t, reached)
	})

	t.Run("empty chain", func(t *testing.T) {
		_, ok, err := Chain().Transform(ctx, nil, "pkg.Type", []byte("abc"))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
