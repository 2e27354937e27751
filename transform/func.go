package transform

import (
	"context"

	"github.com/jmgilman/go/transformcache/cache"
)

// Func adapts a function that only needs the artifact bytes.
func Func(fn func(input []byte) ([]byte, bool, error)) cache.Transformer {
	return cache.TransformerFunc(func(_ context.Context, _ cache.Scope, _ string, input []byte) ([]byte, bool, error) {
		return fn(input)
	})
}

// Identity returns a copy of every input as its output.
func Identity() cache.Transformer {
	return Func(func(input []byte) ([]byte, bool, error) {
		return append([]byte{}, input...), true, nil
	})
}

// PassThrough never transforms anything.
func PassThrough() cache.Transformer {
	return Func(func([]byte) ([]byte, bool, error) {
		return nil, false, nil
	})
}

// Chain runs transformers in order, feeding each the previous output. A stage
// that does not transform leaves the bytes as they were. The result is
// present if any stage transformed; the first error stops the chain.
func Chain(stages ...cache.Transformer) cache.Transformer {
	return cache.TransformerFunc(func(ctx context.Context, scope cache.Scope, name string, input []byte) ([]byte, bool, error) {
		current := input
		transformed := false

		for _, stage := range stages {
			out, ok, err := stage.Transform(ctx, scope, name, current)
			if err != nil {
				return nil, false, err
			}
			if ok {
				current = out
				transformed = true
			}
		}

		if !transformed {
			return nil, false, nil
		}
		return current, true, nil
	})
}
