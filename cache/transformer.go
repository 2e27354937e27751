package cache

import "context"

// Transformer rewrites an artifact's bytes.
//
// The boolean result is false when no transformation applies and the caller
// should use the input unchanged. Errors are the transformer's own; the cache
// never produces or alters them.
type Transformer interface {
	Transform(ctx context.Context, scope Scope, name string, input []byte) ([]byte, bool, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(ctx context.Context, scope Scope, name string, input []byte) ([]byte, bool, error)

// Transform implements Transformer.
func (f TransformerFunc) Transform(ctx context.Context, scope Scope, name string, input []byte) ([]byte, bool, error) {
	return f(ctx, scope, name, input)
}
