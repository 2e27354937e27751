package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Decorator adds caching to transformers. A decorated transformer looks the
// artifact up before computing and stores what it computed afterwards:
//
//   - a hit is returned without invoking the wrapped transformer
//   - a miss invokes it; present output is stored and returned
//   - absent output is returned as is and nothing is stored
//   - errors are returned unchanged and nothing is stored
//
// Concurrent misses for one key each compute and store unless
// WithSingleflight is set; the last store wins.
type Decorator struct {
	resolver Resolver
	logger   *Logger
	metrics  *Metrics
	group    *singleflight.Group
}

// DecoratorOption configures a Decorator.
type DecoratorOption func(*Decorator)

// WithDecoratorLogger sets the decorator's logger.
func WithDecoratorLogger(logger *Logger) DecoratorOption {
	return func(d *Decorator) {
		d.logger = logger
	}
}

// WithDecoratorMetrics sets where computations and pass-throughs are
// counted. Defaults to the resolver's metrics when it exposes them.
func WithDecoratorMetrics(metrics *Metrics) DecoratorOption {
	return func(d *Decorator) {
		d.metrics = metrics
	}
}

// WithSingleflight collapses concurrent misses for the same key into one
// computation whose result every caller receives.
func WithSingleflight() DecoratorOption {
	return func(d *Decorator) {
		d.group = &singleflight.Group{}
	}
}

// NewDecorator creates a Decorator backed by resolver.
func NewDecorator(resolver Resolver, opts ...DecoratorOption) *Decorator {
	d := &Decorator{resolver: resolver}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	if d.logger == nil {
		d.logger = NewNopLogger()
	}
	if d.metrics == nil {
		if mp, ok := resolver.(metricsProvider); ok {
			d.metrics = mp.Metrics()
		} else {
			d.metrics = NewMetrics()
		}
	}
	return d
}

// Resolver returns the backing resolver.
func (d *Decorator) Resolver() Resolver {
	return d.resolver
}

// Metrics returns the metrics the decorator records into.
func (d *Decorator) Metrics() *Metrics {
	return d.metrics
}

// Decorate returns t with caching applied.
func (d *Decorator) Decorate(t Transformer) Transformer {
	return &cachingTransformer{decorator: d, next: t}
}

// DecorateFunc is Decorate for a plain function.
func (d *Decorator) DecorateFunc(fn TransformerFunc) Transformer {
	return d.Decorate(fn)
}

type cachingTransformer struct {
	decorator *Decorator
	next      Transformer
}

type transformResult struct {
	output []byte
	ok     bool
}

// Transform implements Transformer.
func (c *cachingTransformer) Transform(ctx context.Context, scope Scope, name string, input []byte) ([]byte, bool, error) {
	d := c.decorator
	key := NewKey(scope, name)

	if data, ok := d.resolver.Get(ctx, key); ok {
		return data, true, nil
	}

	if d.group == nil {
		return c.compute(ctx, key, scope, name, input)
	}

	v, err, shared := d.group.Do(key.String(), func() (interface{}, error) {
		// Another flight may have stored the entry between our miss and now.
		if data, ok := d.resolver.Get(ctx, key); ok {
			return transformResult{output: data, ok: true}, nil
		}
		out, ok, err := c.compute(ctx, key, scope, name, input)
		return transformResult{output: out, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}

	res := v.(transformResult)
	if shared && res.ok {
		return cloneBytes(res.output), true, nil
	}
	return res.output, res.ok, nil
}

func (c *cachingTransformer) compute(ctx context.Context, key Key, scope Scope, name string, input []byte) ([]byte, bool, error) {
	d := c.decorator
	logger := d.logger.WithOperation(OpTransform).WithKey(key)

	d.metrics.RecordComputation()
	out, ok, err := c.next.Transform(ctx, scope, name, input)
	if err != nil {
		logger.Debug(ctx, "transformation failed", "error", err.Error())
		return nil, false, err
	}
	if !ok {
		d.metrics.RecordPassThrough()
		logger.Debug(ctx, "no transformation applied")
		return nil, false, nil
	}

	d.resolver.Put(ctx, key, out)
	return out, true, nil
}
