// Package cache memoizes the output of an expensive, non-deterministic
// transformation so that transforming the same artifact twice within a run
// yields the same bytes.
//
// Entries are addressed by a Key: the identifier of the isolation scope the
// artifact was loaded in plus the artifact's dotted name. Two stores implement
// the Resolver capability:
//
//   - MemoryResolver keeps entries in a concurrent map for the life of the process.
//   - FileResolver keeps entries under a per-run directory that is removed on
//     normal process exit.
//
// A Decorator wraps any Transformer with get-before-compute and
// put-after-compute semantics:
//
//	resolver, err := cache.NewResolver(cfg, cache.DefaultLocator())
//	if err != nil {
//	    return err
//	}
//	t := cache.NewDecorator(resolver).Decorate(engine)
//	out, ok, err := t.Transform(ctx, scope, "com.example.Foo", input)
//
// Storage failures never reach the caller. A failed read is a miss and a
// failed write is dropped; both are logged and counted in Metrics.
package cache
