// Package transform provides cache.Transformer implementations: an adapter
// for an external engine process, function adapters, and composition.
//
// Combined with a cache.Decorator, an engine runs at most once per artifact
// and scope for the life of the cache:
//
//	engine, err := transform.NewCommand([]string{"instrumenter", "--stdin"})
//	if err != nil {
//	    return err
//	}
//	t := decorator.Decorate(engine)
package transform
