package command

import "context"

// Wrapper prepends fixed arguments to every invocation of an Executor.
type Wrapper struct {
	executor Executor
	args     []string
}

// NewWrapper creates a Wrapper running args followed by each invocation's
// own arguments. The executor may be any implementation, including test
// doubles.
func NewWrapper(executor Executor, args ...string) *Wrapper {
	return &Wrapper{
		executor: executor,
		args:     append([]string(nil), args...),
	}
}

// Run implements Executor.
func (w *Wrapper) Run(ctx context.Context, inv Invocation) (*Result, error) {
	full := make([]string, 0, len(w.args)+len(inv.Args))
	full = append(full, w.args...)
	full = append(full, inv.Args...)
	inv.Args = full
	return w.executor.Run(ctx, inv)
}

// Args returns the prepended arguments.
func (w *Wrapper) Args() []string {
	return append([]string(nil), w.args...)
}
