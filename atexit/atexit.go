// Package atexit runs registered cleanup hooks when a process terminates normally.
//
// Go has no equivalent of a JVM shutdown hook, so programs opt in by calling Run
// (usually deferred in main) or by exiting through Exit. Hooks run in reverse
// registration order, at most once per registration.
//
//	func main() {
//	    defer atexit.Run()
//	    ...
//	}
//
// Hooks are not run when the process is killed.
package atexit

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Func is a cleanup hook.
type Func func() error

// Handle identifies a registered hook.
type Handle struct {
	registry *Registry
	id       uint64
}

// Unregister removes the hook. It is a no-op after the hook ran or was removed.
func (h Handle) Unregister() {
	if h.registry == nil {
		return
	}
	h.registry.unregister(h.id)
}

type hook struct {
	id   uint64
	name string
	fn   Func
}

// Registry holds hooks. The zero value is ready to use.
type Registry struct {
	mu     sync.Mutex
	nextID uint64
	hooks  []hook
}

// Register adds fn under name and returns a handle for removing it.
func (r *Registry) Register(name string, fn Func) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.hooks = append(r.hooks, hook{id: r.nextID, name: name, fn: fn})
	return Handle{registry: r, id: r.nextID}
}

func (r *Registry) unregister(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, h := range r.hooks {
		if h.id == id {
			r.hooks = append(r.hooks[:i], r.hooks[i+1:]...)
			return
		}
	}
}

// Len returns the number of pending hooks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}

// Run executes and removes all pending hooks, last registered first. Every
// hook runs even if an earlier one fails; the failures are joined.
func (r *Registry) Run() error {
	r.mu.Lock()
	pending := r.hooks
	r.hooks = nil
	r.mu.Unlock()

	var errs []error
	for i := len(pending) - 1; i >= 0; i-- {
		if err := pending[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", pending[i].name, err))
		}
	}
	return errors.Join(errs...)
}

var defaultRegistry Registry

// Register adds fn to the process-wide registry.
func Register(name string, fn Func) Handle {
	return defaultRegistry.Register(name, fn)
}

// Pending returns the number of hooks in the process-wide registry.
func Pending() int {
	return defaultRegistry.Len()
}

// Run executes the process-wide hooks.
func Run() error {
	return defaultRegistry.Run()
}

// Exit runs the process-wide hooks and terminates with code.
func Exit(code int) {
	if err := Run(); err != nil {
		fmt.Fprintf(os.Stderr, "atexit: %v\n", err)
	}
	os.Exit(code)
}
