package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"time"
)

// Executor runs an invocation.
type Executor interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// Invocation describes a single run.
type Invocation struct {
	// Args is the program followed by its arguments.
	Args []string

	// Stdin is fed to the process. Nil means no input.
	Stdin []byte

	// Env is merged over the runner's environment.
	Env map[string]string

	// Dir overrides the runner's working directory.
	Dir string
}

// Result represents the result of a command execution.
type Result struct {
	// Stdout is the captured standard output
	Stdout []byte

	// Stderr is the captured standard error
	Stderr string

	// ExitCode is the exit code returned by the command
	ExitCode int

	// Duration is the wall time of the run
	Duration time.Duration
}

// Runner is the concrete Executor backed by os/exec.
type Runner struct {
	config *config
	stderr io.Writer
}

// New creates a Runner with the given defaults.
func New(opts ...Option) *Runner {
	r := &Runner{config: newConfig()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes inv. The process is killed when ctx is done or the runner's
// timeout elapses.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if len(inv.Args) == 0 || inv.Args[0] == "" {
		return nil, &ExecError{
			Command:  inv.Args,
			ExitCode: -1,
			Err:      osexec.ErrNotFound,
		}
	}

	if r.config.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = r.config.effectiveDir(inv.Dir)
	cmd.Env = r.config.environ(inv.Env)
	if inv.Stdin != nil {
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}

	stdout := newOutputCapture(nil)
	stderr := newOutputCapture(r.stderr)
	cmd.Stdout = stdout.Writer()
	cmd.Stderr = stderr.Writer()

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(err, ctxErr)
		}
		return result, &ExecError{
			Command:  inv.Args,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}

	return result, nil
}

// environ builds the process environment. Without inheritance the process
// sees only the configured variables.
func (c *config) environ(local map[string]string) []string {
	env := []string{}
	if c.inheritEnv {
		env = os.Environ()
	}
	for k, v := range c.effectiveEnv(local) {
		env = append(env, k+"="+v)
	}
	return env
}
