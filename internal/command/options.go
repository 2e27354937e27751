package command

import (
	"io"
	"time"
)

// config holds the defaults of a Runner. It is not modified after New.
type config struct {
	env           map[string]string
	dir           string
	inheritEnv    bool
	disableColors bool
	timeout       time.Duration
}

func newConfig() *config {
	return &config{env: make(map[string]string)}
}

// effectiveEnv merges the invocation's variables over the runner's.
func (c *config) effectiveEnv(local map[string]string) map[string]string {
	env := make(map[string]string, len(c.env)+len(local))

	for k, v := range c.env {
		env[k] = v
	}
	for k, v := range local {
		env[k] = v
	}

	if c.disableColors {
		env["NO_COLOR"] = "1"
		env["TERM"] = "dumb"
		env["CLICOLOR"] = "0"
		env["CLICOLOR_FORCE"] = "0"
		env["FORCE_COLOR"] = "0"
	}

	return env
}

// effectiveDir returns the invocation's directory, or the runner's.
func (c *config) effectiveDir(local string) string {
	if local != "" {
		return local
	}
	return c.dir
}

// Option configures a Runner.
type Option func(*Runner)

// WithEnv adds environment variables to every run.
func WithEnv(env map[string]string) Option {
	return func(r *Runner) {
		for k, v := range env {
			r.config.env[k] = v
		}
	}
}

// WithDir sets the default working directory.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.config.dir = dir
	}
}

// WithInheritEnv passes the parent process environment through.
func WithInheritEnv() Option {
	return func(r *Runner) {
		r.config.inheritEnv = true
	}
}

// WithDisableColors sets NO_COLOR=1, TERM=dumb and the other common
// color-disabling variables.
func WithDisableColors() Option {
	return func(r *Runner) {
		r.config.disableColors = true
	}
}

// WithTimeout bounds every run. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.config.timeout = timeout
	}
}

// WithStderr streams standard error to w while still capturing it.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		r.stderr = w
	}
}
