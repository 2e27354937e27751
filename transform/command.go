package transform

import (
	"context"
	"errors"
	"time"

	"github.com/jmgilman/go/transformcache/cache"
	platformerrors "github.com/jmgilman/go/transformcache/errors"
	"github.com/jmgilman/go/transformcache/internal/command"
)

// Environment variables an engine process receives.
const (
	EnvScope    = "TRANSFORMCACHE_SCOPE"
	EnvArtifact = "TRANSFORMCACHE_ARTIFACT"
)

// maxStderrContext bounds the stderr excerpt attached to errors.
const maxStderrContext = 4096

// Command transforms artifacts by running an external engine. The engine
// reads the artifact on stdin and writes the transformed bytes to stdout. An
// empty stdout with exit status 0 means the artifact needs no
// transformation.
type Command struct {
	engine *command.Wrapper
	logger *cache.Logger
}

// CommandOption configures a Command.
type CommandOption func(*commandOptions)

type commandOptions struct {
	executor command.Executor
	runner   []command.Option
	logger   *cache.Logger
}

// WithExecutor replaces the process runner, mainly for tests.
func WithExecutor(executor command.Executor) CommandOption {
	return func(o *commandOptions) {
		o.executor = executor
	}
}

// WithEnv adds environment variables to every engine run.
func WithEnv(env map[string]string) CommandOption {
	return func(o *commandOptions) {
		o.runner = append(o.runner, command.WithEnv(env))
	}
}

// WithTimeout bounds each engine run.
func WithTimeout(timeout time.Duration) CommandOption {
	return func(o *commandOptions) {
		o.runner = append(o.runner, command.WithTimeout(timeout))
	}
}

// WithDir sets the engine's working directory.
func WithDir(dir string) CommandOption {
	return func(o *commandOptions) {
		o.runner = append(o.runner, command.WithDir(dir))
	}
}

// WithLogger sets the logger engine runs are reported to.
func WithLogger(logger *cache.Logger) CommandOption {
	return func(o *commandOptions) {
		o.logger = logger
	}
}

// NewCommand creates a Command running args. The engine inherits the parent
// environment with colors disabled.
func NewCommand(args []string, opts ...CommandOption) (*Command, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidConfig, "engine command is empty")
	}

	o := commandOptions{logger: cache.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	executor := o.executor
	if executor == nil {
		runnerOpts := append([]command.Option{command.WithInheritEnv(), command.WithDisableColors()}, o.runner...)
		executor = command.New(runnerOpts...)
	}

	return &Command{
		engine: command.NewWrapper(executor, args...),
		logger: o.logger.With("engine", args[0]),
	}, nil
}

// Transform implements cache.Transformer.
func (c *Command) Transform(ctx context.Context, scope cache.Scope, name string, input []byte) ([]byte, bool, error) {
	scopeID := cache.ScopeID(scope)
	res, err := c.engine.Run(ctx, command.Invocation{
		Stdin: input,
		Env: map[string]string{
			EnvScope:    scopeID,
			EnvArtifact: name,
		},
	})
	if err != nil {
		return nil, false, c.classify(err, scopeID, name)
	}

	c.logger.Debug(ctx, "engine finished",
		"artifact", name,
		"scope", scopeID,
		"output_size", len(res.Stdout),
		"duration", res.Duration)

	if len(res.Stdout) == 0 {
		return nil, false, nil
	}
	return res.Stdout, true, nil
}

func (c *Command) classify(err error, scopeID, name string) error {
	fields := map[string]interface{}{
		"artifact": name,
		"scope":    scopeID,
		"command":  c.engine.Args(),
	}

	var execErr *command.ExecError
	if errors.As(err, &execErr) && execErr.Started() {
		fields["exit_code"] = execErr.ExitCode
		if stderr := execErr.Stderr; stderr != "" {
			if len(stderr) > maxStderrContext {
				stderr = stderr[:maxStderrContext]
			}
			fields["stderr"] = stderr
		}
		return platformerrors.WrapWithContext(err, platformerrors.CodeTransformFailed,
			"engine rejected artifact "+name, fields)
	}

	return platformerrors.WrapWithContext(err, platformerrors.CodeExecutionFailed,
		"failed to run engine", fields)
}
