// Package command runs external processes that read a payload on stdin and
// write a result on stdout.
//
// Runner is safe for concurrent use: everything that varies between runs is
// passed in an Invocation, and the Runner itself only holds defaults.
//
//	runner := command.New(
//		command.WithInheritEnv(),
//		command.WithDisableColors(),
//		command.WithTimeout(30*time.Second),
//	)
//	res, err := runner.Run(ctx, command.Invocation{
//		Args:  []string{"engine", "--instrument"},
//		Stdin: input,
//		Env:   map[string]string{"ENGINE_TARGET": name},
//	})
//
// A Wrapper prepends fixed arguments to every invocation, which is
// convenient for a tool invoked repeatedly with varying trailing arguments:
//
//	engine := command.NewWrapper(runner, "engine", "--instrument")
//	res, err := engine.Run(ctx, command.Invocation{Stdin: input})
//
// Non-zero exits and start failures are returned as *ExecError together with
// whatever output was captured.
package command
