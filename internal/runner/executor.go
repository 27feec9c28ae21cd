package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Executor runs step commands in an in-process POSIX shell. Commands are
// parsed and interpreted by mvdan/sh, so stdout and stderr can be captured
// without spawning an intermediate /bin/sh.
type Executor struct {
	Dir string // working directory for every command; empty means inherit
}

// NewExecutor creates an executor rooted at dir.
func NewExecutor(dir string) *Executor {
	return &Executor{Dir: dir}
}

// Run executes one command with the given environment and timeout and
// returns its combined output and exit status. A zero timeout means no
// limit. The returned error is non-nil only for infrastructure failures
// (unparseable command, interpreter setup); a plain non-zero exit is
// reported through the exit code alone.
func (e *Executor) Run(ctx context.Context, name, command string, env []string, timeout time.Duration) (output string, exitCode int, timedOut bool, err error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), name)
	if err != nil {
		return "", 1, false, fmt.Errorf("parse command: %w", err)
	}

	var buf bytes.Buffer
	runner, err := interp.New(
		interp.Dir(e.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &buf, &buf),
	)
	if err != nil {
		return "", 1, false, fmt.Errorf("create interpreter: %w", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runErr := runner.Run(ctx, prog)
	output = buf.String()
	if runErr == nil {
		return output, 0, false, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, 1, true, nil
	}
	var exit interp.ExitStatus
	if errors.As(runErr, &exit) {
		return output, int(exit), false, nil
	}
	return output, 1, false, fmt.Errorf("run command: %w", runErr)
}
