// Package execspawn turns one pattern.Stage into a running child with
// its stdin/stdout/stderr wired into the pipeline graph, propagating
// the framing configuration via the environment exactly as every
// built-in expects to receive it.
package execspawn

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"

	"github.com/jpikl/rew/internal/framing"
	"github.com/jpikl/rew/internal/pattern"
)

// SpawnError is returned when a child could not be started at all.
type SpawnError struct {
	StageIndex int
	Cause      error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn: stage %d: %v", e.StageIndex, e.Cause)
}

func (e *SpawnError) Unwrap() error { return e.Cause }

// Child is a running stage. Stdout is present for every stage; Stdin is
// non-nil only when it was launched with LaunchOpts.WantStdinPipe, i.e.
// a first stage that the tee feeds directly.
type Child struct {
	cmd    *exec.Cmd
	Stdout io.ReadCloser
	Stdin  io.WriteCloser

	killed atomic.Bool
}

// Wait blocks until the child exits and returns its exit code. A
// negative code indicates the process was killed by a signal.
func (c *Child) Wait() (int, error) {
	err := c.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if asExitError(err, &exitErr) {
		return exitErr.ExitCode(), err
	}
	return -1, err
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

// Kill sends a termination signal to the child's process group on
// platforms that support it, falling back to killing only the direct
// child elsewhere (see launcher_unix.go / launcher_other.go). It marks
// the child as supervisor-killed so Killed reports true regardless of
// the exit code Wait eventually observes.
func (c *Child) Kill() error {
	c.killed.Store(true)
	if c.cmd.Process == nil {
		return nil
	}
	return killProcessGroup(c.cmd)
}

// Killed reports whether Kill was ever called on this child. A
// non-zero or signal exit code following a supervisor-initiated kill
// is an artifact of teardown, not a failure the child reported itself.
func (c *Child) Killed() bool {
	return c.killed.Load()
}

// Launcher resolves Builtin stages to the running binary and External
// stages via PATH, and spawns Shell stages through cfg.Shell.
type Launcher struct {
	// SelfPath is the path used to re-invoke the current binary for
	// Builtin stages. It is resolved once at startup via os.Executable
	// and cached.
	SelfPath string
}

// NewLauncher resolves the running binary's path for builtin
// re-invocation.
func NewLauncher() (*Launcher, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("execspawn: cannot resolve own executable: %w", err)
	}
	return &Launcher{SelfPath: self}, nil
}

// LaunchOpts selects how a stage's stdin is wired. At most one of the
// two fields is meaningful: WantStdinPipe asks the launcher to open a
// pipe the caller writes to directly (used for a first stage the tee
// feeds); StdinReader wires an already-open reader, typically the
// previous stage's Stdout. Neither set means the child inherits no
// stdin at all (a generator, or a ':'-marked non-consumer).
type LaunchOpts struct {
	StdinReader   io.Reader
	WantStdinPipe bool
}

// Launch starts stage wired per opts, writing the child's stderr to the
// given writer. It returns a Child whose Stdout must be drained and whose
// Wait must eventually be called.
func (l *Launcher) Launch(ctx context.Context, stageIndex int, stage pattern.Stage, cfg framing.Config, opts LaunchOpts, stderr io.Writer) (*Child, error) {
	var cmd *exec.Cmd

	switch stage.Kind {
	case pattern.StageBuiltin:
		argv, err := stage.Tokenize()
		if err != nil {
			return nil, &SpawnError{StageIndex: stageIndex, Cause: fmt.Errorf("bad quoting: %w", err)}
		}
		if len(argv) == 0 {
			return nil, &SpawnError{StageIndex: stageIndex, Cause: fmt.Errorf("empty builtin stage")}
		}
		cmd = exec.CommandContext(ctx, l.SelfPath, argv...)

	case pattern.StageExternal:
		argv, err := stage.Tokenize()
		if err != nil {
			return nil, &SpawnError{StageIndex: stageIndex, Cause: fmt.Errorf("bad quoting: %w", err)}
		}
		if len(argv) == 0 {
			return nil, &SpawnError{StageIndex: stageIndex, Cause: fmt.Errorf("empty external stage")}
		}
		path, err := exec.LookPath(argv[0])
		if err != nil {
			return nil, &SpawnError{StageIndex: stageIndex, Cause: err}
		}
		cmd = exec.CommandContext(ctx, path, argv[1:]...)

	case pattern.StageShell:
		shell := cfg.Shell
		if shell == "" {
			return nil, &SpawnError{StageIndex: stageIndex, Cause: fmt.Errorf("no shell configured for '#' expression")}
		}
		cmd = exec.CommandContext(ctx, shell, "-c", stage.Script)

	default:
		return nil, &SpawnError{StageIndex: stageIndex, Cause: fmt.Errorf("unknown stage kind %v", stage.Kind)}
	}

	cmd.Env = append(os.Environ(), cfg.Environ()...)
	cmd.Stderr = stderr
	if opts.StdinReader != nil {
		cmd.Stdin = opts.StdinReader
	}
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{StageIndex: stageIndex, Cause: err}
	}

	var stdin io.WriteCloser
	if opts.WantStdinPipe {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return nil, &SpawnError{StageIndex: stageIndex, Cause: err}
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{StageIndex: stageIndex, Cause: err}
	}

	return &Child{cmd: cmd, Stdout: stdout, Stdin: stdin}, nil
}
