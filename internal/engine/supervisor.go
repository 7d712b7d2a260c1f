package engine

import (
	"io"
	"time"

	"github.com/jpikl/rew/internal/execspawn"
)

// shutdownGrace is how long a child gets to exit on its own once its
// stdin has been closed before the supervisor kills it outright.
const shutdownGrace = 500 * time.Millisecond

// reap waits on every spawned child, killing any that is still running
// shutdownGrace after the row assembler stopped advancing. It always
// waits on every child it started, even the ones it kills, so none are
// left unreaped once the run returns. The reported failure is the
// first non-zero *self*-exit observed, in spawn order — a child the
// supervisor killed is excluded regardless of the exit code Wait
// reports for it, since a signal-terminated process reports -1 there
// and that's teardown, not a failure the child chose.
func reap(children []*execspawn.Child) *ChildFailure {
	results := make(chan childResult, len(children))
	for i, c := range children {
		i, c := i, c
		go func() {
			done := make(chan struct{})
			var code int
			var err error
			go func() {
				code, err = c.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(shutdownGrace):
				_ = c.Kill()
				<-done
			}
			results <- childResult{stageIndex: i, code: code, err: err, killed: c.Killed()}
		}()
	}

	var first *ChildFailure
	for range children {
		r := <-results
		if r.killed {
			continue
		}
		if r.code != 0 && (first == nil || r.stageIndex < first.StageIndex) {
			first = &ChildFailure{StageIndex: r.stageIndex, ExitCode: r.code}
		}
	}
	return first
}

type childResult struct {
	stageIndex int
	code       int
	err        error
	killed     bool
}

// killAll sends a termination signal to every child still running,
// used when a spawn failure forces an immediate teardown before reap
// would otherwise give each child its grace period.
func killAll(children []*execspawn.Child) {
	for _, c := range children {
		_ = c.Kill()
	}
}

// closeAll flushes every stage's muxed stderr writer once its child
// has been reaped, so a trailing line with no terminating newline
// still reaches the shared stderr stream.
func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
