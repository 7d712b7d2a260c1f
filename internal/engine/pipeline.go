package engine

import (
	"context"
	"io"

	"github.com/jpikl/rew/internal/execspawn"
	"github.com/jpikl/rew/internal/framing"
	"github.com/jpikl/rew/internal/pattern"
)

// spawnExpr launches every stage of one Expr segment's Pipeline,
// left to right, wiring each stage's stdin to the previous stage's
// stdout. The first stage's stdin is left unwired unless seg consumes
// stdin, in which case the launcher opens a pipe whose write end is
// returned for the tee to feed. Every spawned Child is appended to
// *children so the supervisor can wait on and kill it later; every
// stage gets its own writer out of mux so concurrent stages never
// interleave mid-line on the shared stderr stream, and that writer is
// appended to *stderrClosers so its trailing partial line gets flushed
// once the stage exits.
func spawnExpr(ctx context.Context, l *execspawn.Launcher, cfg framing.Config, seg pattern.Segment, stageIndexBase int, mux *stderrMux, children *[]*execspawn.Child, stderrClosers *[]io.Closer) (*pipeColumn, io.WriteCloser, error) {
	var upstream io.Reader
	var stdinWriter io.WriteCloser

	for j, stage := range seg.Pipeline.Stages {
		opts := execspawn.LaunchOpts{}
		if j == 0 {
			opts.WantStdinPipe = seg.ConsumesStdin
		} else {
			opts.StdinReader = upstream
		}

		stageStderr := mux.writer()
		child, err := l.Launch(ctx, stageIndexBase+j, stage, cfg, opts, stageStderr)
		if err != nil {
			stageStderr.Close()
			return nil, nil, err
		}
		*children = append(*children, child)
		*stderrClosers = append(*stderrClosers, stageStderr)

		if j == 0 && opts.WantStdinPipe {
			stdinWriter = child.Stdin
		}
		upstream = child.Stdout
	}

	return newPipeColumn(cfg, upstream), stdinWriter, nil
}
