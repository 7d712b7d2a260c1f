package engine

import (
	"context"
	"io"

	"github.com/jpikl/rew/internal/execspawn"
	"github.com/jpikl/rew/internal/framing"
	"github.com/jpikl/rew/internal/pattern"
	"golang.org/x/sync/errgroup"
)

// Engine runs one parsed, classified Template to completion: it spawns
// every Expr's pipeline, tees stdin to the ones that consume it, and
// assembles rows on stdout until termination.
type Engine struct {
	Launcher *execspawn.Launcher
	Config   framing.Config
}

// New builds an Engine around a freshly resolved Launcher.
func New(cfg framing.Config) (*Engine, error) {
	l, err := execspawn.NewLauncher()
	if err != nil {
		return nil, err
	}
	return &Engine{Launcher: l, Config: cfg}, nil
}

// Run spawns tmpl's children, wires the tee and row assembler, and
// blocks until the run terminates. It returns the process exit code to
// use and the first error observed, if any.
func (e *Engine) Run(ctx context.Context, tmpl pattern.Template, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	columns := make([]Column, len(tmpl.Segments))
	var children []*execspawn.Child
	var stdinWriters []io.WriteCloser
	var stderrClosers []io.Closer
	mux := newStderrMux(stderr)
	stageIndex := 0

	for i, seg := range tmpl.Segments {
		if seg.Kind == pattern.SegmentLiteral {
			columns[i] = newLiteralColumn(seg.Literal)
			continue
		}
		col, w, err := spawnExpr(ctx, e.Launcher, e.Config, seg, stageIndex, mux, &children, &stderrClosers)
		if err != nil {
			killAll(children)
			reap(children)
			closeAll(stderrClosers)
			return EngineExitCode, err
		}
		columns[i] = col
		if w != nil {
			stdinWriters = append(stdinWriters, w)
		}
		stageIndex += len(seg.Pipeline.Stages)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	tee := NewTee(e.Config, stdinWriters, DefaultQueueSize)
	tee.Start(gctx, g, stdin)

	g.Go(func() error {
		return runAssembler(gctx, tmpl, columns, e.Config, stdout, cancel)
	})

	runErr := g.Wait()

	failure := reap(children)
	closeAll(stderrClosers)

	if runErr != nil {
		return EngineExitCode, runErr
	}
	if failure != nil {
		return failure.ExitCode, failure
	}
	return 0, nil
}
