package engine

import (
	"context"
	"io"

	"github.com/jpikl/rew/internal/framing"
	"golang.org/x/sync/errgroup"
)

// DefaultQueueSize is the per-consumer bounded queue depth.
const DefaultQueueSize = 1

// branch is one stdin-consuming first stage's fan-out destination.
type branch struct {
	queue chan []byte
	dead  chan struct{}
	w     io.WriteCloser
}

// Tee is the single reader of the process's stdin, fanning each record
// out to every stdin-consuming pipeline's first stage with bounded,
// per-consumer back-pressure.
type Tee struct {
	cfg      framing.Config
	branches []*branch
}

// NewTee builds a tee over writers, one per stdin-consuming Expr, in
// template order. queueSize is the per-branch bound B.
func NewTee(cfg framing.Config, writers []io.WriteCloser, queueSize int) *Tee {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	t := &Tee{cfg: cfg}
	for _, w := range writers {
		t.branches = append(t.branches, &branch{
			queue: make(chan []byte, queueSize),
			dead:  make(chan struct{}),
			w:     w,
		})
	}
	return t
}

// Start launches the tee's goroutines into g: one writer loop per
// branch, plus the fan-out loop reading stdin. If there are no
// branches, stdin is never touched.
func (t *Tee) Start(ctx context.Context, g *errgroup.Group, stdin io.Reader) {
	if len(t.branches) == 0 {
		return
	}
	for _, b := range t.branches {
		b := b
		g.Go(func() error { return t.runBranch(b) })
	}
	g.Go(func() error { return t.fanOut(ctx, stdin) })
}

// runBranch drains one branch's queue, writing each record framed to
// its child's stdin, until the queue is closed by fanOut's EOF
// handling. A write failure marks the branch dead so fanOut stops
// blocking on it — the consumer died early and the remaining branches
// must keep flowing.
func (t *Tee) runBranch(b *branch) error {
	defer b.w.Close()
	for record := range b.queue {
		if err := t.cfg.WriteRecord(b.w, record); err != nil {
			// fanOut's select never sends to this branch again once
			// dead is closed, so any records still buffered are
			// simply abandoned; nothing else drains this queue.
			close(b.dead)
			return nil
		}
	}
	return nil
}

// fanOut reads stdin record by record and hands each to every live
// branch, in order, blocking on a full queue until space frees up.
func (t *Tee) fanOut(ctx context.Context, stdin io.Reader) error {
	scanner := t.cfg.NewScanner(stdin)
	for scanner.Scan() {
		record := scanner.Bytes()
		for _, b := range t.branches {
			cp := make([]byte, len(record))
			copy(cp, record)
			select {
			case b.queue <- cp:
			case <-b.dead:
			case <-ctx.Done():
				t.closeAll()
				return nil
			}
		}
	}
	t.closeAll()
	if err := scanner.Err(); err != nil {
		return &IoError{Op: "read stdin", Cause: err}
	}
	return nil
}

// closeAll closes every branch's queue, in left-to-right order, which
// signals its writer goroutine to close the child's stdin pipe. A
// branch that already died from a write error has no one left ranging
// over its queue, so closing it here is still safe — it just speeds up
// garbage collection.
func (t *Tee) closeAll() {
	for _, b := range t.branches {
		close(b.queue)
	}
}
