package engine

import (
	"io"

	"github.com/jpikl/rew/internal/framing"
)

// Column is the row assembler's view of one template segment: a source
// of records that can be exhausted. Literal segments never exhaust, so
// they can never be the reason a run ends.
type Column interface {
	// Next returns the next record, or ok=false once the column is
	// exhausted, or a non-nil err if reading failed.
	Next() (record []byte, ok bool, err error)
}

// literalColumn is the synthetic reader for a Literal segment: it
// returns the same bytes forever and is never the reason a run ends.
type literalColumn struct {
	bytes []byte
}

func newLiteralColumn(b []byte) *literalColumn {
	return &literalColumn{bytes: b}
}

func (c *literalColumn) Next() ([]byte, bool, error) {
	return c.bytes, true, nil
}

// streamScanner is the minimal surface pipeColumn needs from a
// bufio.Scanner, so tests can substitute a fake.
type streamScanner interface {
	Scan() bool
	Bytes() []byte
	Err() error
}

// pipeColumn wraps an Expr's last stage's stdout, framed per cfg, and
// exposes one record per Next call.
type pipeColumn struct {
	scanner streamScanner
}

func newPipeColumn(cfg framing.Config, r io.Reader) *pipeColumn {
	return &pipeColumn{scanner: cfg.NewScanner(r)}
}

func (c *pipeColumn) Next() ([]byte, bool, error) {
	if !c.scanner.Scan() {
		return nil, false, c.scanner.Err()
	}
	record := c.scanner.Bytes()
	out := make([]byte, len(record))
	copy(out, record)
	return out, true, nil
}
