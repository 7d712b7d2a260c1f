package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jpikl/rew/internal/framing"
	"github.com/jpikl/rew/internal/pattern"
)

// fakeColumn replays a fixed list of records, then reports EndOfStream
// (or an error, if errAt is set) — used to drive the assembler
// without spawning any child processes.
type fakeColumn struct {
	records [][]byte
	pos     int
	errAt   error
}

func (c *fakeColumn) Next() ([]byte, bool, error) {
	if c.pos >= len(c.records) {
		if c.errAt != nil {
			return nil, false, c.errAt
		}
		return nil, false, nil
	}
	r := c.records[c.pos]
	c.pos++
	return r, true, nil
}

func literals(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestAssemblerRowCountLawMinimum(t *testing.T) {
	tmpl := pattern.Template{Segments: []pattern.Segment{
		{Kind: pattern.SegmentExpr},
		{Kind: pattern.SegmentLiteral, Literal: []byte(" ")},
		{Kind: pattern.SegmentExpr},
	}}
	columns := []Column{
		&fakeColumn{records: literals("a", "b", "c")},
		nil,
		&fakeColumn{records: literals("x", "y")},
	}

	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	err := runAssembler(ctx, tmpl, columns, framing.Default(), &out, cancel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "a x\nb y\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestAssemblerLiteralColumnNeverCaps(t *testing.T) {
	tmpl := pattern.Template{Segments: []pattern.Segment{
		{Kind: pattern.SegmentLiteral, Literal: []byte("prefix-")},
		{Kind: pattern.SegmentExpr},
	}}
	columns := []Column{nil, &fakeColumn{records: literals("1", "2")}}

	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	if err := runAssembler(ctx, tmpl, columns, framing.Default(), &out, cancel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "prefix-1\nprefix-2\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestAssemblerPropagatesColumnError(t *testing.T) {
	boom := errors.New("boom")
	tmpl := pattern.Template{Segments: []pattern.Segment{{Kind: pattern.SegmentExpr}}}
	columns := []Column{&fakeColumn{errAt: boom}}

	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	err := runAssembler(ctx, tmpl, columns, framing.Default(), &out, cancel)
	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IoError, got %v", err)
	}
}
