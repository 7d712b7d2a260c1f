package engine

import (
	"context"
	"io"

	"github.com/jpikl/rew/internal/framing"
	"github.com/jpikl/rew/internal/pattern"
)

// runAssembler is the row assembler's core loop: on each
// tick it pulls one record from every column in template order,
// concatenating them with the interleaved literals, and stops as soon
// as any column is exhausted. cancel is called exactly once, the
// moment the row stops advancing, so the supervisor can begin tearing
// down every child regardless of which column caused it.
func runAssembler(ctx context.Context, tmpl pattern.Template, columns []Column, cfg framing.Config, stdout io.Writer, cancel context.CancelFunc) error {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		var row []byte
		for i, seg := range tmpl.Segments {
			if seg.Kind == pattern.SegmentLiteral {
				row = append(row, seg.Literal...)
				continue
			}
			record, ok, err := columns[i].Next()
			if err != nil {
				return &IoError{Op: "read column", Cause: err}
			}
			if !ok {
				return nil
			}
			row = append(row, record...)
		}

		if err := cfg.WriteRecord(stdout, row); err != nil {
			return &IoError{Op: "write stdout", Cause: err}
		}
	}
}
