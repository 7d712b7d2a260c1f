package builtin

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/jpikl/rew/internal/framing"
)

const seqHelp = `seq - emit a numeric sequence, ignoring stdin entirely

Usage: seq [START[..END]]

Examples:
  seq            emit 1, 2, 3, ... until the reader stops consuming
  seq 1..3       emit 1, 2, 3
  seq 5          emit 5, 6, 7, ... until the reader stops consuming
`

// Seq is the canonical generator builtin: it never reads stdin, so the
// classifier must prove it a generator by static name rather than by
// wiring it and watching for a read.
func Seq(args []string, stdin io.Reader, stdout io.Writer, cfg framing.Config) error {
	handled, args := HandleHelp(args, stdout, seqHelp)
	if handled {
		return nil
	}

	start, end, hasEnd, err := parseSeqRange(args)
	if err != nil {
		return fmt.Errorf("seq: %w", err)
	}

	for n := start; !hasEnd || n <= end; n++ {
		if err := cfg.WriteRecord(stdout, []byte(strconv.Itoa(n))); err != nil {
			if isBrokenPipe(err) {
				return nil
			}
			return err
		}
	}
	return nil
}

func parseSeqRange(args []string) (start, end int, hasEnd bool, err error) {
	if len(args) == 0 {
		return 1, 0, false, nil
	}
	spec := args[0]
	if i := strings.Index(spec, ".."); i >= 0 {
		start, err = strconv.Atoi(spec[:i])
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid range start %q", spec[:i])
		}
		end, err = strconv.Atoi(spec[i+2:])
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid range end %q", spec[i+2:])
		}
		return start, end, true, nil
	}
	start, err = strconv.Atoi(spec)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid start %q", spec)
	}
	return start, 0, false, nil
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
