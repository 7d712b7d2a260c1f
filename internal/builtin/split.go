package builtin

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jpikl/rew/internal/framing"
)

const splitHelp = `split - split each input record on a separator into output records

Usage: split SEPARATOR

Emits zero or more output records per input record, demonstrating that
a column's record count need not match its input's.
`

// Split splits each input record on args[0] into zero or more output
// records, one per field.
func Split(args []string, stdin io.Reader, stdout io.Writer, cfg framing.Config) error {
	handled, args := HandleHelp(args, stdout, splitHelp)
	if handled {
		return nil
	}
	if len(args) < 1 {
		return fmt.Errorf("split: missing separator")
	}
	sep := []byte(args[0])

	scanner := cfg.NewScanner(stdin)
	for scanner.Scan() {
		for _, field := range bytes.Split(scanner.Bytes(), sep) {
			if err := cfg.WriteRecord(stdout, field); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
