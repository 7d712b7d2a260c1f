package builtin

import (
	"bytes"
	"io"

	"github.com/jpikl/rew/internal/framing"
)

const trimHelp = `trim - trim leading and trailing whitespace from each input record

Usage: trim
`

// Trim trims leading/trailing whitespace from each input record.
func Trim(args []string, stdin io.Reader, stdout io.Writer, cfg framing.Config) error {
	if handled, _ := HandleHelp(args, stdout, trimHelp); handled {
		return nil
	}
	return runLineTransform(stdin, stdout, cfg, bytes.TrimSpace)
}
