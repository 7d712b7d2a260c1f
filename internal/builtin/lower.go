package builtin

import (
	"bytes"
	"io"

	"github.com/jpikl/rew/internal/framing"
)

const lowerHelp = `lower - lower-case each input record

Usage: lower
`

// Lower lower-cases each input record.
func Lower(args []string, stdin io.Reader, stdout io.Writer, cfg framing.Config) error {
	if handled, _ := HandleHelp(args, stdout, lowerHelp); handled {
		return nil
	}
	return runLineTransform(stdin, stdout, cfg, bytes.ToLower)
}
