package builtin

import (
	"bytes"
	"io"

	"github.com/jpikl/rew/internal/framing"
)

const upperHelp = `upper - upper-case each input record

Usage: upper
`

// Upper upper-cases each input record.
func Upper(args []string, stdin io.Reader, stdout io.Writer, cfg framing.Config) error {
	if handled, _ := HandleHelp(args, stdout, upperHelp); handled {
		return nil
	}
	return runLineTransform(stdin, stdout, cfg, bytes.ToUpper)
}
