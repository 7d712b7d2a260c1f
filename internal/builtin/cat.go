package builtin

import (
	"io"

	"github.com/jpikl/rew/internal/framing"
)

const catHelp = `cat - copy each input record to output unchanged

Usage: cat
`

// Cat copies each input record to output unchanged. It is also the
// implicit stage behind an empty pattern expression, {}.
func Cat(args []string, stdin io.Reader, stdout io.Writer, cfg framing.Config) error {
	if handled, _ := HandleHelp(args, stdout, catHelp); handled {
		return nil
	}
	scanner := cfg.NewScanner(stdin)
	for scanner.Scan() {
		if err := cfg.WriteRecord(stdout, scanner.Bytes()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
