package builtin

import (
	"io"

	"github.com/jpikl/rew/internal/framing"
)

// runLineTransform frames stdin per cfg, applies transform to each
// record, and writes the result framed the same way. Shared by the
// single-record transform builtins (upper, lower, trim).
func runLineTransform(stdin io.Reader, stdout io.Writer, cfg framing.Config, transform func([]byte) []byte) error {
	scanner := cfg.NewScanner(stdin)
	for scanner.Scan() {
		if err := cfg.WriteRecord(stdout, transform(scanner.Bytes())); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ExtractHelp determines if help flags are present. It keeps args unchanged for backward compatibility.
func ExtractHelp(args []string) (bool, []string) {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true, args
		}
	}
	return false, args
}

// HandleHelp writes helpText to stdout when help requested and returns handled=true.
func HandleHelp(args []string, stdout io.Writer, helpText string) (handled bool, remaining []string) {
	help, a := ExtractHelp(args)
	if help {
		_, _ = stdout.Write([]byte(helpText))
		return true, a
	}
	return false, a
}
