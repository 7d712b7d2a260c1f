// Package builtin holds rew's built-in text-processing commands. Their
// internal transform logic is incidental; what matters to the
// composition engine is their process contract: read delimiter-framed
// records from stdin (unless they are generators), write
// delimiter-framed records to stdout, and return a non-nil error to
// signal a non-zero exit.
package builtin

import (
	"io"

	"github.com/jpikl/rew/internal/framing"
)

// CommandFunc is the signature every built-in implements. cfg carries
// the record delimiter and buffer size so every built-in frames records
// identically regardless of which delimiter the engine was configured
// with.
type CommandFunc func(args []string, stdin io.Reader, stdout io.Writer, cfg framing.Config) error

// Descriptor is the registry entry the classify package consults to
// decide an expression's stdin-consumption.
type Descriptor struct {
	Run CommandFunc
	// Generator marks a builtin that never reads stdin.
	Generator bool
}

// Registry is the closed, static table of built-in commands. It is the
// single source of truth shared by the CLI dispatcher (direct
// invocation), the Launcher (re-invocation as a child), and the
// classify package (generator-ness).
var Registry = map[string]Descriptor{
	"cat":   {Run: Cat},
	"upper": {Run: Upper},
	"lower": {Run: Lower},
	"trim":  {Run: Trim},
	"seq":   {Run: Seq, Generator: true},
	"split": {Run: Split},
}

// Names returns the registered builtin names, in no particular order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	return names
}
