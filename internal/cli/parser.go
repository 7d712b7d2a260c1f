// Package cli implements rew's command-line front end: flag parsing for
// the `x` composition subcommand and the interactive pattern REPL.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jpikl/rew/internal/framing"
)

// Common errors for control flow, mirroring how flag parsing short-circuits
// into a dedicated action rather than an engine run.
var (
	ErrShowHelp    = errors.New("show help")
	ErrShowVersion = errors.New("show version")
)

// Config holds the parsed `rew x` invocation.
type Config struct {
	Escape      byte
	Shell       string
	Null        bool
	BufMode     string
	BufSize     int
	Interactive bool

	// Pattern is every positional PATTERN argument joined with a single
	// space into one effective pattern.
	Pattern string
}

// ParseArgs parses the argument vector following `rew x`.
func ParseArgs(args []string) (*Config, error) {
	var config Config
	var escape, bufMode string

	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&escape, "escape", `\`, "escape character introducing pattern escape sequences")
	fs.StringVar(&config.Shell, "shell", "", "shell interpreter for '#'-marked expressions (default: $SHELL or /bin/sh)")
	fs.BoolVar(&config.Null, "null", false, "use NUL as the record delimiter")
	fs.StringVar(&bufMode, "buf-mode", "line", "built-in stdout buffering: line or full")
	fs.IntVar(&config.BufSize, "buf-size", framing.DefaultBufSize, "maximum record size in bytes")
	fs.BoolVar(&config.Interactive, "interactive", false, "run the pattern against interactively typed lines")

	var showHelp, showVersion bool
	fs.BoolVar(&showHelp, "help", false, "show help")
	fs.BoolVar(&showHelp, "h", false, "show help")
	fs.BoolVar(&showVersion, "version", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if showHelp {
		return nil, ErrShowHelp
	}
	if showVersion {
		return nil, ErrShowVersion
	}

	if len(escape) != 1 {
		return nil, fmt.Errorf("--escape must be exactly one byte, got %q", escape)
	}
	config.Escape = escape[0]

	switch bufMode {
	case "line", "full":
		config.BufMode = bufMode
	default:
		return nil, fmt.Errorf("--buf-mode must be 'line' or 'full', got %q", bufMode)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	config.Pattern = strings.Join(fs.Args(), " ")
	if config.Pattern == "" && !config.Interactive {
		return nil, fmt.Errorf("at least one PATTERN argument is required")
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.BufSize < framing.MinBufSize {
		return fmt.Errorf("--buf-size must be >= %d, got %d", framing.MinBufSize, config.BufSize)
	}
	return nil
}

// Framing builds the immutable framing.Config this invocation wants,
// starting from the environment (so REW_NULL and SHELL set a baseline a
// child re-invocation would otherwise inherit) and applying this
// process's own flags on top. The buffer mode and buffer size always
// come from the flags, or from their defaults when the flags are not
// given; REW_BUF_MODE and REW_BUF_SIZE in the environment are checked
// for validity but do not change the result.
func (c *Config) Framing() (framing.Config, error) {
	cfg, err := framing.FromEnvironment(framing.Default())
	if err != nil {
		return framing.Config{}, err
	}
	cfg.EscapeChar = c.Escape
	if c.Shell != "" {
		cfg.Shell = c.Shell
	}
	if c.Null {
		cfg.Delimiter = 0
		cfg.CRLF = false
	}
	if c.BufMode == "full" {
		cfg.BufMode = framing.FullMode
	} else {
		cfg.BufMode = framing.LineMode
	}
	cfg.BufSize = c.BufSize
	if err := cfg.Validate(); err != nil {
		return framing.Config{}, err
	}
	return cfg, nil
}

// ShowHelp prints `rew x`'s usage text.
func ShowHelp() {
	fmt.Print(`rew x - compose parallel shell pipelines over stdin

USAGE:
    rew x [OPTIONS] PATTERN...

    Multiple PATTERN arguments are joined with a single space into one
    effective pattern before parsing.

OPTIONS:
    --escape CHAR        escape character (default: \)
    --shell SHELL        shell for '#'-marked expressions (default: $SHELL or /bin/sh)
    --null               use NUL as the record delimiter
    --buf-mode MODE      built-in stdout buffering: line or full (default: line)
    --buf-size N         maximum record size in bytes
    --interactive        run the pattern against interactively typed lines
    -h, --help           show this help message
    --version            show version information

PATTERN SYNTAX:
    {pipeline}           one output column, built from a | -separated pipeline
    {:pipeline}          the pipeline does not read stdin
    {!prog args}         a pipeline stage is an external program, not a built-in
    {#script}            the remainder of the expression is a shell script
    \n \r \t \0 \\ \{ \} \|   escape sequences inside literals and tokens

EXAMPLES:
    echo hi | rew x '{upper}'
    printf 'a\nb\n' | rew x '{seq}. {upper}'
    rew x '{seq 1..3} {: !seq 1 3}'
`)
}
