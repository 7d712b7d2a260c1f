package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jpikl/rew/internal/classify"
	"github.com/jpikl/rew/internal/engine"
	"github.com/jpikl/rew/internal/framing"
	"github.com/jpikl/rew/internal/pattern"
)

// RunInteractive parses patternText once, then re-runs it against one
// typed line at a time: each line is fed to a freshly spawned engine
// run scoped to that single record, and the assembled row is printed.
// Ctrl-D ends the session; Ctrl-C abandons the current line and
// returns to the prompt.
func RunInteractive(ctx context.Context, patternText string, cfg framing.Config, stdout, stderr io.Writer) error {
	tmpl, err := pattern.Parse(patternText, cfg.EscapeChar)
	if err != nil {
		return err
	}
	classify.Classify(&tmpl)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rew> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		if err := evalLine(ctx, tmpl, cfg, line, stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "rew: %v\n", err)
		}
	}
}

// evalLine spawns a fresh Engine run scoped to exactly one input
// record: a stdin-consuming column sees line once, then EOF. The
// assembled row goes to stdout; anything the line's children write to
// their own stderr goes to the REPL's real stderr, never mixed into
// the row output.
func evalLine(ctx context.Context, tmpl pattern.Template, cfg framing.Config, line string, stdout, stderr io.Writer) error {
	e, err := engine.New(cfg)
	if err != nil {
		return err
	}
	stdin := strings.NewReader(line + string(cfg.Delimiter))
	var out bytes.Buffer
	code, err := e.Run(ctx, tmpl, stdin, &out, stderr)
	io.Copy(stdout, &out)
	if code != 0 && err != nil {
		return err
	}
	return nil
}
