// Command rew is a line-oriented text-processing multi-tool. Its `x`
// subcommand composes parallel shell pipelines over stdin; every other
// subcommand name dispatches straight to a built-in, which is also how
// the `x` engine re-invokes this same binary for Builtin(name, args)
// pipeline stages.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpikl/rew/internal/builtin"
	"github.com/jpikl/rew/internal/classify"
	"github.com/jpikl/rew/internal/cli"
	"github.com/jpikl/rew/internal/engine"
	"github.com/jpikl/rew/internal/framing"
	"github.com/jpikl/rew/internal/pattern"
)

// version is overridden at link time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		cli.ShowHelp()
		return 2
	}

	switch args[0] {
	case "help", "--help", "-h":
		cli.ShowHelp()
		return 0
	case "version", "--version":
		fmt.Println("rew", version)
		return 0
	case "x":
		return runX(args[1:])
	}

	if desc, ok := builtin.Registry[args[0]]; ok {
		cfg, err := framing.FromEnvironment(framing.Default())
		if err != nil {
			fmt.Fprintln(os.Stderr, "rew:", err)
			return 1
		}
		var stdout io.Writer = os.Stdout
		var buffered *bufio.Writer
		if cfg.BufMode == framing.FullMode {
			buffered = bufio.NewWriterSize(os.Stdout, cfg.BufSize)
			stdout = buffered
		}
		err = desc.Run(args[1:], os.Stdin, stdout, cfg)
		if buffered != nil {
			if flushErr := buffered.Flush(); err == nil {
				err = flushErr
			}
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "rew:", err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(os.Stderr, "rew: unknown command %q\n", args[0])
	return 2
}

func runX(args []string) int {
	config, err := cli.ParseArgs(args)
	if err != nil {
		switch {
		case errors.Is(err, cli.ErrShowHelp):
			cli.ShowHelp()
			return 0
		case errors.Is(err, cli.ErrShowVersion):
			fmt.Println("rew", version)
			return 0
		default:
			fmt.Fprintln(os.Stderr, "rew:", err)
			return 2
		}
	}

	cfg, err := config.Framing()
	if err != nil {
		fmt.Fprintln(os.Stderr, "rew:", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if config.Interactive {
		if err := cli.RunInteractive(ctx, config.Pattern, cfg, os.Stdout, os.Stderr); err != nil {
			fmt.Fprintln(os.Stderr, "rew:", err)
			return 1
		}
		return 0
	}

	tmpl, err := pattern.Parse(config.Pattern, cfg.EscapeChar)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rew:", err)
		return 2
	}
	classify.Classify(&tmpl)

	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rew:", err)
		return 1
	}

	code, err := eng.Run(ctx, tmpl, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rew:", err)
	}
	return code
}
