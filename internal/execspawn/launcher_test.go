package execspawn

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jpikl/rew/internal/framing"
	"github.com/jpikl/rew/internal/pattern"
)

func mustLauncher(t *testing.T) *Launcher {
	t.Helper()
	l, err := NewLauncher()
	if err != nil {
		t.Fatalf("NewLauncher: %v", err)
	}
	return l
}

func TestLaunchExternalWithStdinPipe(t *testing.T) {
	l := mustLauncher(t)
	stage := pattern.Stage{Kind: pattern.StageExternal, Raw: "cat"}

	var stderr bytes.Buffer
	child, err := l.Launch(context.Background(), 0, stage, framing.Default(), LaunchOpts{WantStdinPipe: true}, &stderr)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if child.Stdin == nil {
		t.Fatalf("expected a stdin pipe")
	}

	if _, err := io.WriteString(child.Stdin, "hello\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	child.Stdin.Close()

	out, err := io.ReadAll(child.Stdout)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(out) != "hello\n" {
		t.Fatalf("got %q", out)
	}

	code, err := child.Wait()
	if err != nil || code != 0 {
		t.Fatalf("Wait: code=%d err=%v", code, err)
	}
}

func TestLaunchExternalChainsStdout(t *testing.T) {
	l := mustLauncher(t)
	cfg := framing.Default()
	var stderr bytes.Buffer

	first, err := l.Launch(context.Background(), 0, pattern.Stage{Kind: pattern.StageExternal, Raw: `printf 'a\nb\n'`}, cfg, LaunchOpts{}, &stderr)
	if err != nil {
		t.Fatalf("Launch stage 0: %v", err)
	}
	second, err := l.Launch(context.Background(), 1, pattern.Stage{Kind: pattern.StageExternal, Raw: "tr a-z A-Z"}, cfg, LaunchOpts{StdinReader: first.Stdout}, &stderr)
	if err != nil {
		t.Fatalf("Launch stage 1: %v", err)
	}

	out, err := io.ReadAll(second.Stdout)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(out) != "A\nB\n" {
		t.Fatalf("got %q", out)
	}
	first.Wait()
	second.Wait()
}

func TestLaunchShellRequiresConfiguredShell(t *testing.T) {
	l := mustLauncher(t)
	cfg := framing.Default()
	cfg.Shell = ""
	stage := pattern.Stage{Kind: pattern.StageShell, Script: "exit 0"}

	var stderr bytes.Buffer
	if _, err := l.Launch(context.Background(), 0, stage, cfg, LaunchOpts{}, &stderr); err == nil {
		t.Fatalf("expected SpawnError for unconfigured shell")
	}
}

func TestKillMarksChildAsKilled(t *testing.T) {
	l := mustLauncher(t)
	cfg := framing.Default()
	var stderr bytes.Buffer

	stage := pattern.Stage{Kind: pattern.StageExternal, Raw: "sleep 5"}
	child, err := l.Launch(context.Background(), 0, stage, cfg, LaunchOpts{}, &stderr)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	if child.Killed() {
		t.Fatalf("expected Killed() false before Kill is called")
	}
	if err := child.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if !child.Killed() {
		t.Fatalf("expected Killed() true after Kill is called")
	}
	child.Wait()
}

func TestQuotedArgvSurvivesLaunchTokenization(t *testing.T) {
	l := mustLauncher(t)
	cfg := framing.Default()
	var stderr bytes.Buffer

	stage := pattern.Stage{Kind: pattern.StageExternal, Raw: `printf '%s' 'two words'`}
	child, err := l.Launch(context.Background(), 0, stage, cfg, LaunchOpts{}, &stderr)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	out, err := io.ReadAll(child.Stdout)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(out) != "two words" {
		t.Fatalf("got %q, want the quoted argument preserved as one word", out)
	}
	child.Wait()
}

func TestLaunchUnknownExternalIsSpawnError(t *testing.T) {
	l := mustLauncher(t)
	stage := pattern.Stage{Kind: pattern.StageExternal, Raw: "definitely-not-a-real-program-xyz"}

	var stderr bytes.Buffer
	_, err := l.Launch(context.Background(), 0, stage, framing.Default(), LaunchOpts{}, &stderr)
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected *SpawnError, got %v", err)
	}
}
