package builtin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jpikl/rew/internal/framing"
)

func TestUpperLowerTrim(t *testing.T) {
	cfg := framing.Default()

	tests := []struct {
		name string
		fn   CommandFunc
		in   string
		want string
	}{
		{"upper", Upper, "first\nsecond\n", "FIRST\nSECOND\n"},
		{"lower", Lower, "FIRST\nSECOND\n", "first\nsecond\n"},
		{"trim", Trim, "  hi  \n\tbye\t\n", "hi\nbye\n"},
		{"cat", Cat, "a\nb\nc\n", "a\nb\nc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := tt.fn(nil, strings.NewReader(tt.in), &out, cfg); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("got %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestSeqRange(t *testing.T) {
	cfg := framing.Default()
	var out bytes.Buffer
	if err := Seq([]string{"1..3"}, nil, &out, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "1\n2\n3\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestSeqInvalidRange(t *testing.T) {
	cfg := framing.Default()
	var out bytes.Buffer
	if err := Seq([]string{"x..3"}, nil, &out, cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSplit(t *testing.T) {
	cfg := framing.Default()
	var out bytes.Buffer
	if err := Split([]string{","}, strings.NewReader("a,b,c\nx,y\n"), &out, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\nc\nx\ny\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestSplitMissingSeparator(t *testing.T) {
	cfg := framing.Default()
	var out bytes.Buffer
	if err := Split(nil, strings.NewReader("a\n"), &out, cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNullDelimiter(t *testing.T) {
	cfg := framing.Default()
	cfg.Delimiter = 0
	cfg.CRLF = false
	var out bytes.Buffer
	if err := Cat(nil, strings.NewReader("a\x00b\x00"), &out, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "a\x00b\x00" {
		t.Errorf("got %q", out.String())
	}
}
