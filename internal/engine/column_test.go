package engine

import (
	"strings"
	"testing"

	"github.com/jpikl/rew/internal/framing"
)

func TestLiteralColumnNeverExhausts(t *testing.T) {
	col := newLiteralColumn([]byte("x"))
	for i := 0; i < 3; i++ {
		record, ok, err := col.Next()
		if err != nil || !ok || string(record) != "x" {
			t.Fatalf("call %d: got (%q, %v, %v)", i, record, ok, err)
		}
	}
}

func TestPipeColumnReadsRecordsThenExhausts(t *testing.T) {
	col := newPipeColumn(framing.Default(), strings.NewReader("a\nb\n"))

	var got []string
	for {
		record, ok, err := col.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, string(record))
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestPipeColumnReturnedBytesAreOwnedByCaller(t *testing.T) {
	col := newPipeColumn(framing.Default(), strings.NewReader("first\nsecond\n"))
	first, _, _ := col.Next()
	firstCopy := append([]byte(nil), first...)
	_, _, _ = col.Next()
	if string(first) != string(firstCopy) {
		t.Fatalf("record from earlier call was mutated by a later one: got %q, want %q", first, firstCopy)
	}
}
