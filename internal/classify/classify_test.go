package classify

import (
	"testing"

	"github.com/jpikl/rew/internal/pattern"
)

func TestClassify(t *testing.T) {
	tmpl, err := pattern.Parse("{seq 1..3} {: !seq 1 3} {:# echo} {upper} {}", '\\')
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	n := Classify(&tmpl)

	var results []bool
	for _, seg := range tmpl.Segments {
		if seg.Kind == pattern.SegmentExpr {
			results = append(results, seg.ConsumesStdin)
		}
	}

	want := []bool{false, false, false, true, true}
	if len(results) != len(want) {
		t.Fatalf("got %d expr segments, want %d", len(results), len(want))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("expr %d: got ConsumesStdin=%v, want %v", i, results[i], want[i])
		}
	}

	wantCount := 2
	if n != wantCount {
		t.Errorf("got count %d, want %d", n, wantCount)
	}
}

func TestClassifyUnmarkedExternalIsConservative(t *testing.T) {
	tmpl, err := pattern.Parse("{!wc -l}", '\\')
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Classify(&tmpl)
	if !tmpl.Segments[0].ConsumesStdin {
		t.Fatalf("unmarked external stage must be conservatively classified as consuming stdin")
	}
}
