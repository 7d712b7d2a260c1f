// Package classify decides, for each Expr segment of a parsed Template,
// whether its pipeline consumes stdin. The decision is conservative by
// design — a false positive only wastes a tee branch, a false negative
// deadlocks the tee once it blocks waiting for a consumer that never
// reads.
package classify

import (
	"github.com/jpikl/rew/internal/builtin"
	"github.com/jpikl/rew/internal/pattern"
)

// Classify fills in ConsumesStdin for every Expr segment of tmpl,
// mutating it in place, and returns the number of stdin-consuming
// expressions (the number of tee branches the engine must create).
func Classify(tmpl *pattern.Template) int {
	count := 0
	for i := range tmpl.Segments {
		seg := &tmpl.Segments[i]
		if seg.Kind != pattern.SegmentExpr {
			continue
		}
		seg.ConsumesStdin = consumes(seg.Pipeline)
		if seg.ConsumesStdin {
			count++
		}
	}
	return count
}

// consumes decides whether a pipeline reads from stdin by inspecting
// only its first stage. Later stages always read from the previous
// stage's stdout, never from the tee, so only the first stage's wiring
// matters.
func consumes(p pattern.Pipeline) bool {
	if len(p.Stages) == 0 {
		return false
	}
	first := p.Stages[0]

	if first.Hint == pattern.No {
		return false
	}

	switch first.Kind {
	case pattern.StageBuiltin:
		argv, err := first.Tokenize()
		if err != nil || len(argv) == 0 {
			// Bad quoting surfaces as a SpawnError once the launcher
			// tries the same tokenization; here it just means the
			// conservative default applies.
			return true
		}
		if desc, ok := builtin.Registry[argv[0]]; ok && desc.Generator {
			return false
		}
		return true
	case pattern.StageShell, pattern.StageExternal:
		// Conservative: the engine cannot introspect shell scripts or
		// external programs, so absent an explicit ':' it is assumed
		// to consume stdin.
		return true
	default:
		return true
	}
}
