// Package pattern implements the rew composition-pattern grammar: a
// template of literal text and {...} expressions, each expression a
// |-separated pipeline of builtin/external/shell stages.
package pattern

// StageKind identifies how a Stage's first token should be resolved.
type StageKind int

const (
	// StageBuiltin resolves the stage against the builtin registry.
	StageBuiltin StageKind = iota
	// StageExternal resolves the stage via PATH lookup (marked with !).
	StageExternal
	// StageShell passes the stage verbatim to the configured shell (marked with #).
	StageShell
)

// ConsumesStdin records a stage's stdin-wiring hint as parsed from the
// pattern text. Auto defers the decision to the expression classifier.
type ConsumesStdin int

const (
	// Auto means the classifier decides.
	Auto ConsumesStdin = iota
	// No means the user wrote the ':' marker.
	No
)

// Stage is one command spec within a Pipeline.
type Stage struct {
	Kind StageKind
	// Raw holds the stage's command text for StageBuiltin/StageExternal
	// stages exactly as it appeared in the pattern, quotes and all, with
	// only pattern-level escapes resolved; Script holds the verbatim
	// shell script text for StageShell stages (Raw is unused there). The
	// parser locates stage boundaries but never splits Raw into
	// arguments — call Tokenize for that.
	Raw    string
	Script string
	Hint   ConsumesStdin
}

// Pipeline is an ordered sequence of Stages, piped left to right.
type Pipeline struct {
	Stages []Stage
}

// SegmentKind distinguishes the two kinds of template segment.
type SegmentKind int

const (
	// SegmentLiteral is a raw, already-unescaped byte run.
	SegmentLiteral SegmentKind = iota
	// SegmentExpr is a {...} expression.
	SegmentExpr
)

// Segment is one element of a Template.
type Segment struct {
	Kind SegmentKind

	// Valid when Kind == SegmentLiteral.
	Literal []byte

	// Valid when Kind == SegmentExpr.
	Pipeline Pipeline
	// ConsumesStdin is the classifier's final yes/no verdict, written by
	// the classify package after parsing. It starts false/unset here.
	ConsumesStdin bool

	// Offset is the byte offset of this segment in the original pattern
	// text, used for diagnostics.
	Offset int
}

// Template is the parsed, immutable representation of a pattern: an
// ordered sequence of Literal and Expr segments.
type Template struct {
	Segments []Segment
}

// Exprs returns the indices of the Expr segments, in template order.
func (t Template) Exprs() []int {
	var idx []int
	for i, s := range t.Segments {
		if s.Kind == SegmentExpr {
			idx = append(idx, i)
		}
	}
	return idx
}
