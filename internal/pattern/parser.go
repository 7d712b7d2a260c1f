package pattern

import (
	"strings"
	"unicode/utf8"
)

// Parse converts a pattern string into a Template using escape as the
// single-byte escape character. It performs no classification of which
// expressions consume stdin; that is the job of the classify package,
// which reads Segment.Pipeline and fills in Segment.ConsumesStdin.
func Parse(patternText string, escape byte) (Template, error) {
	s := newScanner(patternText, escape)
	var tmpl Template

	for !s.eof() {
		if s.current == '{' {
			seg, err := parseExpr(s)
			if err != nil {
				return Template{}, err
			}
			tmpl.Segments = append(tmpl.Segments, seg)
			continue
		}
		lit, offset, err := parseLiteralRun(s)
		if err != nil {
			return Template{}, err
		}
		if len(lit) > 0 {
			tmpl.Segments = append(tmpl.Segments, Segment{
				Kind:    SegmentLiteral,
				Literal: lit,
				Offset:  offset,
			})
		}
	}
	return tmpl, nil
}

// parseLiteralRun reads ordinary literal text up to (but not including)
// the next unescaped '{' or end of pattern, resolving escapes as it goes.
func parseLiteralRun(s *scanner) ([]byte, int, error) {
	start := s.pos
	var out []byte
	for !s.eof() && s.current != '{' {
		if s.isEscape() {
			b, err := s.resolveEscape()
			if err != nil {
				return nil, start, err
			}
			out = append(out, b)
			continue
		}
		out = appendRune(out, s.current)
		s.advance()
	}
	return out, start, nil
}

func appendRune(b []byte, r rune) []byte {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return append(b, buf[:n]...)
}

// parseExpr parses one {...} expression, starting with s.current == '{'.
func parseExpr(s *scanner) (Segment, error) {
	offset := s.pos
	s.advance() // consume '{'

	noStdin := false
	s.skipSpaces()
	if !s.eof() && s.current == ':' {
		noStdin = true
		s.advance()
		s.skipSpaces()
	}

	if !s.eof() && s.current == '#' {
		s.advance()
		if !s.eof() && s.current == ' ' {
			s.advance()
		}
		script, err := readShellScript(s, offset)
		if err != nil {
			return Segment{}, err
		}
		if !s.eof() && s.current == '}' {
			s.advance()
		} else {
			return Segment{}, &ParseError{Kind: UnterminatedExpr, Offset: offset}
		}
		return Segment{
			Kind: SegmentExpr,
			Pipeline: Pipeline{Stages: []Stage{{
				Kind:   StageShell,
				Script: script,
				Hint:   hintFrom(noStdin),
			}}},
			Offset: offset,
		}, nil
	}

	var stages []Stage
	var stageOffsets []int
	for {
		if s.eof() {
			return Segment{}, &ParseError{Kind: UnterminatedExpr, Offset: offset}
		}
		stageOffset := s.pos
		stage, err := parseStage(s, noStdin)
		if err != nil {
			return Segment{}, err
		}
		stages = append(stages, stage)
		stageOffsets = append(stageOffsets, stageOffset)

		if s.eof() {
			return Segment{}, &ParseError{Kind: UnterminatedExpr, Offset: offset}
		}
		if s.current == '|' {
			s.advance()
			continue
		}
		if s.current == '}' {
			s.advance()
			break
		}
		return Segment{}, &ParseError{Kind: UnterminatedExpr, Offset: offset}
	}

	if len(stages) == 1 && stages[0].Raw == "" && stages[0].Kind == StageBuiltin {
		stages[0].Raw = "cat"
	} else {
		for i, st := range stages {
			if st.Kind != StageShell && st.Raw == "" {
				return Segment{}, &ParseError{Kind: EmptyStage, Offset: stageOffsets[i]}
			}
		}
	}

	return Segment{
		Kind:     SegmentExpr,
		Pipeline: Pipeline{Stages: stages},
		Offset:   offset,
	}, nil
}

func hintFrom(noStdin bool) ConsumesStdin {
	if noStdin {
		return No
	}
	return Auto
}

// parseStage parses one pipeline stage: an optional leading '!' marker
// followed by the stage's raw command text, stopping at an unescaped
// '|' or '}' that isn't inside quotes. It locates the stage's boundary
// and resolves pattern-level escapes only; splitting the raw text into
// argv is Stage.Tokenize's job, run at launch time.
func parseStage(s *scanner, noStdin bool) (Stage, error) {
	kind := StageBuiltin
	if s.current == '!' {
		kind = StageExternal
		s.advance()
	}

	s.skipSpaces()
	raw, err := readStageRaw(s)
	if err != nil {
		return Stage{}, err
	}

	return Stage{Kind: kind, Raw: strings.TrimRight(raw, " \t"), Hint: hintFrom(noStdin)}, nil
}

// readStageRaw reads a stage's command text up to (but not including)
// the first unescaped, unquoted '|' or '}'. It tracks single/double
// quote state so that a pipe or brace inside quotes is kept literal
// rather than treated as a stage or expression boundary. Outside
// single quotes, the pattern's escape char is resolved as usual; a
// single-quoted run is copied verbatim, escape char included, matching
// POSIX single-quote semantics.
func readStageRaw(s *scanner) (string, error) {
	var out []byte
	var quote rune

	for !s.eof() {
		r := s.current

		if quote == '\'' {
			out = appendRune(out, r)
			s.advance()
			if r == '\'' {
				quote = 0
			}
			continue
		}

		if quote == '"' {
			if r == '"' {
				out = appendRune(out, r)
				s.advance()
				quote = 0
				continue
			}
			if s.isEscape() {
				b, err := s.resolveEscape()
				if err != nil {
					return "", err
				}
				out = append(out, b)
				continue
			}
			out = appendRune(out, r)
			s.advance()
			continue
		}

		switch {
		case r == '\'' || r == '"':
			quote = r
			out = appendRune(out, r)
			s.advance()
		case r == '|' || r == '}':
			return string(out), nil
		case s.isEscape():
			b, err := s.resolveEscape()
			if err != nil {
				return "", err
			}
			out = append(out, b)
		default:
			out = appendRune(out, r)
			s.advance()
		}
	}
	return string(out), nil
}

// readShellScript reads the verbatim script text for a '#'-marked
// expression, up to the first unescaped '}'. \{ and \} are resolved so
// a script can embed literal braces; every other backslash sequence is
// passed through untouched since the shell itself owns that syntax.
func readShellScript(s *scanner, exprOffset int) (string, error) {
	var out []byte
	for {
		if s.eof() {
			return "", &ParseError{Kind: UnterminatedExpr, Offset: exprOffset}
		}
		if s.current == '}' {
			return string(out), nil
		}
		if s.isEscape() && (s.peek() == '{' || s.peek() == '}') {
			b, err := s.resolveEscape()
			if err != nil {
				return "", err
			}
			out = append(out, b)
			continue
		}
		out = appendRune(out, s.current)
		s.advance()
	}
}
