package pattern

import "mvdan.cc/sh/v3/shell"

// Tokenize splits a StageBuiltin/StageExternal stage's Raw text into
// argv using POSIX shell word-splitting and quote rules: single quotes
// preserve their content verbatim, double quotes suppress word
// splitting, and unquoted whitespace separates arguments. Raw itself
// already has pattern-level escapes resolved, so this only ever sees
// the shell-quoting syntax the user wrote inside the stage.
func (st Stage) Tokenize() ([]string, error) {
	if st.Raw == "" {
		return nil, nil
	}
	return shell.Fields(st.Raw, nil)
}
