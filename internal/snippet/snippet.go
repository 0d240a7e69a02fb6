// Package snippet reconstructs logical executable snippets from their
// on-screen doctest representation. A snippet is one primary ">>>" line
// plus any "..." continuation lines, spliced together with newlines.
package snippet

import (
	"errors"
	"strings"

	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
)

// ErrNoSnippet is returned when the position does not sit on a doctest
// line. User commands surface it directly as a message.
var ErrNoSnippet = errors.New("no doctest snippet at point")

// Snippet is one logical command extracted from a doctest block.
type Snippet struct {
	Command  string // payload lines joined with newlines
	LastLine int    // line index of the last consumed line
}

// ReadSingle extracts the snippet containing pos. It walks upward over
// continuation lines to the primary line, then collects downward while
// lines continue the block.
func ReadSingle(doc *document.Doc, pos int) (Snippet, error) {
	line := doc.LineOf(pos)
	dt, ok := grammar.ParseDoctestLine(doc.LineText(line))
	if !ok {
		return Snippet{}, ErrNoSnippet
	}

	for dt.Kind == grammar.Continuation && line > 0 {
		above, ok := grammar.ParseDoctestLine(doc.LineText(line - 1))
		if !ok {
			break
		}
		line--
		dt = above
	}

	return collectFrom(doc, line), nil
}

// ReadBlock extracts every snippet in the contiguous doctest block around
// pos, in source order. It first skips backward to the start of the block,
// then re-reads single snippets until a non-doctest line.
func ReadBlock(doc *document.Doc, pos int) ([]Snippet, error) {
	line := doc.LineOf(pos)
	if _, ok := grammar.ParseDoctestLine(doc.LineText(line)); !ok {
		// Allow invoking just past the end of a block.
		if line == 0 {
			return nil, ErrNoSnippet
		}
		if _, ok := grammar.ParseDoctestLine(doc.LineText(line - 1)); !ok {
			return nil, ErrNoSnippet
		}
		line--
	}

	for line > 0 {
		if _, ok := grammar.ParseDoctestLine(doc.LineText(line - 1)); !ok {
			break
		}
		line--
	}

	var out []Snippet
	for line < doc.Lines() {
		if _, ok := grammar.ParseDoctestLine(doc.LineText(line)); !ok {
			break
		}
		s := collectFrom(doc, line)
		out = append(out, s)
		line = s.LastLine + 1
	}
	if len(out) == 0 {
		return nil, ErrNoSnippet
	}
	return out, nil
}

// collectFrom gathers the snippet starting at line, which must be a
// doctest line. All lines after the first must be continuations.
func collectFrom(doc *document.Doc, line int) Snippet {
	first, _ := grammar.ParseDoctestLine(doc.LineText(line))
	payloads := []string{first.Payload}
	last := line
	for i := line + 1; i < doc.Lines(); i++ {
		dt, ok := grammar.ParseDoctestLine(doc.LineText(i))
		if !ok || dt.Kind != grammar.Continuation {
			break
		}
		payloads = append(payloads, dt.Payload)
		last = i
	}
	return Snippet{Command: strings.Join(payloads, "\n"), LastLine: last}
}
