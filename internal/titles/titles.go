// Package titles implements the title markup editing commands: cycling a
// line through underline styles and keeping underline length synchronized
// with the title text.
package titles

import (
	"strings"

	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
	"github.com/mattn/go-runewidth"
)

// Edit describes a mutation made to the document: the modified range in
// new coordinates and the length delta, so callers can shift positions
// they hold past the edit.
type Edit struct {
	Beg   int
	End   int
	Delta int
}

// Cycle advances the title construct at pos through its lifecycle:
//
//   - full title block with a stale underline length: resync the length,
//     keeping the current style;
//   - full title block: advance the underline character to the next style,
//     or remove the underline entirely after the last style;
//   - bare title-candidate line: add an underline of the first style;
//   - anything else: insert a fresh "# " title + underline scaffold.
//
// It returns the edit that was applied so the caller can re-annotate.
func Cycle(rules *grammar.Rules, doc *document.Doc, pos int) Edit {
	chars := rules.TitleChars()
	line := doc.LineOf(pos)

	if tb, ok := rules.TitleBlockAt(doc, line); ok {
		width := tb.TitleWidth()
		if tb.UnderlineLen != width && width > 0 {
			return rewriteUnderline(doc, tb, tb.UnderlineChar, width)
		}

		idx := strings.IndexByte(chars, tb.UnderlineChar)
		switch {
		case idx < 0:
			// Out-of-list underline char: restart the cycle.
			return rewriteUnderline(doc, tb, chars[0], max(width, 1))
		case idx == len(chars)-1:
			return removeUnderline(doc, tb)
		default:
			return rewriteUnderline(doc, tb, chars[idx+1], max(width, 1))
		}
	}

	if tl, ok := grammar.ParseTitleLine(doc.LineText(line)); ok {
		return addUnderline(doc, line, tl, chars[0])
	}

	return insertScaffold(doc, line, chars[0])
}

// Resync regenerates the underline of the title block containing the
// changed line so its length matches the title's display width, keeping
// the existing underline character and comment markers. It reports
// whether anything changed.
func Resync(rules *grammar.Rules, doc *document.Doc, changedLine int) (Edit, bool) {
	tb, ok := rules.TitleBlockAt(doc, changedLine)
	if !ok {
		return Edit{}, false
	}
	width := tb.TitleWidth()
	if width == 0 || tb.UnderlineLen == width {
		return Edit{}, false
	}
	return rewriteUnderline(doc, tb, tb.UnderlineChar, width), true
}

func rewriteUnderline(doc *document.Doc, tb grammar.TitleBlock, char byte, length int) Edit {
	ulLine := tb.TitleLine + 1
	runStart := doc.LineStart(ulLine) + len(tb.UnderlineMarker)
	runEnd := doc.LineEnd(ulLine)
	repl := strings.Repeat(string(char), length)
	delta := doc.Replace(runStart, runEnd, repl)
	return Edit{Beg: runStart, End: runStart + len(repl), Delta: delta}
}

func removeUnderline(doc *document.Doc, tb grammar.TitleBlock) Edit {
	ulLine := tb.TitleLine + 1
	beg := doc.LineStart(ulLine)
	delta := doc.Delete(beg, doc.NextLineStart(ulLine))
	return Edit{Beg: beg, End: beg, Delta: delta}
}

func addUnderline(doc *document.Doc, line int, tl grammar.TitleLine, char byte) Edit {
	width := runewidth.StringWidth(tl.Title)
	if width == 0 {
		width = 1
	}
	insert := "\n" + tl.Marker + strings.Repeat(string(char), width)
	at := doc.LineEnd(line)
	delta := doc.Insert(at, insert)
	return Edit{Beg: at, End: at + len(insert), Delta: delta}
}

func insertScaffold(doc *document.Doc, line int, char byte) Edit {
	at := doc.LineStart(line)
	scaffold := "# \n# " + string(char) + "\n"
	delta := doc.Insert(at, scaffold)
	return Edit{Beg: at, End: at + len(scaffold), Delta: delta}
}
