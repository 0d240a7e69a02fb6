// Package region widens an invalidated text range so it always covers
// whole multi-line constructs. A title body line and its underline are
// rendered as one visual unit, so editing either must re-annotate both.
package region

import (
	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
)

// Extend returns the smallest enclosing range of [beg, end) aligned to
// whole constructs, and whether the range actually changed. It never
// shrinks the input range; callers can loop until changed is false to
// reach a fixed point.
func Extend(rules *grammar.Rules, doc *document.Doc, beg, end int) (newBeg, newEnd int, changed bool) {
	newBeg = extendBackward(rules, doc, beg)
	newEnd = extendForward(rules, doc, end)
	if newEnd < end {
		newEnd = end
	}
	return newBeg, newEnd, newBeg != beg || newEnd != end
}

func extendBackward(rules *grammar.Rules, doc *document.Doc, beg int) int {
	line := doc.LineOf(beg)
	start := doc.LineStart(line)
	// If the line above together with this one forms a title block, the
	// edit touched an underline; pull in the title line.
	if tb, ok := rules.ParseTitleBlock(doc, line-1); ok {
		return tb.Start
	}
	return start
}

func extendForward(rules *grammar.Rules, doc *document.Doc, end int) int {
	line := doc.LineOf(end)
	// An exclusive end sitting exactly on a line start is already aligned;
	// extending into the next line would never converge on block ends.
	if end > 0 && end == doc.LineStart(line) {
		return end
	}
	// If this line begins a title block, take the whole block including
	// the underline's trailing newline; otherwise take the rest of the
	// line.
	if tb, ok := rules.ParseTitleBlock(doc, line); ok {
		return tb.End
	}
	return doc.LineEnd(line)
}
