package ui

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/cpitclaudel/litpy/internal/annotate"
	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/reveal"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Directive rendering
// ============================================================================

// charState is the effective treatment of one character after stacking
// every directive that covers it.
type charState struct {
	style      annotate.Style
	hidden     bool
	underlined bool
}

// stateAt computes the effective treatment at byte position p from the
// directives overlapping the line. Later (inner) directives win the style;
// hidden and underlined accumulate.
func stateAt(dirs []annotate.Directive, p int) charState {
	var cs charState
	for _, d := range dirs {
		if d.Start <= p && p < d.End {
			if d.Style != annotate.StyleNone {
				cs.style = d.Style
			}
			cs.hidden = cs.hidden || d.Hidden
			cs.underlined = cs.underlined || d.Underlined
		}
	}
	return cs
}

// lineDirectives filters dirs down to those overlapping [beg, end).
// dirs are sorted by start, so the scan stops early.
func lineDirectives(dirs []annotate.Directive, beg, end int) []annotate.Directive {
	var out []annotate.Directive
	for _, d := range dirs {
		if d.Start >= end {
			break
		}
		if d.End > beg {
			out = append(out, d)
		}
	}
	return out
}

// renderLine renders line i of doc with its annotations applied. Hidden
// markup renders zero-width unless the reveal window covers it or the
// cursor sits on it. cursor < 0 renders without a cursor.
func renderLine(doc *document.Doc, i int, dirs []annotate.Directive, win *reveal.Window, cursor int, sm *StyleManager) string {
	beg := doc.LineStart(i)
	end := doc.LineEnd(i)
	text := doc.LineText(i)
	ld := lineDirectives(dirs, beg, end)

	b := getBuilder()
	defer putBuilder(b)

	// Accumulate runs of identically-treated characters so each run is
	// styled once.
	var run strings.Builder
	var runState charState
	haveRun := false
	flush := func() {
		if haveRun && run.Len() > 0 {
			style := sm.For(runState.style)
			if runState.underlined {
				style = style.Underline(true)
			}
			b.WriteString(style.Render(run.String()))
		}
		run.Reset()
		haveRun = false
	}

	for off := 0; off < len(text); {
		r, w := utf8.DecodeRuneInString(text[off:])
		p := beg + off
		cs := stateAt(ld, p)
		onCursor := cursor >= p && cursor < p+w

		revealed := win != nil && win.Contains(p)
		if cs.hidden && !revealed && !onCursor {
			off += w // zero-width
			continue
		}
		if cs.hidden {
			// Shown markup keeps the markup style at normal width.
			cs = charState{style: annotate.StyleMarkup}
		}

		if onCursor {
			flush()
			b.WriteString(sm.Cursor.Render(string(r)))
		} else {
			if !haveRun || cs != runState {
				flush()
				runState = cs
				haveRun = true
			}
			run.WriteRune(r)
		}
		off += w
	}
	flush()

	// Cursor resting at end of line.
	if cursor == end {
		b.WriteString(sm.Cursor.Render(" "))
	}

	return b.String()
}

// RenderDocument renders the whole document with annotations, one line
// per output line. Used by the non-interactive annotate command.
func RenderDocument(doc *document.Doc, dirs []annotate.Directive) string {
	b := getBuilder()
	defer putBuilder(b)
	for i := 0; i < doc.Lines(); i++ {
		b.WriteString(renderLine(doc, i, dirs, nil, -1, styles))
		if i+1 < doc.Lines() {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderOverlay renders a transient result overlay anchored under a
// snippet's last line.
func renderOverlay(text string, sm *StyleManager) string {
	b := getBuilder()
	defer putBuilder(b)
	for j, line := range strings.Split(text, "\n") {
		if j > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sm.Overlay.Render("  => " + line))
	}
	return b.String()
}
