package ui

import (
	"sort"

	"github.com/cpitclaudel/litpy/internal/annotate"
	"github.com/cpitclaudel/litpy/internal/config"
	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
	"github.com/cpitclaudel/litpy/internal/region"
	"github.com/cpitclaudel/litpy/internal/reveal"
	"github.com/cpitclaudel/litpy/internal/titles"
)

// overlay is a transient result block anchored at a byte offset; it
// renders below the line containing its anchor and moves with edits.
type overlay struct {
	anchor int
	text   string
}

// session owns one document's annotation state: the directives, the
// reveal controller and any eval overlays. It is held by pointer so that
// config-change subscribers keep working across bubbletea model copies.
type session struct {
	doc      *document.Doc
	rules    *grammar.Rules
	ann      *annotate.Annotator
	rev      *reveal.Controller
	dirs     []annotate.Directive
	overlays []overlay
}

// newSession builds a session for text and registers it for option
// changes, so flipping a toggle re-runs the annotator here too.
func newSession(text string, hl annotate.Highlighter) *session {
	rules := grammar.New(config.GetTitleChars())
	s := &session{
		doc:   document.New(text),
		rules: rules,
		ann:   annotate.New(rules, hl, config.GetLanguage()),
		rev:   reveal.NewController(rules, config.GetRevealAtPoint),
	}
	s.applyOptions()
	config.OnChange(s.applyOptions)
	return s
}

// applyOptions pulls the hiding toggles from config and re-annotates the
// whole document with them.
func (s *session) applyOptions() {
	s.ann.SetOptions(annotate.Options{
		HideTitleMarkup: config.GetHideTitleMarkup(),
		HideQuotes:      config.GetHideQuotes(),
	})
	s.dirs = s.ann.Annotate(s.doc, 0, s.doc.Len())
}

// reannotate recomputes directives for [beg, end), first widening the
// range to whole constructs. Extension loops to a fixed point so a title
// block is never partially re-rendered.
func (s *session) reannotate(beg, end int) {
	beg = clamp(beg, 0, s.doc.Len())
	end = clamp(end, beg, s.doc.Len())
	for {
		nb, ne, changed := region.Extend(s.rules, s.doc, beg, end)
		beg, end = nb, ne
		if !changed {
			break
		}
	}

	fresh := s.ann.Annotate(s.doc, beg, end)
	merged := make([]annotate.Directive, 0, len(s.dirs)+len(fresh))
	for _, d := range s.dirs {
		if d.End <= d.Start {
			continue // collapsed by a shift over a deletion
		}
		if d.End <= beg || d.Start >= end {
			merged = append(merged, d)
		}
	}
	merged = append(merged, fresh...)
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Start != merged[j].Start {
			return merged[i].Start < merged[j].Start
		}
		return merged[i].End < merged[j].End
	})
	s.dirs = merged
}

// shift remaps directive and overlay positions across a replacement of
// [beg, end) whose length changed by delta. Positions inside the replaced
// range collapse to beg, leaving empty directives for the following
// reannotate call to discard and rebuild.
func (s *session) shift(beg, end, delta int) {
	if delta == 0 && beg == end {
		return
	}
	adjust := func(p int) int {
		switch {
		case p <= beg:
			return p
		case p >= end:
			return p + delta
		default:
			return beg
		}
	}
	for i := range s.dirs {
		s.dirs[i].Start = adjust(s.dirs[i].Start)
		s.dirs[i].End = adjust(s.dirs[i].End)
	}
	for i := range s.overlays {
		s.overlays[i].anchor = adjust(s.overlays[i].anchor)
	}
}

// edit replaces [beg, end) with repl and incrementally restores the
// annotation state: shift positions, auto-resize a touched title
// underline, then re-annotate the extended invalidated range.
func (s *session) edit(beg, end int, repl string) {
	line := s.doc.LineOf(beg)
	delta := s.doc.Replace(beg, end, repl)
	s.shift(beg, end, delta)

	invBeg, invEnd := beg, beg+len(repl)
	if e, ok := titles.Resync(s.rules, s.doc, line); ok {
		s.shift(e.Beg, e.End-e.Delta, e.Delta)
		invBeg = minInt(invBeg, e.Beg)
		invEnd = maxInt(invEnd, e.End)
	}
	s.reannotate(invBeg, invEnd)
}

// cycleTitle runs the cycle-title command at pos and restores the
// annotation state around the mutation.
func (s *session) cycleTitle(pos int) titles.Edit {
	e := titles.Cycle(s.rules, s.doc, pos)
	s.shift(e.Beg, e.End-e.Delta, e.Delta)
	// Removing an underline changes how the line above renders too, so
	// invalidation always reaches back one line.
	line := s.doc.LineOf(e.Beg)
	s.reannotate(s.doc.LineStart(line-1), e.End)
	return e
}

// setOverlay installs an eval result overlay anchored at the end of
// line. A previous overlay on the same line is replaced.
func (s *session) setOverlay(line int, text string) {
	anchor := s.doc.LineEnd(line)
	kept := s.overlays[:0]
	for _, o := range s.overlays {
		if s.doc.LineOf(o.anchor) != line {
			kept = append(kept, o)
		}
	}
	s.overlays = append(kept, overlay{anchor: anchor, text: text})
}

// overlayAt returns the overlay text anchored on line, if any.
func (s *session) overlayAt(line int) (string, bool) {
	for _, o := range s.overlays {
		if s.doc.LineOf(o.anchor) == line {
			return o.text, true
		}
	}
	return "", false
}

// cursorMoved forwards a cursor move to the reveal controller and
// restores hiding for a window the cursor just left.
func (s *session) cursorMoved(pos int) (gen int) {
	closed, gen := s.rev.CursorMoved(pos)
	if closed != nil {
		s.reannotate(closed.Start, closed.End)
	}
	return gen
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
