package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpitclaudel/litpy/internal/annotate"
)

// fullScan recomputes every directive from scratch; the incremental path
// must always land on the same result.
func fullScan(s *session) []annotate.Directive {
	return s.ann.Annotate(s.doc, 0, s.doc.Len())
}

func TestIncrementalEditMatchesFullScan(t *testing.T) {
	text := "# Title\n# =====\n## prose `q`\n# >>> x = 1\nplain\n"
	s := newSession(text, nil)
	require.Equal(t, fullScan(s), s.dirs)

	// Append to the title text; the underline auto-resizes.
	s.edit(7, 7, "X")
	require.Equal(t, "# TitleX\n# ======\n## prose `q`\n# >>> x = 1\nplain\n", s.doc.String())
	require.Equal(t, fullScan(s), s.dirs)

	// Delete a title character; the underline shrinks back.
	s.edit(2, 3, "")
	require.Equal(t, fullScan(s), s.dirs)

	// Insert a fresh doctest line ahead of plain text.
	pos := strings.Index(s.doc.String(), "plain")
	s.edit(pos, pos, ">>> y\n")
	require.Equal(t, fullScan(s), s.dirs)

	// Replace a quoted span with plain words.
	pos = strings.Index(s.doc.String(), "`q`")
	s.edit(pos, pos+3, "words")
	require.Equal(t, fullScan(s), s.dirs)
}

func TestEditShiftsLaterDirectives(t *testing.T) {
	s := newSession("plain\n`q`\n", nil)
	before := fullScan(s)
	require.Equal(t, before, s.dirs)

	// Growing the first line moves the quote directives without changing
	// their shape.
	s.edit(0, 0, "xx")
	require.Equal(t, fullScan(s), s.dirs)
	for i := range before {
		require.Equal(t, before[i].Start+2, s.dirs[i].Start)
		require.Equal(t, before[i].End+2, s.dirs[i].End)
	}
}

func TestCycleTitleKeepsDirectivesConsistent(t *testing.T) {
	s := newSession("# Hello\nrest\n", nil)

	s.cycleTitle(0)
	require.Equal(t, "# Hello\n# =====\nrest\n", s.doc.String())
	require.Equal(t, fullScan(s), s.dirs)

	s.cycleTitle(0)
	require.Equal(t, "# Hello\n# -----\nrest\n", s.doc.String())
	require.Equal(t, fullScan(s), s.dirs)

	s.cycleTitle(0)
	s.cycleTitle(0) // removes the underline
	require.Equal(t, "# Hello\nrest\n", s.doc.String())
	require.Equal(t, fullScan(s), s.dirs)
}

func TestOverlayAnchorsFollowEdits(t *testing.T) {
	s := newSession("# >>> 1 + 1\nrest\n", nil)

	s.setOverlay(0, "2")
	text, ok := s.overlayAt(0)
	require.True(t, ok)
	require.Equal(t, "2", text)

	// Inserting a line above moves the overlay with its snippet.
	s.edit(0, 0, "x\n")
	_, ok = s.overlayAt(0)
	require.False(t, ok)
	text, ok = s.overlayAt(1)
	require.True(t, ok)
	require.Equal(t, "2", text)

	// A new overlay on the same line replaces the old one.
	s.setOverlay(1, "3")
	text, _ = s.overlayAt(1)
	require.Equal(t, "3", text)
	require.Len(t, s.overlays, 1)
}

func TestLineDirectives(t *testing.T) {
	dirs := []annotate.Directive{
		{Start: 0, End: 3},
		{Start: 2, End: 8},
		{Start: 10, End: 12},
	}
	got := lineDirectives(dirs, 4, 10)
	require.Len(t, got, 1)
	require.Equal(t, dirs[1], got[0])
}

func TestStateAt(t *testing.T) {
	dirs := []annotate.Directive{
		{Start: 0, End: 10, Style: annotate.StyleProse},
		{Start: 2, End: 4, Style: annotate.StyleCode, Hidden: true},
	}
	cs := stateAt(dirs, 3)
	require.Equal(t, annotate.StyleCode, cs.style)
	require.True(t, cs.hidden)

	cs = stateAt(dirs, 5)
	require.Equal(t, annotate.StyleProse, cs.style)
	require.False(t, cs.hidden)
}
