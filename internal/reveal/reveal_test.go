package reveal

import (
	"testing"

	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
)

func TestRevealOpensOnTitleBlock(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("# T\n# ===\nx\n")
	c := NewController(rules, nil)

	closed, gen := c.CursorMoved(0)
	if closed != nil {
		t.Fatalf("closed = %+v with no active window", closed)
	}

	opened := c.TimerFired(gen, doc, 0)
	if opened == nil {
		t.Fatal("expected a reveal window")
	}
	if opened.Start != 0 || opened.End != 10 {
		t.Errorf("window = %+v, want [0, 10)", opened)
	}

	// Re-revealing the same block is a no-op.
	if again := c.TimerFired(gen, doc, 2); again != nil {
		t.Errorf("duplicate reveal returned %+v", again)
	}
}

func TestRevealClosesOnLeave(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("# T\n# ===\nx\n")
	c := NewController(rules, nil)

	_, gen := c.CursorMoved(0)
	c.TimerFired(gen, doc, 0)

	// Moving inside the window keeps it open.
	closed, _ := c.CursorMoved(5)
	if closed != nil {
		t.Fatalf("window closed on an inside move: %+v", closed)
	}
	if c.Window() == nil {
		t.Fatal("window dropped on an inside move")
	}

	// Leaving the window closes it and returns it for re-annotation.
	closed, _ = c.CursorMoved(10)
	if closed == nil || closed.Start != 0 || closed.End != 10 {
		t.Fatalf("closed = %+v, want [0, 10)", closed)
	}
	if c.Window() != nil {
		t.Error("window still active after leaving")
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("# T\n# ===\nx\n")
	c := NewController(rules, nil)

	_, gen1 := c.CursorMoved(0)
	_, gen2 := c.CursorMoved(1)

	if w := c.TimerFired(gen1, doc, 0); w != nil {
		t.Errorf("stale timer opened %+v", w)
	}
	if w := c.TimerFired(gen2, doc, 1); w == nil {
		t.Error("current timer did not open a window")
	}
}

func TestRevealDisabled(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("# T\n# ===\nx\n")
	enabled := false
	c := NewController(rules, func() bool { return enabled })

	_, gen := c.CursorMoved(0)
	if w := c.TimerFired(gen, doc, 0); w != nil {
		t.Errorf("disabled reveal opened %+v", w)
	}

	// The option is consulted at fire time, so enabling takes effect on
	// the next timer without any re-arming.
	enabled = true
	_, gen = c.CursorMoved(0)
	if w := c.TimerFired(gen, doc, 0); w == nil {
		t.Error("enabled reveal did not open a window")
	}
}

func TestNoRevealOffTitle(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("# T\n# ===\nx\n")
	c := NewController(rules, nil)

	_, gen := c.CursorMoved(10) // line "x"
	if w := c.TimerFired(gen, doc, 10); w != nil {
		t.Errorf("reveal opened off a title block: %+v", w)
	}
}

func TestReset(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("# T\n# ===\nx\n")
	c := NewController(rules, nil)

	_, gen := c.CursorMoved(0)
	c.TimerFired(gen, doc, 0)

	c.Reset()
	if c.Window() != nil {
		t.Error("window survived a reset")
	}
	if w := c.TimerFired(gen, doc, 0); w != nil {
		t.Errorf("pre-reset timer opened %+v", w)
	}
}
