// Package reveal tracks whether the cursor sits inside a title's markup
// span and temporarily suspends hiding for that span. It is a two-state
// machine (hidden / revealed) driven by cursor moves and one debounced
// timer; it never mutates text, only the display treatment.
package reveal

import (
	"time"

	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
)

// Delay is the debounce interval between a cursor move and the reveal
// check. Short enough to feel immediate, long enough to skip held keys.
const Delay = 50 * time.Millisecond

// Window is the currently revealed title span, [Start, End).
type Window struct {
	Start int
	End   int
}

// Contains reports whether pos falls inside the window.
func (w Window) Contains(pos int) bool {
	return pos >= w.Start && pos < w.End
}

// Controller owns the reveal state. Enabled gates the reveal-at-point
// behavior; it is consulted when the debounce timer fires, so toggling
// the option takes effect without restarting anything.
type Controller struct {
	rules   *grammar.Rules
	enabled func() bool
	window  *Window
	gen     int
}

// NewController creates a controller. enabled may be nil, meaning always
// on.
func NewController(rules *grammar.Rules, enabled func() bool) *Controller {
	return &Controller{rules: rules, enabled: enabled}
}

// Window returns the active reveal window, or nil.
func (c *Controller) Window() *Window {
	return c.window
}

// CursorMoved records a cursor move. If the cursor left an active window
// the window is closed and returned so the caller re-annotates exactly
// that range (restoring hidden markup). The returned generation tags the
// debounce timer the caller must arm; a timer firing with a stale
// generation is ignored, so at most one pending timer is live.
func (c *Controller) CursorMoved(pos int) (closed *Window, gen int) {
	if c.window != nil && !c.window.Contains(pos) {
		closed = c.window
		c.window = nil
	}
	c.gen++
	return closed, c.gen
}

// TimerFired runs the debounced reveal check. A stale generation (a newer
// cursor move already re-armed the timer) is a no-op. When reveal-at-point
// is enabled and the cursor line is part of a title block, the block's
// full span becomes the reveal window and is returned so the caller can
// suspend hidden-display overrides inside it.
func (c *Controller) TimerFired(gen int, doc *document.Doc, pos int) (opened *Window) {
	if gen != c.gen {
		return nil
	}
	if c.enabled != nil && !c.enabled() {
		return nil
	}
	tb, ok := c.rules.TitleBlockAt(doc, doc.LineOf(pos))
	if !ok {
		return nil
	}
	w := Window{Start: tb.Start, End: tb.End}
	if c.window != nil && *c.window == w {
		return nil
	}
	c.window = &w
	return &w
}

// Reset drops any active window without re-annotation, for document
// reloads where stale offsets would be meaningless.
func (c *Controller) Reset() {
	c.window = nil
	c.gen++
}
