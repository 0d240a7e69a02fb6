package ui

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cpitclaudel/litpy/internal/config"
	"github.com/cpitclaudel/litpy/internal/highlight"
	"github.com/cpitclaudel/litpy/internal/reveal"
	"github.com/cpitclaudel/litpy/internal/runner"
	"github.com/cpitclaudel/litpy/internal/snippet"
)

// ============================================================================
// Messages
// ============================================================================

// revealTickMsg fires the debounced reveal check. Stale generations are
// discarded by the controller, so at most one pending tick matters.
type revealTickMsg struct {
	gen int
}

// evalResultMsg delivers an inline eval result for an overlay.
type evalResultMsg struct {
	line   int
	output string
	err    error
}

// sendResultMsg delivers output for the interpreter pane.
type sendResultMsg struct {
	command string
	output  string
	err     error
}

// debounceReveal returns a command that fires the reveal check after the
// debounce delay.
func debounceReveal(gen int) tea.Cmd {
	return tea.Tick(reveal.Delay, func(t time.Time) tea.Msg {
		return revealTickMsg{gen}
	})
}

// ============================================================================
// Model
// ============================================================================

// model is the Bubble Tea model for one open literate document.
type model struct {
	s       *session
	path    string
	backend runner.Backend

	cursor int // byte offset into the document
	top    int // first visible document line
	width  int
	height int

	output     viewport.Model // interpreter output pane (the execution target)
	outputLog  string
	showOutput bool

	status   string
	dirty    bool
	quitting bool
}

func newModel(path, text string, backend runner.Backend) model {
	vp := viewport.New(80, 8)
	return model{
		s:       newSession(text, highlight.NewChroma()),
		path:    path,
		backend: backend,
		output:  vp,
	}
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.output.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case revealTickMsg:
		m.s.rev.TimerFired(msg.gen, m.s.doc, m.cursor)
		return m, nil

	case evalResultMsg:
		if msg.err != nil {
			m.s.setOverlay(msg.line, "error: "+msg.err.Error())
			m.status = "eval failed"
		} else {
			m.s.setOverlay(msg.line, msg.output)
			m.status = "evaluated snippet"
		}
		return m, nil

	case sendResultMsg:
		var b strings.Builder
		b.WriteString(m.outputLog)
		for _, line := range strings.Split(msg.command, "\n") {
			b.WriteString(">>> " + line + "\n")
		}
		if msg.err != nil {
			b.WriteString(msg.err.Error() + "\n")
		} else if msg.output != "" {
			b.WriteString(msg.output + "\n")
		}
		m.outputLog = b.String()
		m.output.SetContent(m.outputLog)
		m.output.GotoBottom()
		m.showOutput = true
		return m, nil
	}

	return m, nil
}

// ============================================================================
// Key handling
// ============================================================================

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prevCursor := m.cursor

	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "left":
		m.moveRune(-1)
	case "right":
		m.moveRune(1)
	case "up":
		m.moveLine(-1)
	case "down":
		m.moveLine(1)
	case "pgup":
		m.moveLine(-(m.docHeight() - 1))
	case "pgdown":
		m.moveLine(m.docHeight() - 1)
	case "home":
		m.cursor = m.s.doc.LineStart(m.s.doc.LineOf(m.cursor))
	case "end":
		m.cursor = m.s.doc.LineEnd(m.s.doc.LineOf(m.cursor))

	case "backspace":
		m.deleteBackward()
	case "delete":
		m.deleteForward()
	case "enter":
		m.insert("\n")
	case "tab":
		m.insert("    ")

	case "ctrl+t":
		m.s.cycleTitle(m.cursor)
		m.cursor = clamp(m.cursor, 0, m.s.doc.Len())
		m.dirty = true
		m.status = "cycled title style"

	case "ctrl+e":
		return m.evalAtPoint(false)
	case "ctrl+b":
		return m.evalAtPoint(true)
	case "ctrl+y":
		return m.sendToTarget()

	case "ctrl+q":
		if config.ToggleHideQuotes() {
			m.status = "quote markup hidden"
		} else {
			m.status = "quote markup shown"
		}
	case "ctrl+u":
		if config.ToggleHideTitleMarkup() {
			m.status = "title markup hidden"
		} else {
			m.status = "title markup shown"
		}
	case "ctrl+x":
		config.HideAllMarkup()
		m.status = "all markup hidden"

	case "ctrl+o":
		m.showOutput = !m.showOutput
	case "ctrl+s":
		m.save()

	case " ":
		m.insert(" ")
	default:
		if len(msg.Runes) > 0 {
			m.insert(string(msg.Runes))
		}
	}

	if m.cursor != prevCursor {
		gen := m.s.cursorMoved(m.cursor)
		return m, debounceReveal(gen)
	}
	return m, nil
}

// ============================================================================
// Editing
// ============================================================================

func (m *model) insert(text string) {
	m.s.edit(m.cursor, m.cursor, text)
	m.cursor += len(text)
	m.dirty = true
}

func (m *model) deleteBackward() {
	if m.cursor == 0 {
		return
	}
	_, w := utf8.DecodeLastRuneInString(m.s.doc.String()[:m.cursor])
	m.s.edit(m.cursor-w, m.cursor, "")
	m.cursor -= w
	m.dirty = true
}

func (m *model) deleteForward() {
	if m.cursor >= m.s.doc.Len() {
		return
	}
	_, w := utf8.DecodeRuneInString(m.s.doc.String()[m.cursor:])
	m.s.edit(m.cursor, m.cursor+w, "")
	m.dirty = true
}

func (m *model) moveRune(dir int) {
	text := m.s.doc.String()
	if dir < 0 && m.cursor > 0 {
		_, w := utf8.DecodeLastRuneInString(text[:m.cursor])
		m.cursor -= w
	} else if dir > 0 && m.cursor < len(text) {
		_, w := utf8.DecodeRuneInString(text[m.cursor:])
		m.cursor += w
	}
}

func (m *model) moveLine(delta int) {
	doc := m.s.doc
	line := doc.LineOf(m.cursor)
	col := m.cursor - doc.LineStart(line)
	line = clamp(line+delta, 0, doc.Lines()-1)
	lineLen := doc.LineEnd(line) - doc.LineStart(line)
	m.cursor = doc.LineStart(line) + minInt(col, lineLen)
}

func (m *model) save() {
	if m.path == "" {
		m.status = "no file to save to"
		return
	}
	if err := os.WriteFile(m.path, []byte(m.s.doc.String()), 0o644); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.dirty = false
	m.status = "wrote " + m.path
}

// ============================================================================
// Snippet commands
// ============================================================================

// evalAtPoint reads the snippet (or whole block) at the cursor, runs it
// through the execution backend and anchors the combined output as an
// overlay at the last consumed line.
func (m model) evalAtPoint(block bool) (tea.Model, tea.Cmd) {
	backend := m.backend

	if block {
		sns, err := snippet.ReadBlock(m.s.doc, m.cursor)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		last := sns[len(sns)-1].LastLine
		m.status = fmt.Sprintf("running %d snippets...", len(sns))
		return m, func() tea.Msg {
			var outs []string
			for _, sn := range sns {
				out, err := backend.Run(sn.Command)
				if err != nil {
					return evalResultMsg{line: last, err: err}
				}
				if out != "" {
					outs = append(outs, out)
				}
			}
			return evalResultMsg{line: last, output: strings.Join(outs, "\n")}
		}
	}

	sn, err := snippet.ReadSingle(m.s.doc, m.cursor)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = "running snippet..."
	return m, func() tea.Msg {
		out, err := backend.Run(sn.Command)
		return evalResultMsg{line: sn.LastLine, output: out, err: err}
	}
}

// sendToTarget copies the snippet at point to the interpreter pane and
// scrolls it to the end.
func (m model) sendToTarget() (tea.Model, tea.Cmd) {
	sn, err := snippet.ReadSingle(m.s.doc, m.cursor)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	backend := m.backend
	m.status = "sent snippet to interpreter"
	return m, func() tea.Msg {
		out, err := backend.Run(sn.Command)
		return sendResultMsg{command: sn.Command, output: out, err: err}
	}
}

// ============================================================================
// View
// ============================================================================

// docHeight returns the number of terminal rows available for the
// document pane.
func (m model) docHeight() int {
	height := maxInt(m.height, 24)
	footer := 3 // divider + status + help
	outputLines := 0
	if m.showOutput {
		outputLines = m.output.Height + 1
	}
	return maxInt(height-footer-outputLines, 3)
}

// View implements tea.Model
func (m model) View() string {
	if m.quitting {
		return ""
	}

	width := maxInt(m.width, 80)
	docHeight := m.docHeight()
	m.adjustTop(docHeight)

	b := getBuilder()
	defer putBuilder(b)

	rows := 0
	win := m.s.rev.Window()
	for i := m.top; i < m.s.doc.Lines() && rows < docHeight; i++ {
		b.WriteString(renderLine(m.s.doc, i, m.s.dirs, win, m.cursor, styles))
		b.WriteString("\n")
		rows++
		if text, ok := m.s.overlayAt(i); ok && rows < docHeight {
			ov := renderOverlay(text, styles)
			b.WriteString(ov)
			b.WriteString("\n")
			rows += countLines(ov)
		}
	}
	for ; rows < docHeight; rows++ {
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter(width))

	if m.showOutput {
		b.WriteString("\n")
		b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
		b.WriteString("\n")
		b.WriteString(m.output.View())
	}

	return b.String()
}

// adjustTop keeps the cursor line inside the visible window.
func (m *model) adjustTop(docHeight int) {
	line := m.s.doc.LineOf(m.cursor)
	if line < m.top {
		m.top = line
	}
	if line >= m.top+docHeight {
		m.top = line - docHeight + 1
	}
	m.top = clamp(m.top, 0, maxInt(0, m.s.doc.Lines()-1))
}

func (m model) renderFooter(width int) string {
	b := getBuilder()
	defer putBuilder(b)

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	name := m.path
	if name == "" {
		name = "[scratch]"
	}
	if m.dirty {
		name += " *"
	}
	line := m.s.doc.LineOf(m.cursor)
	col := m.cursor - m.s.doc.LineStart(line)
	b.WriteString(styles.Status.Render(name))
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d:%d", line+1, col+1)))
	if m.status != "" {
		b.WriteString(styles.Dim.Render("  •  "))
		b.WriteString(styles.Status.Render(m.status))
	}
	b.WriteString("\n")

	b.WriteString(styles.Dim.Render(
		"^T title  ^E eval  ^B eval block  ^Y send  ^Q quotes  ^U titles  ^X hide all  ^O output  ^S save  ESC quit"))
	return b.String()
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// ============================================================================
// Run TUI
// ============================================================================

// Run opens the editing TUI on the given file contents.
func Run(path, text string, backend runner.Backend) error {
	RefreshStyles()
	m := newModel(path, text, backend)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Annotate renders the annotated document once, for non-interactive use.
func Annotate(text string) string {
	RefreshStyles()
	s := newSession(text, highlight.NewChroma())
	return RenderDocument(s.doc, s.dirs)
}
