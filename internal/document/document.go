package document

import "strings"

// Doc is an in-memory text buffer with a line index. Positions are byte
// offsets into the full text; lines are split on '\n' and do not include
// the newline itself. A trailing newline yields a final empty line, which
// matches how editors address the position after the last newline.
type Doc struct {
	text       string
	lineStarts []int
}

// New creates a document from the given text.
func New(text string) *Doc {
	d := &Doc{text: text}
	d.reindex()
	return d
}

func (d *Doc) reindex() {
	d.lineStarts = d.lineStarts[:0]
	d.lineStarts = append(d.lineStarts, 0)
	for i := 0; i < len(d.text); i++ {
		if d.text[i] == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
}

// String returns the full text.
func (d *Doc) String() string {
	return d.text
}

// Len returns the length of the text in bytes.
func (d *Doc) Len() int {
	return len(d.text)
}

// Lines returns the number of lines.
func (d *Doc) Lines() int {
	return len(d.lineStarts)
}

// LineOf returns the index of the line containing pos.
// Positions outside the text are clamped.
func (d *Doc) LineOf(pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(d.text) {
		return len(d.lineStarts) - 1
	}
	// Binary search for the last line start <= pos
	lo, hi := 0, len(d.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.lineStarts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// LineStart returns the byte offset of the start of line i.
func (d *Doc) LineStart(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(d.lineStarts) {
		return len(d.text)
	}
	return d.lineStarts[i]
}

// LineEnd returns the byte offset just before line i's newline,
// or the end of the text for the last line.
func (d *Doc) LineEnd(i int) int {
	if i < 0 {
		return 0
	}
	if i+1 < len(d.lineStarts) {
		return d.lineStarts[i+1] - 1
	}
	return len(d.text)
}

// NextLineStart returns the offset of the start of line i+1, which is the
// end of line i including its trailing newline. For the last line this is
// the end of the text.
func (d *Doc) NextLineStart(i int) int {
	if i+1 < len(d.lineStarts) {
		return d.lineStarts[i+1]
	}
	return len(d.text)
}

// LineText returns the text of line i without its newline.
func (d *Doc) LineText(i int) string {
	if i < 0 || i >= len(d.lineStarts) {
		return ""
	}
	return d.text[d.LineStart(i):d.LineEnd(i)]
}

// Slice returns the text in [beg, end), clamped to the document.
func (d *Doc) Slice(beg, end int) string {
	beg = clamp(beg, 0, len(d.text))
	end = clamp(end, beg, len(d.text))
	return d.text[beg:end]
}

// Replace substitutes the text in [beg, end) with repl and rebuilds the
// line index. It returns the length delta so callers can shift any
// positions they hold past the edit.
func (d *Doc) Replace(beg, end int, repl string) int {
	beg = clamp(beg, 0, len(d.text))
	end = clamp(end, beg, len(d.text))
	var b strings.Builder
	b.Grow(len(d.text) - (end - beg) + len(repl))
	b.WriteString(d.text[:beg])
	b.WriteString(repl)
	b.WriteString(d.text[end:])
	d.text = b.String()
	d.reindex()
	return len(repl) - (end - beg)
}

// Insert inserts text at pos.
func (d *Doc) Insert(pos int, text string) int {
	return d.Replace(pos, pos, text)
}

// Delete removes the text in [beg, end).
func (d *Doc) Delete(beg, end int) int {
	return d.Replace(beg, end, "")
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
