package grammar

import (
	"regexp"
	"strings"

	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/mattn/go-runewidth"
)

// DefaultTitleChars is the ordered list of underline style characters.
// The first character marks a level-1 title, the second level 2, and so on.
const DefaultTitleChars = "=-~"

var (
	// Comment marker: repeated '#', optional loud '!', optional whitespace.
	markerRe = regexp.MustCompile(`^#*!?[ \t]*`)
	// Title first line: optional marker, then a line whose first non-blank
	// character is not '#'; the remainder is the title text.
	titleLineRe = regexp.MustCompile(`^(#*!?[ \t]*)([^#\s].*)$`)
	// Doc-comment line: exactly two '#' plus optional '!' plus required
	// whitespace. A third '#' fails the whitespace requirement.
	docCommentRe = regexp.MustCompile(`^##!?[ \t]`)
	// Doctest line: indentation and comment markers, then the primary or
	// continuation prompt, an optional space, and the payload.
	doctestRe = regexp.MustCompile(`^([ \t]*#*!?[ \t]*)(>>>|\.\.\.) ?(.*)$`)
	// Double-quoted span: two backticks around content with no backtick
	// or newline. Found before single spans, so it wins overlaps.
	doubleQuoteRe = regexp.MustCompile("``([^`\n]+)``")
	// Single-quoted span candidate; adjacency and whitespace constraints
	// are checked separately since RE2 has no lookarounds.
	singleQuoteRe = regexp.MustCompile("`([^`\n]+)`")
)

// Rules holds the configurable part of the grammar: the ordered underline
// style characters and the regexp compiled from them. Everything else is
// fixed pattern state shared by all rule sets.
type Rules struct {
	titleChars  string
	underlineRe *regexp.Regexp
}

// New compiles a rule set for the given ordered underline characters.
// An empty list falls back to the defaults.
func New(titleChars string) *Rules {
	if titleChars == "" {
		titleChars = DefaultTitleChars
	}
	alts := make([]string, 0, len(titleChars))
	for _, c := range titleChars {
		alts = append(alts, regexp.QuoteMeta(string(c))+"+")
	}
	// Runs of characters outside the style list still look like underlines
	// to the eye; they produce a level-0 (prose) title. Cover the common
	// punctuation runs reStructuredText allows.
	for _, c := range "*^\"'+#.:_" {
		if !strings.ContainsRune(titleChars, c) {
			alts = append(alts, regexp.QuoteMeta(string(c))+"+")
		}
	}
	re := regexp.MustCompile(`^(#*!?[ \t]*)(` + strings.Join(alts, "|") + `)$`)
	return &Rules{titleChars: titleChars, underlineRe: re}
}

// Default returns a rule set using DefaultTitleChars.
func Default() *Rules {
	return New(DefaultTitleChars)
}

// TitleChars returns the ordered underline style characters.
func (r *Rules) TitleChars() string {
	return r.titleChars
}

// Level returns the 1-based title level for an underline character,
// or 0 if the character is not in the style list.
func (r *Rules) Level(c byte) int {
	if i := strings.IndexByte(r.titleChars, c); i >= 0 {
		return i + 1
	}
	return 0
}

// ============================================================================
// Line-level constructs
// ============================================================================

// TitleLine is a candidate first line of a title block.
type TitleLine struct {
	Marker string // comment prefix, possibly empty
	Title  string // title text to end of line
}

// ParseTitleLine matches the title first-line pattern against one line.
func ParseTitleLine(line string) (TitleLine, bool) {
	m := titleLineRe.FindStringSubmatch(line)
	if m == nil {
		return TitleLine{}, false
	}
	return TitleLine{Marker: m[1], Title: m[2]}, true
}

// Underline is a recognized title underline line.
type Underline struct {
	Marker string // comment prefix, possibly empty
	Char   byte   // the repeated character
	Length int    // number of repetitions
}

// ParseUnderline matches the underline pattern against one line.
func (r *Rules) ParseUnderline(line string) (Underline, bool) {
	m := r.underlineRe.FindStringSubmatch(line)
	if m == nil {
		return Underline{}, false
	}
	run := m[2]
	return Underline{Marker: m[1], Char: run[0], Length: len(run)}, true
}

// DoctestKind distinguishes the primary prompt from continuations.
type DoctestKind int

const (
	Primary      DoctestKind = iota // ">>>"
	Continuation                    // "..."
)

// DoctestLine is one recognized interactive-example line.
type DoctestLine struct {
	Kind    DoctestKind
	Prefix  string // indentation and comment markers before the prompt
	Prompt  string // the prompt token itself
	Payload string // text after the prompt, leading space stripped
}

// ParseDoctestLine matches the doctest pattern against one line.
func ParseDoctestLine(line string) (DoctestLine, bool) {
	m := doctestRe.FindStringSubmatch(line)
	if m == nil {
		return DoctestLine{}, false
	}
	kind := Primary
	if m[2] == "..." {
		kind = Continuation
	}
	return DoctestLine{Kind: kind, Prefix: m[1], Prompt: m[2], Payload: m[3]}, true
}

// IsDocComment reports whether the line is a doc-comment line
// ("## " prose, styled as documentation rather than code).
func IsDocComment(line string) bool {
	return docCommentRe.MatchString(line)
}

// DocCommentPrefixLen returns the length of the doc-comment marker prefix
// including its trailing whitespace, or 0 if the line is not a doc comment.
func DocCommentPrefixLen(line string) int {
	if !IsDocComment(line) {
		return 0
	}
	return len(markerRe.FindString(line))
}

// ============================================================================
// Title blocks
// ============================================================================

// TitleBlock is a two-line section heading: a title line followed by an
// underline line. Level is derived from the underline character's position
// in the style list; 0 means the character is not in the list.
type TitleBlock struct {
	Marker          string
	Title           string
	UnderlineMarker string
	UnderlineChar   byte
	UnderlineLen    int
	Level           int

	TitleLine int // line index of the title line
	Start     int // offset of the title line start
	End       int // offset past the underline line, incl. trailing newline
}

// TitleWidth returns the display width of the title text, which is what
// the underline length is kept in sync with.
func (t *TitleBlock) TitleWidth() int {
	return runewidth.StringWidth(t.Title)
}

// ParseTitleBlock recognizes a title block whose title line is line i of
// doc. Returns false when lines i and i+1 do not form a block.
func (r *Rules) ParseTitleBlock(doc *document.Doc, i int) (TitleBlock, bool) {
	if i < 0 || i+1 >= doc.Lines() {
		return TitleBlock{}, false
	}
	tl, ok := ParseTitleLine(doc.LineText(i))
	if !ok {
		return TitleBlock{}, false
	}
	ul, ok := r.ParseUnderline(doc.LineText(i + 1))
	if !ok {
		return TitleBlock{}, false
	}
	return TitleBlock{
		Marker:          tl.Marker,
		Title:           tl.Title,
		UnderlineMarker: ul.Marker,
		UnderlineChar:   ul.Char,
		UnderlineLen:    ul.Length,
		Level:           r.Level(ul.Char),
		TitleLine:       i,
		Start:           doc.LineStart(i),
		End:             doc.NextLineStart(i + 1),
	}, true
}

// TitleBlockAt returns the title block containing line i, whether i is the
// title line or the underline line.
func (r *Rules) TitleBlockAt(doc *document.Doc, i int) (TitleBlock, bool) {
	if tb, ok := r.ParseTitleBlock(doc, i); ok {
		return tb, true
	}
	return r.ParseTitleBlock(doc, i-1)
}

// ============================================================================
// Quoted spans
// ============================================================================

// QuotedSpan is an inline backtick-delimited span. Offsets are relative to
// the line the span was found in and include the delimiters.
type QuotedSpan struct {
	Width   int // 1 for `x`, 2 for ``x``
	Content string
	Start   int
	End     int
}

// QuotedSpans finds all quoted spans in one line. Double-backtick spans are
// located first and claim their ranges, so a double span is never misread
// as two single spans; single spans must not touch a backtick on either
// side and their content must not start or end with a space.
func QuotedSpans(line string) []QuotedSpan {
	var spans []QuotedSpan
	claimed := make([][2]int, 0, 4)

	for _, m := range doubleQuoteRe.FindAllStringSubmatchIndex(line, -1) {
		spans = append(spans, QuotedSpan{
			Width:   2,
			Content: line[m[2]:m[3]],
			Start:   m[0],
			End:     m[1],
		})
		claimed = append(claimed, [2]int{m[0], m[1]})
	}

	for _, m := range singleQuoteRe.FindAllStringSubmatchIndex(line, -1) {
		if overlapsAny(claimed, m[0], m[1]) {
			continue
		}
		content := line[m[2]:m[3]]
		if strings.HasPrefix(content, " ") || strings.HasSuffix(content, " ") {
			continue
		}
		if m[0] > 0 && line[m[0]-1] == '`' {
			continue
		}
		if m[1] < len(line) && line[m[1]] == '`' {
			continue
		}
		spans = append(spans, QuotedSpan{
			Width:   1,
			Content: content,
			Start:   m[0],
			End:     m[1],
		})
	}

	sortSpans(spans)
	return spans
}

func overlapsAny(claimed [][2]int, beg, end int) bool {
	for _, c := range claimed {
		if beg < c[1] && end > c[0] {
			return true
		}
	}
	return false
}

func sortSpans(spans []QuotedSpan) {
	// Insertion sort; spans per line are few.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j-1].Start > spans[j].Start; j-- {
			spans[j-1], spans[j] = spans[j], spans[j-1]
		}
	}
}
