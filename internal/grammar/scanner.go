package grammar

import "github.com/cpitclaudel/litpy/internal/document"

// MatchKind identifies which construct a Match describes.
type MatchKind int

const (
	MatchTitle MatchKind = iota
	MatchDocComment
	MatchDoctest
	MatchQuote
)

// Match is one recognized construct. Only the field for its kind is
// populated. Quote offsets are absolute document positions.
type Match struct {
	Kind MatchKind
	Line int

	Title     TitleBlock
	Doctest   DoctestLine
	Quote     QuotedSpan
	PrefixLen int // doc-comment marker length, for MatchDocComment
}

// Scanner walks a line range and produces matches lazily, one Next call at
// a time. It can be restarted from any line boundary, which is what the
// incremental re-annotation path relies on.
type Scanner struct {
	rules   *Rules
	doc     *document.Doc
	line    int
	endLine int
	queue   []Match
}

// Scan returns a scanner over lines [fromLine, toLine] of doc.
func (r *Rules) Scan(doc *document.Doc, fromLine, toLine int) *Scanner {
	if fromLine < 0 {
		fromLine = 0
	}
	if toLine >= doc.Lines() {
		toLine = doc.Lines() - 1
	}
	return &Scanner{rules: r, doc: doc, line: fromLine, endLine: toLine}
}

// Next returns the next match in document order, or false when the range
// is exhausted.
func (s *Scanner) Next() (Match, bool) {
	for len(s.queue) == 0 {
		if s.line > s.endLine {
			return Match{}, false
		}
		s.scanLine(s.line)
	}
	m := s.queue[0]
	s.queue = s.queue[1:]
	return m, true
}

func (s *Scanner) scanLine(i int) {
	text := s.doc.LineText(i)

	if tb, ok := s.rules.ParseTitleBlock(s.doc, i); ok {
		s.queue = append(s.queue, Match{Kind: MatchTitle, Line: i, Title: tb})
		s.queueQuotes(i, text)
		// The underline line belongs to the block; skip it.
		s.line = i + 2
		return
	}

	switch {
	case IsDocComment(text):
		s.queue = append(s.queue, Match{
			Kind:      MatchDocComment,
			Line:      i,
			PrefixLen: DocCommentPrefixLen(text),
		})
		s.queueQuotes(i, text)
	default:
		if dt, ok := ParseDoctestLine(text); ok {
			s.queue = append(s.queue, Match{Kind: MatchDoctest, Line: i, Doctest: dt})
		} else {
			s.queueQuotes(i, text)
		}
	}
	s.line = i + 1
}

func (s *Scanner) queueQuotes(i int, text string) {
	base := s.doc.LineStart(i)
	for _, q := range QuotedSpans(text) {
		q.Start += base
		q.End += base
		s.queue = append(s.queue, Match{Kind: MatchQuote, Line: i, Quote: q})
	}
}
