// Package annotate converts grammar matches into per-range visual
// directives: a style tag plus a hidden flag for markup characters.
// Annotation is a pure function of the text, the toggles and the
// highlighter, so re-running it over an unchanged range is idempotent.
package annotate

import (
	"sort"

	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
)

// Style tags a character range with a rendering treatment. The renderer
// resolves tags to concrete terminal styles through an explicit table.
type Style int

const (
	StyleNone Style = iota
	StyleTitle1
	StyleTitle2
	StyleTitle3
	StyleProse         // doc comments and titles with out-of-list underlines
	StyleMarkup        // comment markers, underlines, backtick delimiters
	StyleDoctestPrompt // the ">>>" / "..." token
	StyleDoctestCode   // doctest payload
	StyleVerbatim      // single-backtick content
	StyleCode          // double-backtick content

	// Token styles produced by the embedded-language highlighter.
	StyleKeyword
	StyleString
	StyleComment
	StyleLiteral
	StyleName
	StyleOperator
)

// Directive is one per-range rendering instruction. Hidden markup renders
// zero-width; a directive with Underlined set asks for a thin decorative
// underline on the styled text (used for titles whose underline run is
// hidden).
type Directive struct {
	Start      int
	End        int
	Style      Style
	Hidden     bool
	Underlined bool
}

// Span is a styled sub-range of a highlighted code string, relative to
// the string's start.
type Span struct {
	Start int
	End   int
	Style Style
}

// Highlighter is the embedded-language collaborator. It must be
// re-entrant: it is called from inside an annotation pass.
type Highlighter interface {
	Highlight(code, lang string) []Span
}

// Options are the two independent markup-hiding toggles.
type Options struct {
	HideTitleMarkup bool
	HideQuotes      bool
}

// Annotator turns matched constructs into directives.
type Annotator struct {
	rules *grammar.Rules
	hl    Highlighter
	lang  string
	opts  Options
}

// New creates an annotator. hl may be nil, in which case doctest payloads
// and double-quoted content keep their base style with no token spans.
func New(rules *grammar.Rules, hl Highlighter, lang string) *Annotator {
	return &Annotator{rules: rules, hl: hl, lang: lang, opts: Options{HideQuotes: true}}
}

// SetOptions replaces the hiding toggles.
func (a *Annotator) SetOptions(opts Options) {
	a.opts = opts
}

// Options returns the current toggles.
func (a *Annotator) Options() Options {
	return a.opts
}

// Annotate produces directives for every construct in [beg, end). The
// range should already be aligned by the region extender so title blocks
// are never split. Directives are returned sorted by start offset.
func (a *Annotator) Annotate(doc *document.Doc, beg, end int) []Directive {
	var out []Directive
	from := doc.LineOf(beg)
	to := doc.LineOf(end)
	if end > 0 && end == doc.LineStart(to) && to > from {
		to-- // exclusive end sitting on a line boundary
	}

	sc := a.rules.Scan(doc, from, to)
	for {
		m, ok := sc.Next()
		if !ok {
			break
		}
		switch m.Kind {
		case grammar.MatchTitle:
			out = a.titleDirectives(out, doc, m)
		case grammar.MatchDocComment:
			out = a.docCommentDirectives(out, doc, m)
		case grammar.MatchDoctest:
			out = a.doctestDirectives(out, doc, m)
		case grammar.MatchQuote:
			out = a.quoteDirectives(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// titleStyle maps an underline level to its style tag. Levels escalate
// through three distinct styles; anything else renders as prose.
func titleStyle(level int) Style {
	switch level {
	case 1:
		return StyleTitle1
	case 2:
		return StyleTitle2
	case 3:
		return StyleTitle3
	default:
		return StyleProse
	}
}

func (a *Annotator) titleDirectives(out []Directive, doc *document.Doc, m grammar.Match) []Directive {
	tb := m.Title
	hide := a.opts.HideTitleMarkup
	style := titleStyle(tb.Level)

	titleStart := tb.Start + len(tb.Marker)
	titleEnd := titleStart + len(tb.Title)

	if len(tb.Marker) > 0 {
		out = append(out, Directive{Start: tb.Start, End: titleStart, Style: StyleMarkup, Hidden: hide})
	}
	out = append(out, Directive{Start: titleStart, End: titleEnd, Style: style, Underlined: hide})

	ulStart := doc.LineStart(tb.TitleLine + 1)
	ulRunStart := ulStart + len(tb.UnderlineMarker)
	// The whole underline line is markup: marker, run and trailing
	// newline all hide together so the block collapses to one line.
	if ulRunStart > ulStart {
		out = append(out, Directive{Start: ulStart, End: ulRunStart, Style: StyleMarkup, Hidden: hide})
	}
	out = append(out, Directive{Start: ulRunStart, End: tb.End, Style: StyleMarkup, Hidden: hide})
	return out
}

func (a *Annotator) docCommentDirectives(out []Directive, doc *document.Doc, m grammar.Match) []Directive {
	start := doc.LineStart(m.Line)
	end := doc.LineEnd(m.Line)
	out = append(out, Directive{Start: start, End: start + m.PrefixLen, Style: StyleMarkup, Hidden: a.opts.HideTitleMarkup})
	if start+m.PrefixLen < end {
		out = append(out, Directive{Start: start + m.PrefixLen, End: end, Style: StyleProse})
	}
	return out
}

func (a *Annotator) doctestDirectives(out []Directive, doc *document.Doc, m grammar.Match) []Directive {
	dt := m.Doctest
	start := doc.LineStart(m.Line)
	promptStart := start + len(dt.Prefix)
	promptEnd := promptStart + len(dt.Prompt)
	payloadStart := doc.LineEnd(m.Line) - len(dt.Payload)

	out = append(out, Directive{Start: promptStart, End: promptEnd, Style: StyleDoctestPrompt})
	if dt.Payload != "" {
		out = append(out, Directive{Start: payloadStart, End: payloadStart + len(dt.Payload), Style: StyleDoctestCode})
		out = a.highlightInto(out, dt.Payload, payloadStart)
	}
	return out
}

func (a *Annotator) quoteDirectives(out []Directive, m grammar.Match) []Directive {
	q := m.Quote
	hide := a.opts.HideQuotes
	contentStart := q.Start + q.Width
	contentEnd := q.End - q.Width

	out = append(out, Directive{Start: q.Start, End: contentStart, Style: StyleMarkup, Hidden: hide})
	if q.Width == 2 {
		out = append(out, Directive{Start: contentStart, End: contentEnd, Style: StyleCode})
		out = a.highlightInto(out, q.Content, contentStart)
	} else {
		out = append(out, Directive{Start: contentStart, End: contentEnd, Style: StyleVerbatim})
	}
	out = append(out, Directive{Start: contentEnd, End: q.End, Style: StyleMarkup, Hidden: hide})
	return out
}

// highlightInto re-highlights code through the embedded-language
// collaborator and offsets the resulting spans into document positions.
func (a *Annotator) highlightInto(out []Directive, code string, base int) []Directive {
	if a.hl == nil {
		return out
	}
	for _, sp := range a.hl.Highlight(code, a.lang) {
		if sp.Style == StyleNone || sp.End <= sp.Start {
			continue
		}
		out = append(out, Directive{Start: base + sp.Start, End: base + sp.End, Style: sp.Style})
	}
	return out
}
