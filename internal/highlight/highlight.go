// Package highlight adapts chroma to the annotator's embedded-language
// highlighter interface. Each call tokenizes independently, so the
// highlighter is re-entrant and safe to invoke from inside an annotation
// pass.
package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/cpitclaudel/litpy/internal/annotate"
)

// Chroma implements annotate.Highlighter using chroma lexers.
type Chroma struct{}

// NewChroma returns a chroma-backed highlighter.
func NewChroma() *Chroma {
	return &Chroma{}
}

// Highlight tokenizes code in the given language and returns styled
// spans. Unknown languages fall back to chroma's analysis lexer; spans
// that carry no interesting style are omitted.
func (h *Chroma) Highlight(code, lang string) []annotate.Span {
	lex := lexers.Get(lang)
	if lex == nil {
		lex = lexers.Fallback
	}
	lex = chroma.Coalesce(lex)

	it, err := lex.Tokenise(nil, code)
	if err != nil {
		return nil
	}

	var spans []annotate.Span
	offset := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		n := len(tok.Value)
		if style := styleFor(tok.Type); style != annotate.StyleNone {
			spans = append(spans, annotate.Span{Start: offset, End: offset + n, Style: style})
		}
		offset += n
	}
	return spans
}

// styleFor maps chroma token categories onto annotate styles.
func styleFor(tt chroma.TokenType) annotate.Style {
	switch {
	case tt.InCategory(chroma.Keyword):
		return annotate.StyleKeyword
	case tt.InSubCategory(chroma.LiteralString):
		return annotate.StyleString
	case tt.InCategory(chroma.Literal):
		return annotate.StyleLiteral
	case tt.InCategory(chroma.Comment):
		return annotate.StyleComment
	case tt.InCategory(chroma.Operator):
		return annotate.StyleOperator
	case tt == chroma.NameFunction, tt == chroma.NameClass,
		tt == chroma.NameBuiltin, tt == chroma.NameDecorator:
		return annotate.StyleName
	default:
		return annotate.StyleNone
	}
}
