package grammar

import (
	"testing"

	"github.com/cpitclaudel/litpy/internal/document"
)

func collect(sc *Scanner) []Match {
	var out []Match
	for {
		m, ok := sc.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func TestScannerMixedDocument(t *testing.T) {
	rules := Default()
	doc := document.New("# Intro\n# =====\n## prose with `q`\n# >>> x = 1\nplain\n")

	ms := collect(rules.Scan(doc, 0, doc.Lines()-1))
	kinds := make([]MatchKind, len(ms))
	for i, m := range ms {
		kinds[i] = m.Kind
	}

	want := []MatchKind{MatchTitle, MatchDocComment, MatchQuote, MatchDoctest}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}

	// Quote offsets are absolute document positions.
	q := ms[2].Quote
	if doc.Slice(q.Start, q.End) != "`q`" {
		t.Errorf("quote range [%d, %d) = %q, want %q", q.Start, q.End, doc.Slice(q.Start, q.End), "`q`")
	}

	// The title block consumed both of its lines.
	if ms[0].Title.TitleLine != 0 || ms[0].Title.End != 16 {
		t.Errorf("title block = %+v", ms[0].Title)
	}
}

func TestScannerSkipsQuotesOnDoctestLines(t *testing.T) {
	rules := Default()
	doc := document.New("# >>> f(`x`)\n")

	ms := collect(rules.Scan(doc, 0, doc.Lines()-1))
	if len(ms) != 1 || ms[0].Kind != MatchDoctest {
		t.Fatalf("matches = %+v, want one doctest", ms)
	}
}

func TestScannerRangeRestart(t *testing.T) {
	rules := Default()
	doc := document.New("`a`\n`b`\n`c`\n")

	ms := collect(rules.Scan(doc, 1, 1))
	if len(ms) != 1 {
		t.Fatalf("matches = %+v, want one quote", ms)
	}
	if got := doc.Slice(ms[0].Quote.Start, ms[0].Quote.End); got != "`b`" {
		t.Errorf("quote = %q, want %q", got, "`b`")
	}
}
