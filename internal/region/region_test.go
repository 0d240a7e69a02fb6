package region

import (
	"testing"

	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
)

// extendToFixedPoint loops Extend until it stops changing and returns the
// final range plus the number of changing iterations.
func extendToFixedPoint(rules *grammar.Rules, doc *document.Doc, beg, end int) (int, int, int) {
	iters := 0
	for {
		nb, ne, changed := Extend(rules, doc, beg, end)
		beg, end = nb, ne
		if !changed {
			return beg, end, iters
		}
		iters++
	}
}

func TestExtendUnderlineEdit(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("code\n# Title\n# =====\nafter\n")
	// Lines: [0,5) [5,13) [13,21) [21,27)

	// An edit inside the underline pulls in the title line.
	beg, end, iters := extendToFixedPoint(rules, doc, 15, 16)
	if beg != 5 {
		t.Errorf("beg = %d, want 5 (title line start)", beg)
	}
	if end < 20 {
		t.Errorf("end = %d, want at least 20 (underline line end)", end)
	}
	if iters > 2 {
		t.Errorf("fixed point took %d iterations, want <= 2", iters)
	}
}

func TestExtendTitleEdit(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("code\n# Title\n# =====\nafter\n")

	// An edit on the title line pulls in the whole block including the
	// underline's trailing newline.
	beg, end, iters := extendToFixedPoint(rules, doc, 6, 7)
	if beg != 5 || end != 21 {
		t.Errorf("range = [%d, %d), want [5, 21)", beg, end)
	}
	if iters > 2 {
		t.Errorf("fixed point took %d iterations, want <= 2", iters)
	}
}

func TestExtendPlainLine(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("code\n# Title\n# =====\nafter\n")

	beg, end, changed := Extend(rules, doc, 1, 2)
	if beg != 0 || end != 4 {
		t.Errorf("range = [%d, %d), want [0, 4)", beg, end)
	}
	if !changed {
		t.Error("expected the range to widen to the full line")
	}

	// Re-extending the aligned range is a no-op.
	if _, _, changed := Extend(rules, doc, beg, end); changed {
		t.Error("aligned range changed again")
	}
}

func TestExtendNeverShrinks(t *testing.T) {
	rules := grammar.Default()
	doc := document.New("# A\n# ===\ntext\n# B\n# ---\n")

	for beg := 0; beg <= doc.Len(); beg += 3 {
		for end := beg; end <= doc.Len(); end += 4 {
			nb, ne, _ := Extend(rules, doc, beg, end)
			if nb > beg || ne < end {
				t.Fatalf("Extend(%d, %d) = [%d, %d) shrank the range", beg, end, nb, ne)
			}
		}
	}
}
