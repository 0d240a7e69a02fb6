package snippet

import (
	"errors"
	"testing"

	"github.com/cpitclaudel/litpy/internal/document"
)

func TestReadSingle(t *testing.T) {
	doc := document.New(">>> a = 1\n>>> b = 2\n")

	s, err := ReadSingle(doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Command != "a = 1" || s.LastLine != 0 {
		t.Errorf("snippet = %+v", s)
	}

	s, err = ReadSingle(doc, doc.LineStart(1))
	if err != nil {
		t.Fatal(err)
	}
	if s.Command != "b = 2" || s.LastLine != 1 {
		t.Errorf("snippet = %+v", s)
	}
}

func TestReadSingleContinuation(t *testing.T) {
	doc := document.New("# >>> for x in y:\n# ...     pass\nprint\n")

	// Invoked from the continuation line, the snippet walks back to the
	// primary prompt and splices payloads with newlines.
	s, err := ReadSingle(doc, doc.LineStart(1))
	if err != nil {
		t.Fatal(err)
	}
	if want := "for x in y:\n    pass"; s.Command != want {
		t.Errorf("command = %q, want %q", s.Command, want)
	}
	if s.LastLine != 1 {
		t.Errorf("last line = %d, want 1", s.LastLine)
	}
}

func TestReadBlock(t *testing.T) {
	doc := document.New(">>> a = 1\n>>> b = 2\nrest\n")

	sns, err := ReadBlock(doc, doc.LineStart(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(sns) != 2 {
		t.Fatalf("got %d snippets, want 2", len(sns))
	}
	if sns[0].Command != "a = 1" || sns[1].Command != "b = 2" {
		t.Errorf("snippets = %+v", sns)
	}
}

func TestReadBlockJustPastEnd(t *testing.T) {
	doc := document.New(">>> a = 1\n")

	// Position on the empty line after the block still finds it.
	sns, err := ReadBlock(doc, doc.Len())
	if err != nil {
		t.Fatal(err)
	}
	if len(sns) != 1 || sns[0].Command != "a = 1" {
		t.Errorf("snippets = %+v", sns)
	}
}

func TestNoSnippet(t *testing.T) {
	doc := document.New("x = 1\n")

	if _, err := ReadSingle(doc, 0); !errors.Is(err, ErrNoSnippet) {
		t.Errorf("ReadSingle error = %v, want ErrNoSnippet", err)
	}
	if _, err := ReadBlock(doc, 0); !errors.Is(err, ErrNoSnippet) {
		t.Errorf("ReadBlock error = %v, want ErrNoSnippet", err)
	}
}
