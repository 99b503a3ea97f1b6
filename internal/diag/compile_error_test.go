package diag

import (
	"strings"
	"testing"

	"buble/internal/source"
)

func TestSnippet(t *testing.T) {
	src := "one\ntwo\nthree\nfour\nfive\nsix\n\tx = 1;"
	got := Snippet(src, source.Loc{Line: 7, Column: 1}, 1)
	want := strings.Join([]string{
		"3 : three",
		"4 : four",
		"5 : five",
		"6 : six",
		"7 :   x = 1;",
		"      ^",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected snippet:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompileErrorMessage(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", []byte("const x = 1;\nx = 2;"))
	err := NewCompileError(fs.Get(id), SemConstReassign, source.Span{File: id, Start: 13, End: 14}, "x is read-only")

	if err.Error() != "x is read-only (2:0)" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err.Loc != (source.Loc{Line: 2, Column: 0}) {
		t.Fatalf("unexpected loc %+v", err.Loc)
	}
	wantSnippet := "1 : const x = 1;\n2 : x = 2;\n    ^"
	if err.Snippet != wantSnippet {
		t.Fatalf("unexpected snippet:\n%s", err.Snippet)
	}
	if !strings.HasPrefix(err.Format(), "CompileError: x is read-only (2:0)\n") {
		t.Fatalf("unexpected format %q", err.Format())
	}
}
