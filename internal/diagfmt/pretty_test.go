package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"buble/internal/diag"
	"buble/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := constReassignBag(t)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.js:2:1:"},
		{"Relative path", PathModeRelative, "src/test.js:2:1:"},
		{"Basename only", PathModeBasename, "test.js:2:1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output lacks %q:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyFrame(t *testing.T) {
	bag, fs := constReassignBag(t)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1, ShowNotes: true})

	want := strings.Join([]string{
		"test.js:2:1: ERROR SEM3001: a is read-only",
		"1 | const a = 1;",
		"2 | a = 2;",
		"  | ^",
		"  note: declared here",
		"1 | const a = 1;",
		"  |       ^",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("Pretty() =\n%s\nwant\n%s", got, want)
	}
}

func TestPrettyWideCharacters(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("wide.js", []byte("var s = '日本' + x;\n"))
	bag := diag.NewBag(1)
	// `x` after two double-width characters
	off := uint32(strings.Index("var s = '日本' + x;", "x"))
	bag.Add(diag.NewError(diag.UnsMissingTransform, source.Span{File: id, Start: off, End: off + 1}, "boom"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	caret := strings.Index(lines[2], "^")
	// "1 | " + "var s = '" (9) + 4 columns for two wide runes + "' + " (4)
	if caret != 4+9+4+4 {
		t.Errorf("caret at %d:\n%s", caret, buf.String())
	}
}
