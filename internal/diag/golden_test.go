package diag

import (
	"testing"

	"buble/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/sample.js", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemConstReassign,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     PrsUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error PRS1001 src/sample.js:1:1 first line second\n" +
		"note PRS1001 src/sample.js:2:1 note line\n" +
		"warning SEM3001 src/sample.js:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(8)
	sp := source.Span{File: 0, Start: 5, End: 6}
	bag.Add(NewError(SemConstReassign, sp, "x is read-only"))
	bag.Add(NewError(PrsUnexpectedToken, source.Span{Start: 1, End: 2}, "Unexpected token"))
	bag.Add(NewError(SemConstReassign, sp, "x is read-only"))

	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", bag.Len())
	}
	bag.Sort()
	if bag.Items()[0].Code != PrsUnexpectedToken {
		t.Fatalf("expected parse error first, got %s", bag.Items()[0].Code.ID())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(NewError(UnknownCode, source.Span{}, "one")) {
		t.Fatalf("first Add must succeed")
	}
	if bag.Add(NewError(UnknownCode, source.Span{}, "two")) {
		t.Fatalf("second Add must hit the limit")
	}
}

func TestFormatShortWithoutFile(t *testing.T) {
	fs := source.NewFileSet()
	diags := []Diagnostic{NewError(IOLoadFileError, source.Span{File: source.NoFileID}, "gone.js: no such file")}
	want := "error " + IOLoadFileError.ID() + " -:0:0 gone.js: no such file"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLockedReporterFillsBag(t *testing.T) {
	bag := NewBag(4)
	r := &LockedReporter{Next: BagReporter{Bag: bag}}
	ReportError(r, SemConstReassign, source.Span{Start: 3, End: 4}, "a is read-only").
		WithNote(source.Span{Start: 0, End: 1}, "declared here").
		Emit()
	if bag.Len() != 1 {
		t.Fatalf("bag has %d items, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != SevError || len(d.Notes) != 1 || d.Notes[0].Msg != "declared here" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestSeverityLevels(t *testing.T) {
	tests := []struct {
		sev   Severity
		sarif string
		fatal bool
	}{
		{SevInfo, "note", false},
		{SevWarning, "warning", false},
		{SevError, "error", true},
	}
	for _, tt := range tests {
		if got := tt.sev.SARIFLevel(); got != tt.sarif {
			t.Errorf("%s.SARIFLevel() = %q, want %q", tt.sev, got, tt.sarif)
		}
		if got := tt.sev.Fatal(); got != tt.fatal {
			t.Errorf("%s.Fatal() = %v, want %v", tt.sev, got, tt.fatal)
		}
	}
}
