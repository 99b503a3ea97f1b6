package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"buble/internal/diag"
	"buble/internal/source"
)

func constReassignBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("const a = 1;\na = 2;\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.js", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	d := diag.NewError(diag.SemConstReassign, source.Span{File: fileID, Start: 13, End: 14}, "a is read-only")
	d = d.WithNote(source.Span{File: fileID, Start: 6, End: 7}, "declared here")
	bag.Add(d)
	return bag, fs
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := constReassignBag(t)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" {
		t.Errorf("Expected severity=ERROR, got %s", d.Severity)
	}
	if d.Code != "SEM3001" {
		t.Errorf("Expected code=SEM3001, got %s", d.Code)
	}
	if d.Location.File != "test.js" {
		t.Errorf("Expected file=test.js, got %s", d.Location.File)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 1 {
		t.Errorf("Expected 2:1, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "declared here" {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestJSONMaxAndNoPositions(t *testing.T) {
	bag, fs := constReassignBag(t)
	bag.Add(diag.NewError(diag.UnsMissingTransform, source.Span{}, "second"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("Max was ignored: %d", out.Count)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Error("positions included without IncludePositions")
	}
	if out.Diagnostics[0].Notes != nil {
		t.Error("notes included without IncludeNotes")
	}
}

func TestSarif(t *testing.T) {
	bag, fs := constReassignBag(t)

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "buble", ToolVersion: "test", InvocationArgs: []string{"build"}}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if len(log.Runs) != 1 || len(log.Runs[0].Results) != 1 {
		t.Fatalf("unexpected runs: %+v", log.Runs)
	}
	res := log.Runs[0].Results[0]
	if res.RuleID != "SEM3001" || res.Level != "error" {
		t.Errorf("result = %+v", res)
	}
	if uri := res.Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "src/test.js" {
		t.Errorf("uri = %q", uri)
	}
	if log.Runs[0].Invocations[0].ExecutionSuccessful {
		t.Error("run with errors marked successful")
	}
}
