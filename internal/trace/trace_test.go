package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"off", LevelOff, true},
		{"", LevelOff, true},
		{"PHASE", LevelPhase, true},
		{"detail", LevelDetail, true},
		{"debug", LevelDebug, true},
		{"loud", LevelOff, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeFile) {
		t.Error("phase level must not record files")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) {
		t.Error("detail level must record files")
	}
	if LevelOff.ShouldEmit(ScopeDriver) {
		t.Error("off records nothing")
	}
}

func TestRingWrapsAround(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Errorf("order = %q, want %q", got, "cde")
	}
}

func TestStartNestsSpans(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), r)

	ctx, outer := Start(ctx, ScopeDriver, "compile")
	_, inner := Start(ctx, ScopePass, "parse")
	inner.End("")
	outer.WithExtra("file", "a.js").End("ok")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("got %d events, want 4", len(snap))
	}
	if snap[1].Name != "parse" || snap[1].ParentID != outer.ID() {
		t.Errorf("parse span parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
	if snap[3].Extra["file"] != "a.js" || snap[3].Detail != "ok" {
		t.Errorf("end event = %+v", snap[3])
	}
}

func TestFilteredSpanKeepsParent(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), r)

	ctx, outer := Start(ctx, ScopeDriver, "build")
	ctx, file := Start(ctx, ScopeFile, "file:a.js")
	_, pass := Start(ctx, ScopePass, "parse")
	pass.End("")
	file.End("")
	outer.End("")

	for _, ev := range r.Snapshot() {
		if ev.Scope == ScopeFile {
			t.Fatalf("file span recorded at phase level: %+v", ev)
		}
		if ev.Name == "parse" && ev.ParentID != outer.ID() {
			t.Errorf("parse parent = %d, want %d", ev.ParentID, outer.ID())
		}
	}
}

func TestNDJSONStream(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf, Format: FormatNDJSON})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "transpile", 0).End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev["kind"] != "begin" || ev["name"] != "transpile" || ev["scope"] != "pass" {
		t.Errorf("unexpected event %v", ev)
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{Kind: KindSpanEnd, Name: "render", Extra: map[string]string{"z": "1", "a": "2"}}
	got := string(formatText(ev, ev.Time))
	if !strings.Contains(got, "← render {a=2, z=1}") {
		t.Errorf("formatText = %q", got)
	}
}

func TestErrorLevelUsesRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	if Ring(tr) == nil {
		t.Fatalf("error level should record into a ring, got %T", tr)
	}
}
