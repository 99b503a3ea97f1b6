package observ

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestReportAggregatesByName(t *testing.T) {
	tm := NewTimer()
	for range 3 {
		tm.End(tm.Begin("parse"), "")
	}
	tm.End(tm.Begin("transpile"), "")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Count != 3 {
		t.Errorf("first phase = %+v", r.Phases[0])
	}
}

func TestMeasureNotesFailure(t *testing.T) {
	tm := NewTimer()
	err := tm.Measure("render", func() error { return errors.New("boom") })
	if err == nil {
		t.Fatal("error was swallowed")
	}
	if !strings.Contains(tm.Summary(), "// failed") {
		t.Errorf("summary lacks failure note:\n%s", tm.Summary())
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("parse"), "")
	if len(tm.Report().Phases) != 0 {
		t.Error("nil timer reported phases")
	}
}

func TestTimerFromContext(t *testing.T) {
	tm := NewTimer()
	ctx := WithTimer(context.Background(), tm)
	if TimerFrom(ctx) != tm {
		t.Fatal("timer lost in context")
	}
	if TimerFrom(context.Background()) != nil {
		t.Fatal("empty context returned a timer")
	}
}
