package buildpipeline

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestRecorderTracksFinalStatusAndTimings(t *testing.T) {
	var rec Recorder
	EmitQueued(&rec, []string{"a.js", "b.js"})
	Emit(&rec, "a.js", StageParse, StatusWorking, nil, 0)
	Emit(&rec, "a.js", StageEmit, StatusDone, nil, 3*time.Millisecond)
	Emit(&rec, "b.js", StageTransform, StatusError, errors.New("boom"), 2*time.Millisecond)
	Emit(&rec, "", StageBuild, StatusDone, nil, 10*time.Millisecond)

	final := rec.Final()
	if final["a.js"] != StatusDone || final["b.js"] != StatusError {
		t.Fatalf("final = %v", final)
	}
	tm := rec.Timings()
	if tm.Duration(StageEmit) != 3*time.Millisecond {
		t.Errorf("emit = %v", tm.Duration(StageEmit))
	}
	if tm.Has(StageBuild) {
		t.Error("pipeline-level events must not count as file timings")
	}
	if got := tm.Sum(Stages...); got != 5*time.Millisecond {
		t.Errorf("sum = %v", got)
	}
}

func TestMultiSinkAndFuncSink(t *testing.T) {
	var n int
	var rec Recorder
	sink := MultiSink{&rec, FuncSink(func(Event) { n++ }), nil}
	sink.OnEvent(Event{File: "x.js", Stage: StageLoad, Status: StatusQueued})
	if n != 1 || len(rec.Events()) != 1 {
		t.Fatalf("n = %d, events = %d", n, len(rec.Events()))
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a.js"})
	if ev := <-ch; ev.File != "a.js" {
		t.Fatalf("got %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{}) // nil channel is ignored
}

func TestNormalizeProgressFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "src", "b.js"),
		filepath.Join(base, "a.js"),
		filepath.Join(base, "a.js"),
		"",
	}
	got := NormalizeProgressFiles(files, base)
	if len(got) != 2 || got[0] != "a.js" || got[1] != "src/b.js" {
		t.Fatalf("got %v", got)
	}
}
