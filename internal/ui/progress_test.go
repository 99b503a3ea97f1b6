package ui

import (
	"strings"
	"testing"

	"buble/internal/buildpipeline"
)

func TestApplyEventTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("build", []string{"a.js", "b.js"}, events).(*progressModel)

	m.applyEvent(buildpipeline.Event{File: "a.js", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("a.js status = %q, want parsing", got)
	}

	m.applyEvent(buildpipeline.Event{File: "a.js", Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "b.js", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusCached})
	if m.items[1].status != "cached" {
		t.Fatalf("b.js status = %q, want cached", m.items[1].status)
	}
	if p := m.percent(); p != 1.0 {
		t.Errorf("percent = %v, want 1", p)
	}

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageBuild, Status: buildpipeline.StatusWorking})
	if m.stageLabel != "building" {
		t.Errorf("stage label = %q", m.stageLabel)
	}

	// unknown files are ignored
	m.applyEvent(buildpipeline.Event{File: "zzz.js", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
}

func TestTruncate(t *testing.T) {
	got := truncate("src/components/button.jsx", 10)
	if !strings.HasSuffix(got, "...") || len(got) > 10 {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a.js", 10); got != "a.js" {
		t.Errorf("truncate = %q", got)
	}
}
