package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"buble/internal/buildpipeline"
	"buble/internal/driver"
	"buble/internal/ui"
)

type buildOutcome struct {
	result *driver.BuildResult
	err    error
}

// runBuildWithUI builds files while a progress view consumes the events.
// sink, if set, sees every event as well.
func runBuildWithUI(ctx context.Context, title string, b *driver.Builder, files []string, display []string, sink buildpipeline.ProgressSink) (*driver.BuildResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	var progress buildpipeline.ProgressSink = buildpipeline.ChannelSink{Ch: events}
	if sink != nil {
		progress = buildpipeline.MultiSink{progress, sink}
	}

	go func() {
		res, err := b.BuildFiles(ctx, files, progress)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, display, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
