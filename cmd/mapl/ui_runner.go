package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mapl/internal/buildpipeline"
	"mapl/internal/driver"
	"mapl/internal/source"
	"mapl/internal/ui"
)

type buildOutcome struct {
	result driver.BuildResult
	err    error
}

// runBuildWithUI runs the build in the background and renders its
// progress until the event channel closes.
func runBuildWithUI(ctx context.Context, title, baseDir string, req *driver.BuildRequest) (driver.BuildResult, error) {
	if req == nil {
		return driver.BuildResult{}, fmt.Errorf("missing build request")
	}
	files := make([]string, len(req.Scripts))
	for i, s := range req.Scripts {
		files[i] = source.NormalizePath(s.Path)
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.Build(ctx, &reqCopy)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, baseDir, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
