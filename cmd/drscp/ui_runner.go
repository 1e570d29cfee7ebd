package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/contest"
	"github.com/N7DR/drscp/internal/pipeline"
	"github.com/N7DR/drscp/internal/scheduler"
	"github.com/N7DR/drscp/internal/ui"
)

type runOutcome struct {
	result *scheduler.Result
	err    error
}

// runWithUI runs the scheduler while a Bubble Tea model renders per-contest
// progress on stderr. Dictionary output stays on stdout.
func runWithUI(ctx context.Context, contests []contest.Contest, cfg config.Config) (*scheduler.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		result, err := scheduler.Run(ctx, contests, cfg, pipeline.ChannelSink{Ch: events})
		outcomeCh <- runOutcome{result: result, err: err}
		close(events)
	}()

	dirs := make([]string, 0, len(contests))
	for _, cst := range contests {
		dirs = append(dirs, cst.Dir)
	}

	model := ui.NewProgressModel("drscp", dirs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
