package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"subburn/internal/batch"
	"subburn/internal/state"
)

// BatchReporter forwards batch progress to a bubbletea program.
type BatchReporter struct {
	send func(tea.Msg)
}

var _ batch.ProgressReporter = (*BatchReporter)(nil)

// NewBatchReporter wraps a send callback such as the one RunWithWork hands
// to its work function.
func NewBatchReporter(send func(tea.Msg)) *BatchReporter {
	return &BatchReporter{send: send}
}

// Start implements batch.ProgressReporter.
func (r *BatchReporter) Start(action state.TargetAction) {
	r.send(JobStartedMsg{Action: action})
}

// Complete implements batch.ProgressReporter.
func (r *BatchReporter) Complete(res batch.Result) {
	r.send(JobDoneMsg{Result: res})
}
