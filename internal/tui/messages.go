package tui

import (
	"errors"

	"subburn/internal/batch"
	"subburn/internal/state"
)

// ErrInterrupted is reported when the user quits the progress view.
var ErrInterrupted = errors.New("interrupted")

// JobStartedMsg marks a cue file as compiling.
type JobStartedMsg struct {
	Action state.TargetAction
}

// JobDoneMsg carries a cue file's final result, whether it compiled,
// was skipped or failed.
type JobDoneMsg struct {
	Result batch.Result
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
