package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWithWork creates a bubbletea program, launches workFn in a goroutine,
// and blocks until the program exits. workFn receives a send callback that
// wraps tea.Program.Send with a small yield so the renderer can draw
// between updates. onQuit runs when the user leaves the view before the
// work finishes; callers pass a context cancel func.
func RunWithWork(out io.Writer, model BatchModel, onQuit func(), workFn func(send func(tea.Msg))) error {
	p := tea.NewProgram(model, tea.WithOutput(out))
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)

		workFn(func(msg tea.Msg) {
			p.Send(msg)
			time.Sleep(5 * time.Millisecond)
		})

		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	m, ok := finalModel.(BatchModel)
	if ok && m.Err() == ErrInterrupted {
		if onQuit != nil {
			onQuit()
		}
		<-finished
	}
	if ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
