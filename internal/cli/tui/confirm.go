package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmMsg struct {
	prompt string
	answer chan<- bool
}

// promptConfirmer asks the running program for a yes/no answer and blocks
// until it arrives. It must not be called from the program's event loop.
type promptConfirmer struct {
	send func(tea.Msg)
}

func (c *promptConfirmer) Confirm(ctx context.Context, prompt string) bool {
	answer := make(chan bool, 1)
	c.send(confirmMsg{prompt: prompt, answer: answer})

	select {
	case ok := <-answer:
		return ok
	case <-ctx.Done():
		return false
	}
}
