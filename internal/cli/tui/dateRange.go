package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GustavoCaso/expenseview/internal/expense"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

// rangeForm collects the two bounds of the date range filter.
type rangeForm struct {
	start   textinput.Model
	end     textinput.Model
	focused int
	err     string
}

func newRangeForm() rangeForm {
	newInput := func(placeholder string) textinput.Model {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = len(expense.MinuteLayout)
		input.Width = 20
		input.Placeholder = placeholder
		return input
	}

	return rangeForm{
		start: newInput(expense.DayLayout),
		end:   newInput(expense.DayLayout),
	}
}

// Load shows the bounds currently set and focuses the start field.
func (f rangeForm) Load(r expense.DateRange) (rangeForm, tea.Cmd) {
	f.start.SetValue(r.Start)
	f.end.SetValue(r.End)
	f.err = ""
	return f.focus(0)
}

func (f rangeForm) focus(index int) (rangeForm, tea.Cmd) {
	f.focused = index % 2
	if f.focused == 0 {
		f.end.Blur()
		return f, f.start.Focus()
	}
	f.start.Blur()
	return f, f.end.Focus()
}

func (f rangeForm) Toggle() (rangeForm, tea.Cmd) {
	return f.focus(f.focused + 1)
}

func (f rangeForm) Clear() rangeForm {
	if f.focused == 0 {
		f.start.SetValue("")
	} else {
		f.end.SetValue("")
	}
	return f
}

func (f rangeForm) Update(msg tea.Msg) (rangeForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focused == 0 {
		f.start, cmd = f.start.Update(msg)
	} else {
		f.end, cmd = f.end.Update(msg)
	}
	return f, cmd
}

// Bounds returns both values reduced to DayLayout. Both are required.
func (f rangeForm) Bounds() (expense.DateRange, error) {
	start, err := expense.ParseDay(f.start.Value())
	if err != nil {
		return expense.DateRange{}, fmt.Errorf("start: %w", err)
	}

	end, err := expense.ParseDay(f.end.Value())
	if err != nil {
		return expense.DateRange{}, fmt.Errorf("end: %w", err)
	}

	r := expense.DateRange{Start: start, End: end}
	if !r.Complete() {
		return r, fmt.Errorf("both dates are required")
	}

	if start > end {
		return r, fmt.Errorf("start is after end")
	}

	return r, nil
}

func (f rangeForm) View() string {
	rows := []string{
		titleStyle.Render("Date range"),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("From"), f.start.View()),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("To"), f.end.View()),
	}

	if f.err != "" {
		rows = append(rows, errorStyle.Render(f.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
