package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GustavoCaso/expenseview/internal/expense"
)

var fieldOrder = []expense.DraftField{
	expense.FieldDescription,
	expense.FieldAmount,
	expense.FieldCategory,
	expense.FieldDate,
}

var fieldLabels = map[expense.DraftField]string{
	expense.FieldDescription: "Description",
	expense.FieldAmount:      "Amount",
	expense.FieldCategory:    "Category",
	expense.FieldDate:        "Date",
}

var labelStyle = lipgloss.NewStyle().Width(12).Bold(true)

// expenseForm mirrors the controller draft in one text input per field.
type expenseForm struct {
	inputs  []textinput.Model
	focused int
	editing bool
}

func newExpenseForm() expenseForm {
	inputs := make([]textinput.Model, len(fieldOrder))
	for i, field := range fieldOrder {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 120
		input.Width = 40
		input.Placeholder = fieldLabels[field]
		inputs[i] = input
	}
	inputs[2].Placeholder = "Food, Transport, ..."
	inputs[3].Placeholder = expense.MinuteLayout

	return expenseForm{inputs: inputs}
}

// Load copies draft into the inputs and focuses the first field.
func (f expenseForm) Load(draft expense.Draft) (expenseForm, tea.Cmd) {
	f.editing = draft.IsEditing
	f.SetValues(draft)
	return f.focus(0)
}

func (f *expenseForm) SetValues(draft expense.Draft) {
	amount := ""
	if draft.Amount.Valid {
		amount = draft.Amount.Decimal.String()
	}

	values := map[expense.DraftField]string{
		expense.FieldDescription: draft.Description,
		expense.FieldAmount:      amount,
		expense.FieldCategory:    draft.Category,
		expense.FieldDate:        draft.Date,
	}

	for i, field := range fieldOrder {
		f.inputs[i].SetValue(values[field])
	}
}

func (f expenseForm) focus(index int) (expenseForm, tea.Cmd) {
	n := len(f.inputs)
	f.focused = ((index % n) + n) % n

	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focused {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}

	return f, cmd
}

func (f expenseForm) Next() (expenseForm, tea.Cmd) {
	return f.focus(f.focused + 1)
}

func (f expenseForm) Prev() (expenseForm, tea.Cmd) {
	return f.focus(f.focused - 1)
}

func (f expenseForm) Field() expense.DraftField {
	return fieldOrder[f.focused]
}

func (f expenseForm) Update(msg tea.Msg) (expenseForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

// Apply writes the input values onto draft.
func (f expenseForm) Apply(draft *expense.Draft) {
	draft.Description = f.inputs[0].Value()
	draft.Amount = expense.ParseAmount(f.inputs[1].Value())
	draft.Category = f.inputs[2].Value()
	draft.Date = f.inputs[3].Value()
}

func (f expenseForm) View() string {
	title := "New expense"
	if f.editing {
		title = "Edit expense"
	}

	rows := []string{titleStyle.Render(title)}
	for i, field := range fieldOrder {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(fieldLabels[field]), f.inputs[i].View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
