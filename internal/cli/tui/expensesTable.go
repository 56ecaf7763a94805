package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GustavoCaso/expenseview/internal/cli"
	"github.com/GustavoCaso/expenseview/internal/expense"
)

const numberOfColumns = 5

type expensesTable struct {
	expenses []expense.Expense
	table    table.Model
}

func newExpensesTable(width, height int) expensesTable {
	t := table.New(
		table.WithColumns(createExpensesColumns(width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	return expensesTable{
		table: t,
	}
}

// SetExpenses replaces the rows, keeping the cursor within bounds.
func (e expensesTable) SetExpenses(expenses []expense.Expense) expensesTable {
	rows := make([]table.Row, 0, len(expenses))
	for _, ex := range expenses {
		rows = append(rows, table.Row(cli.ExpenseRow(ex)))
	}

	t := e.table
	t.SetRows(rows)
	if t.Cursor() >= len(rows) {
		t.SetCursor(max(len(rows)-1, 0))
	}

	return expensesTable{
		expenses: expenses,
		table:    t,
	}
}

// Selected returns the expense under the cursor.
func (e expensesTable) Selected() (expense.Expense, bool) {
	cursor := e.table.Cursor()
	if cursor < 0 || cursor >= len(e.expenses) {
		return expense.Expense{}, false
	}
	return e.expenses[cursor], true
}

func (e expensesTable) Update(msg tea.Msg) (expensesTable, tea.Cmd) {
	var cmd tea.Cmd
	e.table.Focus()
	e.table, cmd = e.table.Update(msg)
	return e, cmd
}

func (e expensesTable) UpdateDimensions(width, height int) expensesTable {
	t := e.table
	t.SetColumns(createExpensesColumns(width))
	t.SetWidth(width)
	t.SetHeight(height)

	return expensesTable{
		expenses: e.expenses,
		table:    t,
	}
}

func (e expensesTable) View() string {
	return e.table.View()
}

func createExpensesColumns(width int) []table.Column {
	w := width / numberOfColumns

	return []table.Column{
		{Title: "ID", Width: w / 2},
		{Title: "Date", Width: w},
		{Title: "Description", Width: w + w/2},
		{Title: "Category", Width: w},
		{Title: "Amount", Width: w},
	}
}
