package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/controller"
	"github.com/GustavoCaso/expenseview/internal/expense"
	"github.com/GustavoCaso/expenseview/internal/util"
)

const displayDateLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// ExpensesTable renders expenses in the order given, amounts right aligned.
func ExpensesTable(expenses []expense.Expense) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Date", "Description", "Category", "Amount").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == 0 {
				style = headerStyle
			}
			if col == 4 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	for _, e := range expenses {
		t.Row(ExpenseRow(e)...)
	}

	return t.Render()
}

func ExpenseRow(e expense.Expense) []string {
	category := e.Category
	if category == "" {
		category = expense.Uncategorized
	}

	return []string{
		fmt.Sprintf("%d", e.ID),
		e.Date.Local().Format(displayDateLayout),
		e.Description,
		category,
		util.Dollars(e.Amount),
	}
}

// SummaryTable renders the headline figures of a summary.
func SummaryTable(s expense.Summary) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle }).
		Row("Total", util.Dollars(s.TotalExpenses)).
		Row("This month", util.Dollars(s.MonthlyExpenses)).
		Row("This year", util.Dollars(s.YearlyExpenses)).
		Row("Highest category", categoryWithAmount(s.HighestSpendCategory, s.HighestSpendAmount)).
		Row("Lowest category", categoryWithAmount(s.LowestSpendCategory, s.LowestSpendAmount))

	return t.Render()
}

func categoryWithAmount(name string, amount decimal.Decimal) string {
	if name == expense.NoCategory {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, util.Dollars(amount))
}

// Total sums the amounts of expenses.
func Total(expenses []expense.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

func NotificationText(n controller.Notification) string {
	if !n.Show {
		return ""
	}

	if n.Type == controller.NotificationError {
		return util.Tint(n.Message, util.ToneError)
	}
	return util.Tint(n.Message, util.ToneSuccess)
}

// PrintNotification writes the visible notification, if any, on its own line.
func PrintNotification(w io.Writer, n controller.Notification) {
	if text := NotificationText(n); text != "" {
		fmt.Fprintln(w, text)
	}
}
