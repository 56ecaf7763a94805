package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/expense"
)

// expenseBody is the request payload for create and update. It never carries an id.
type expenseBody struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date,omitempty"`
}

func newExpenseBody(e expense.Expense) expenseBody {
	body := expenseBody{
		Description: e.Description,
		Amount:      json.Number(e.Amount.String()),
		Category:    e.Category,
	}

	if !e.Date.IsZero() {
		body.Date = expense.FormatWire(e.Date)
	}

	return body
}

type expenseRecord struct {
	ID          *int64      `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

func (r expenseRecord) toExpense() (expense.Expense, error) {
	if r.ID == nil || *r.ID == 0 {
		return expense.Expense{}, fmt.Errorf("expense without id")
	}

	amount, err := parseAmount(r.Amount)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("expense %d: amount: %w", *r.ID, err)
	}

	date, err := expense.ParseTimestamp(r.Date, time.Local)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("expense %d: date: %w", *r.ID, err)
	}

	e := expense.Expense{
		ID:          *r.ID,
		Description: r.Description,
		Amount:      amount,
		Category:    r.Category,
		Date:        date,
	}

	// audit timestamps are informational, a malformed one is ignored
	if r.CreatedAt != "" {
		e.CreatedAt, _ = expense.ParseTimestamp(r.CreatedAt, time.Local)
	}
	if r.UpdatedAt != "" {
		e.UpdatedAt, _ = expense.ParseTimestamp(r.UpdatedAt, time.Local)
	}

	return e, nil
}

type summaryRecord struct {
	TotalExpenses        json.Number            `json:"totalExpenses"`
	MonthlyExpenses      json.Number            `json:"monthlyExpenses"`
	YearlyExpenses       json.Number            `json:"yearlyExpenses"`
	ExpensesByCategory   map[string]json.Number `json:"expensesByCategory"`
	HighestSpendCategory *string                `json:"highestSpendCategory"`
	LowestSpendCategory  *string                `json:"lowestSpendCategory"`
	HighestSpendAmount   json.Number            `json:"highestSpendAmount"`
	LowestSpendAmount    json.Number            `json:"lowestSpendAmount"`
}

func (r summaryRecord) toSummary() (expense.Summary, error) {
	summary := expense.EmptySummary()

	fields := []struct {
		name  string
		value json.Number
		dest  *decimal.Decimal
	}{
		{"totalExpenses", r.TotalExpenses, &summary.TotalExpenses},
		{"monthlyExpenses", r.MonthlyExpenses, &summary.MonthlyExpenses},
		{"yearlyExpenses", r.YearlyExpenses, &summary.YearlyExpenses},
		{"highestSpendAmount", r.HighestSpendAmount, &summary.HighestSpendAmount},
		{"lowestSpendAmount", r.LowestSpendAmount, &summary.LowestSpendAmount},
	}

	for _, f := range fields {
		d, err := parseOptionalAmount(f.value)
		if err != nil {
			return summary, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dest = d
	}

	byCategory, err := parseAmounts(r.ExpensesByCategory)
	if err != nil {
		return summary, fmt.Errorf("expensesByCategory: %w", err)
	}
	summary.ExpensesByCategory = byCategory

	if r.HighestSpendCategory != nil {
		summary.HighestSpendCategory = *r.HighestSpendCategory
	}
	if r.LowestSpendCategory != nil {
		summary.LowestSpendCategory = *r.LowestSpendCategory
	}

	return summary, nil
}

func toTrend(raw map[string]json.Number) (expense.Trend, error) {
	amounts, err := parseAmounts(raw)
	if err != nil {
		return nil, err
	}

	for name := range amounts {
		if !isMonthName(name) {
			return nil, fmt.Errorf("unknown month %q", name)
		}
	}

	return expense.Trend(amounts), nil
}

func isMonthName(name string) bool {
	for _, m := range expense.Months() {
		if strings.EqualFold(m.String(), name) {
			return true
		}
	}
	return false
}

func parseAmounts(raw map[string]json.Number) (map[string]decimal.Decimal, error) {
	amounts := make(map[string]decimal.Decimal, len(raw))

	for key, value := range raw {
		d, err := parseOptionalAmount(value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", key, err)
		}
		amounts[key] = d
	}

	return amounts, nil
}

func parseAmount(value json.Number) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Decimal{}, fmt.Errorf("missing amount")
	}
	return decimal.NewFromString(value.String())
}

// parseOptionalAmount treats a missing or null number as zero.
func parseOptionalAmount(value json.Number) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value.String())
}
