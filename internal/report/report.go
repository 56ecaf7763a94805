// Package report aggregates stored expenses into the summary and the monthly
// trend served by the development backend.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/expense"
	pkgStorage "github.com/GustavoCaso/expenseview/internal/storage"
	"github.com/GustavoCaso/expenseview/internal/util"
)

// Summary totals every expense, the ones in now's month and the ones in now's
// year, and ranks categories by total.
func Summary(ctx context.Context, storage pkgStorage.Storage, now time.Time) (expense.Summary, error) {
	summary := expense.EmptySummary()

	all, err := storage.GetExpenses(ctx)
	if err != nil {
		return summary, err
	}

	monthStart, monthEnd := util.MonthBounds(now.Year(), now.Month(), now.Location())
	monthly, err := storage.GetExpensesFromDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		return summary, err
	}

	yearStart, yearEnd := util.YearBounds(now.Year(), now.Location())
	yearly, err := storage.GetExpensesFromDateRange(ctx, yearStart, yearEnd)
	if err != nil {
		return summary, err
	}

	summary.TotalExpenses = total(all)
	summary.MonthlyExpenses = total(monthly)
	summary.YearlyExpenses = total(yearly)
	summary.ExpensesByCategory = ByCategory(all)

	if len(summary.ExpensesByCategory) == 0 {
		return summary, nil
	}

	ranked := expense.RankCategories(summary.ExpensesByCategory)
	highest := ranked[0]
	lowest := ranked[len(ranked)-1]

	// among categories tied for the lowest total pick the first by name
	for i := len(ranked) - 1; i >= 0 && ranked[i].Amount.Equal(lowest.Amount); i-- {
		lowest = ranked[i]
	}

	summary.HighestSpendCategory = highest.Name
	summary.HighestSpendAmount = highest.Amount
	summary.LowestSpendCategory = lowest.Name
	summary.LowestSpendAmount = lowest.Amount

	return summary, nil
}

// ByCategory sums expenses per category name, exactly as stored.
func ByCategory(expenses []pkgStorage.Expense) map[string]decimal.Decimal {
	categories := make(map[string]decimal.Decimal)

	for _, ex := range expenses {
		categories[ex.Category()] = categories[ex.Category()].Add(ex.Amount())
	}

	return categories
}

// Trend returns the amount spent in each month of year. Every month is present.
func Trend(ctx context.Context, storage pkgStorage.Storage, year int) (expense.Trend, error) {
	trend := expense.Trend{}
	for _, month := range expense.Months() {
		trend[month.String()] = decimal.Zero
	}

	start, end := util.YearBounds(year, nil)
	expenses, err := storage.GetExpensesFromDateRange(ctx, start, end)
	if err != nil {
		return trend, err
	}

	for _, ex := range expenses {
		month := ex.Date().In(start.Location()).Month().String()
		trend[month] = trend[month].Add(ex.Amount())
	}

	return trend, nil
}

// MonthExpenses returns the expenses dated within the given month, oldest first.
func MonthExpenses(
	ctx context.Context,
	storage pkgStorage.Storage,
	year int,
	month time.Month,
) ([]pkgStorage.Expense, error) {
	start, end := util.MonthBounds(year, month, nil)
	return storage.GetExpensesFromDateRange(ctx, start, end)
}

func total(expenses []pkgStorage.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, ex := range expenses {
		sum = sum.Add(ex.Amount())
	}
	return sum
}
