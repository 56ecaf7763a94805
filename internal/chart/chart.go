// Package chart builds the category and trend chart models and draws them
// onto named mount points.
package chart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/expense"
)

const (
	CategoryCanvas = "categoryChart"
	TrendCanvas    = "trendChart"
)

type Kind string

const (
	Doughnut Kind = "doughnut"
	Line     Kind = "line"
)

type Chart struct {
	Kind   Kind
	Title  string
	Labels []string
	Values []decimal.Decimal
}

// Category builds the per-category breakdown of expenses for one month. An
// empty month renders a single "No Data" slice.
func Category(expenses []expense.Expense, year int, month time.Month) Chart {
	totals := expense.AggregateByCategory(expenses)
	if len(totals) == 0 {
		totals[expense.NoData] = decimal.Zero
	}

	ranked := expense.RankCategories(totals)

	c := Chart{
		Kind:   Doughnut,
		Title:  fmt.Sprintf("Expenses by Category - %s %d", month, year),
		Labels: make([]string, 0, len(ranked)),
		Values: make([]decimal.Decimal, 0, len(ranked)),
	}

	for _, category := range ranked {
		c.Labels = append(c.Labels, category.Name)
		c.Values = append(c.Values, category.Amount)
	}

	return c
}

// Trend builds the Jan to Dec series for year.
func Trend(trend expense.Trend, year int) Chart {
	months := expense.ProjectTrend(trend)

	c := Chart{
		Kind:   Line,
		Title:  fmt.Sprintf("Monthly Expense Trend - %d", year),
		Labels: make([]string, 0, len(months)),
		Values: make([]decimal.Decimal, 0, len(months)),
	}

	for _, m := range months {
		c.Labels = append(c.Labels, m.Abbrev())
		c.Values = append(c.Values, m.Amount)
	}

	return c
}

func (c Chart) validate() error {
	if len(c.Labels) != len(c.Values) {
		return fmt.Errorf("chart %q has %d labels and %d values", c.Title, len(c.Labels), len(c.Values))
	}
	return nil
}
