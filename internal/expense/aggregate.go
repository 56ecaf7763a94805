package expense

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
)

// AggregateByCategory sums amounts per category. Blank categories are
// bucketed as Uncategorized.
func AggregateByCategory(expenses []Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)

	for _, e := range expenses {
		category := e.Category
		if strings.TrimSpace(category) == "" {
			category = Uncategorized
		}
		totals[category] = totals[category].Add(e.Amount)
	}

	return totals
}

type CategoryTotal struct {
	Name   string
	Amount decimal.Decimal
}

// RankCategories orders totals by amount descending, then by name.
func RankCategories(totals map[string]decimal.Decimal) []CategoryTotal {
	names := maps.Keys(totals)

	slices.SortFunc(names, func(a, b string) int {
		if c := totals[b].Cmp(totals[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	ranked := make([]CategoryTotal, len(names))
	for i, name := range names {
		ranked[i] = CategoryTotal{Name: name, Amount: totals[name]}
	}

	return ranked
}

type MonthAmount struct {
	Month  time.Month
	Amount decimal.Decimal
}

func (m MonthAmount) Name() string {
	return m.Month.String()
}

// Abbrev is the three-letter month label used on chart axes.
func (m MonthAmount) Abbrev() string {
	return m.Month.String()[:3]
}

// ProjectTrend lays trend onto January..December. Months absent from trend
// are zero; month names match case-insensitively.
func ProjectTrend(trend Trend) []MonthAmount {
	projected := make([]MonthAmount, 0, 12)

	for month := time.January; month <= time.December; month++ {
		amount := decimal.Zero
		if v, ok := trend[month.String()]; ok {
			amount = v
		} else {
			for name, v := range trend {
				if strings.EqualFold(name, month.String()) {
					amount = v
					break
				}
			}
		}
		projected = append(projected, MonthAmount{Month: month, Amount: amount})
	}

	return projected
}

// Years returns the selectable chart years around the current one.
func Years(now time.Time) []int {
	years := []int{}
	for y := now.Year() - 5; y <= now.Year()+1; y++ {
		years = append(years, y)
	}
	return years
}

func Months() []time.Month {
	months := make([]time.Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, m)
	}
	return months
}
