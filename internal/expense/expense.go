// Package expense holds the client-side domain model: expense records, the
// edit draft, the server summary and the pure operations over them
// (validation, sorting, aggregation).
package expense

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MinuteLayout is the local, minute-precision representation used by the edit form.
	MinuteLayout = "2006-01-02T15:04"
	// DayLayout is the date-only representation used by the date-range filter.
	DayLayout = "2006-01-02"
	// WireLayout is the canonical outbound ISO-8601 format (UTC, millisecond precision).
	WireLayout = "2006-01-02T15:04:05.000Z"
)

var inboundLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	MinuteLayout,
	DayLayout,
}

// ParseTimestamp accepts any of the ISO-8601 shapes the backend or the form
// may produce. Values without a zone are interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range inboundLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// FormatWire renders t as the canonical ISO-8601 wire string.
func FormatWire(t time.Time) string {
	return t.UTC().Format(WireLayout)
}

type Expense struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	NoCategory    = "None"
	Uncategorized = "Uncategorized"
	NoData        = "No Data"
)

type Summary struct {
	TotalExpenses        decimal.Decimal
	MonthlyExpenses      decimal.Decimal
	YearlyExpenses       decimal.Decimal
	ExpensesByCategory   map[string]decimal.Decimal
	HighestSpendCategory string
	LowestSpendCategory  string
	HighestSpendAmount   decimal.Decimal
	LowestSpendAmount    decimal.Decimal
}

// EmptySummary is the snapshot shown before the first summary arrives.
func EmptySummary() Summary {
	return Summary{
		ExpensesByCategory:   map[string]decimal.Decimal{},
		HighestSpendCategory: NoCategory,
		LowestSpendCategory:  NoCategory,
	}
}

// Trend maps an English month name to the amount spent in that month.
type Trend map[string]decimal.Decimal

type FilterType string

const (
	FilterAll       FilterType = "all"
	FilterRecent    FilterType = "recent"
	FilterMonth     FilterType = "month"
	FilterDateRange FilterType = "dateRange"
)

var FilterTypes = []FilterType{FilterAll, FilterRecent, FilterMonth, FilterDateRange}

// DateRange bounds are date-only strings (DayLayout); empty means unset.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) Complete() bool {
	return r.Start != "" && r.End != ""
}

// Bounds expands the range to full-day ISO-8601 bounds.
func (r DateRange) Bounds() (string, string) {
	return r.Start + "T00:00:00", r.End + "T23:59:59"
}

// ParseDay reduces any timestamp ParseTimestamp accepts to its DayLayout
// date. An empty value stays empty.
func ParseDay(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	t, err := ParseTimestamp(value, time.Local)
	if err != nil {
		return "", err
	}

	return t.Format(DayLayout), nil
}

type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByAmount   SortKey = "amount"
	SortByCategory SortKey = "category"
)

var SortKeys = []SortKey{SortByDate, SortByAmount, SortByCategory}
