package expense

import (
	"slices"
	"strings"
)

// Sort orders expenses in place by key. Unknown keys sort by date. Ties keep
// their input order.
func Sort(expenses []Expense, key SortKey, ascending bool) {
	if len(expenses) == 0 {
		return
	}

	slices.SortStableFunc(expenses, func(a, b Expense) int {
		comparison := compare(a, b, key)
		if ascending {
			return comparison
		}
		return -comparison
	})
}

func compare(a, b Expense, key SortKey) int {
	switch key {
	case SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case SortByCategory:
		return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	case SortByDate:
		fallthrough
	default:
		return a.Date.Compare(b.Date)
	}
}

// IsSorted reports whether expenses already satisfy the given ordering.
func IsSorted(expenses []Expense, key SortKey, ascending bool) bool {
	for i := 1; i < len(expenses); i++ {
		c := compare(expenses[i-1], expenses[i], key)
		if ascending && c > 0 || !ascending && c < 0 {
			return false
		}
	}
	return true
}
