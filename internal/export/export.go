package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/GustavoCaso/expenseview/internal/expense"
)

const (
	decimalPlaces = 2
	base10        = 10
)

// CSV exports expenses to CSV format
// format: ID,Date,Description,Category,Amount
func CSV(writer io.Writer, expenses []expense.Expense) error {
	w := csv.NewWriter(writer)

	// header + all expense records
	records := make([][]string, 0, len(expenses)+1)
	records = append(records, []string{"ID", "Date", "Description", "Category", "Amount"})

	for _, e := range expenses {
		records = append(records, expenseToCSVRecord(e))
	}

	// WriteAll flushes
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}

	return nil
}

func expenseToCSVRecord(e expense.Expense) []string {
	category := e.Category
	if category == "" {
		category = expense.Uncategorized
	}

	return []string{
		strconv.FormatInt(e.ID, base10),
		expense.FormatWire(e.Date),
		e.Description,
		category,
		e.Amount.StringFixed(decimalPlaces),
	}
}
