package expense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Draft is the in-progress record bound to the create/edit form.
type Draft struct {
	ID          int64
	Description string
	Amount      decimal.NullDecimal
	Category    string
	Date        string
	IsEditing   bool
}

// BlankDraft returns the create-mode draft, dated now at minute precision.
func BlankDraft(now time.Time) Draft {
	return Draft{
		Date: now.Format(MinuteLayout),
	}
}

// DraftFrom copies e into an edit-mode draft.
func DraftFrom(e Expense) Draft {
	return Draft{
		ID:          e.ID,
		Description: e.Description,
		Amount:      decimal.NewNullDecimal(e.Amount),
		Category:    e.Category,
		Date:        e.Date.Local().Format(MinuteLayout),
		IsEditing:   true,
	}
}

// ParseAmount converts form input into a nullable amount; blank or invalid
// input yields a null amount.
func ParseAmount(input string) decimal.NullDecimal {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(d)
}

type DraftField string

const (
	FieldDescription DraftField = "description"
	FieldAmount      DraftField = "amount"
	FieldCategory    DraftField = "category"
	FieldDate        DraftField = "date"
)

// Clear resets a single field to its blank value.
func (d *Draft) Clear(field DraftField, now time.Time) {
	switch field {
	case FieldDescription:
		d.Description = ""
	case FieldAmount:
		d.Amount = decimal.NullDecimal{}
	case FieldCategory:
		d.Category = ""
	case FieldDate:
		d.Date = now.Format(MinuteLayout)
	}
}

type ValidationError struct {
	Field   DraftField
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate applies the form rules in order and reports the first failure.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: FieldDescription, Message: "Description is required"}
	}

	if !d.Amount.Valid || !d.Amount.Decimal.IsPositive() {
		return &ValidationError{Field: FieldAmount, Message: "Amount must be greater than 0"}
	}

	if strings.TrimSpace(d.Category) == "" {
		return &ValidationError{Field: FieldCategory, Message: "Category is required"}
	}

	if strings.TrimSpace(d.Date) == "" {
		return &ValidationError{Field: FieldDate, Message: "Date is required"}
	}

	if _, err := ParseTimestamp(strings.TrimSpace(d.Date), time.Local); err != nil {
		return &ValidationError{Field: FieldDate, Message: "Date is invalid"}
	}

	return nil
}

// Expense validates the draft and converts it into a record ready to send.
func (d Draft) Expense() (Expense, error) {
	if err := d.Validate(); err != nil {
		return Expense{}, err
	}

	date, _ := ParseTimestamp(strings.TrimSpace(d.Date), time.Local)

	return Expense{
		ID:          d.ID,
		Description: d.Description,
		Amount:      d.Amount.Decimal,
		Category:    d.Category,
		Date:        date,
	}, nil
}
