package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/logger"
)

type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "record not found"
}

type Expense interface {
	ID() int64
	Description() string
	Amount() decimal.Decimal
	Category() string
	Date() time.Time
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

type expense struct {
	id          int64
	description string
	amount      decimal.Decimal
	category    string
	date        time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func NewExpense(
	id int64,
	description, category string,
	amount decimal.Decimal,
	date, createdAt, updatedAt time.Time,
) Expense {
	return &expense{
		id:          id,
		description: description,
		amount:      amount,
		category:    category,
		date:        date,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e *expense) ID() int64 {
	return e.id
}

func (e *expense) Description() string {
	return e.description
}

func (e *expense) Amount() decimal.Decimal {
	return e.amount
}

func (e *expense) Category() string {
	return e.category
}

func (e *expense) Date() time.Time {
	return e.date
}

func (e *expense) CreatedAt() time.Time {
	return e.createdAt
}

func (e *expense) UpdatedAt() time.Time {
	return e.updatedAt
}

type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
)

type Storage interface {
	// Migrations
	ApplyMigrations(ctx context.Context, logger *logger.Logger) error

	// Expenses
	GetExpenseByID(ctx context.Context, id int64) (Expense, error)
	InsertExpense(ctx context.Context, expense Expense) (Expense, error)
	UpdateExpense(ctx context.Context, expense Expense) (Expense, error)
	DeleteExpense(ctx context.Context, id int64) (int64, error)
	GetExpenses(ctx context.Context) ([]Expense, error)
	GetExpensesFromDateRange(ctx context.Context, start time.Time, end time.Time) ([]Expense, error)
	GetRecentExpenses(ctx context.Context, limit int) ([]Expense, error)
	GetSortedExpenses(ctx context.Context, field SortField, ascending bool) ([]Expense, error)

	// Resource managment
	Close() error
}
