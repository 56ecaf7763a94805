package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/storage"
)

const (
	expenseColumns = "id, description, amount, category, date, created_at, updated_at"
	centsExponent  = -2
)

var sortColumns = map[storage.SortField]string{
	storage.SortByDate:     "date",
	storage.SortByAmount:   "amount",
	storage.SortByCategory: "category",
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(-centsExponent).Round(0).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, centsExponent)
}

func (s *sqliteStorage) GetExpenseByID(ctx context.Context, id int64) (storage.Expense, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	return s.expenseFromRow(row.Scan)
}

// InsertExpense stores expense under a new id and returns the stored record.
// The id carried by expense is ignored.
func (s *sqliteStorage) InsertExpense(ctx context.Context, expense storage.Expense) (storage.Expense, error) {
	now := time.Now().Unix()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses(description, amount, category, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.Description(), toCents(expense.Amount()), expense.Category(),
		expense.Date().Unix(), now, now)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetExpenseByID(ctx, id)
}

// UpdateExpense overwrites every user-editable field and bumps updated_at.
func (s *sqliteStorage) UpdateExpense(ctx context.Context, expense storage.Expense) (storage.Expense, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, category = ?, date = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Description(), toCents(expense.Amount()), expense.Category(),
		expense.Date().Unix(), time.Now().Unix(), expense.ID())
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		return nil, &storage.NotFoundError{}
	}

	return s.GetExpenseByID(ctx, expense.ID())
}

func (s *sqliteStorage) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	r, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}

func (s *sqliteStorage) GetExpenses(ctx context.Context) ([]storage.Expense, error) {
	return s.queryExpenses(ctx, "SELECT "+expenseColumns+" FROM expenses ORDER BY id")
}

// GetExpensesFromDateRange returns expenses dated within [start, end], oldest first.
func (s *sqliteStorage) GetExpensesFromDateRange(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]storage.Expense, error) {
	return s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE date BETWEEN ? AND ? ORDER BY date ASC",
		start.Unix(), end.Unix())
}

// GetRecentExpenses returns at most limit expenses, newest first.
func (s *sqliteStorage) GetRecentExpenses(ctx context.Context, limit int) ([]storage.Expense, error) {
	return s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses ORDER BY date DESC, id DESC LIMIT ?", limit)
}

// GetSortedExpenses orders every expense by field. Unknown fields sort by date.
func (s *sqliteStorage) GetSortedExpenses(
	ctx context.Context,
	field storage.SortField,
	ascending bool,
) ([]storage.Expense, error) {
	column, ok := sortColumns[field]
	if !ok {
		column = sortColumns[storage.SortByDate]
	}

	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM expenses ORDER BY %s %s, id ASC", expenseColumns, column, direction)
	return s.queryExpenses(ctx, query)
}

func (s *sqliteStorage) queryExpenses(ctx context.Context, query string, args ...any) ([]storage.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return []storage.Expense{}, err
	}

	if rows.Err() != nil {
		return []storage.Expense{}, rows.Err()
	}

	defer rows.Close()

	expenses := []storage.Expense{}

	for rows.Next() {
		ex, expenseErr := s.expenseFromRow(rows.Scan)
		if expenseErr != nil {
			return []storage.Expense{}, expenseErr
		}
		expenses = append(expenses, ex)
	}

	return expenses, nil
}

func (s *sqliteStorage) expenseFromRow(scan func(dest ...any) error) (storage.Expense, error) {
	var id int64
	var description string
	var amount int64
	var category string
	var date int64
	var createdAt int64
	var updatedAt int64

	if err := scan(&id, &description, &amount, &category, &date, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, err
	}

	return storage.NewExpense(
		id,
		description,
		category,
		fromCents(amount),
		time.Unix(date, 0).UTC(),
		time.Unix(createdAt, 0).UTC(),
		time.Unix(updatedAt, 0).UTC(),
	), nil
}
