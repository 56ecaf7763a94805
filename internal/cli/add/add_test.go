package add

import (
	"bytes"
	"context"
	"flag"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/cli/clitest"
)

func TestNewCommand(t *testing.T) {
	if NewCommand() == nil {
		t.Error("NewCommand() returned nil")
	}
}

func TestSetFlags(t *testing.T) {
	cmd := NewCommand()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cmd.SetFlags(fs)

	for _, name := range []string{"id", "d", "a", "cat", "date"} {
		if fs.Lookup(name) == nil {
			t.Errorf("%s flag not registered", name)
		}
	}
}

func run(t *testing.T, backend *clitest.Backend, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := &addCommand{out: &out}

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	cmd.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	err := cmd.Run(backend.Config, backend.Logger)
	return out.String(), err
}

func TestRunCreates(t *testing.T) {
	backend := clitest.NewBackend(t)

	out, err := run(t, backend, "-d", "Coffee", "-a", "3.75", "-cat", "Food", "-date", "2024-03-18T09:30")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out, "Expense added successfully") {
		t.Errorf("Expected success notification, got %q", out)
	}

	stored, err := backend.Storage.GetExpenses(context.Background())
	if err != nil {
		t.Fatalf("GetExpenses() error = %v", err)
	}

	if len(stored) != 1 {
		t.Fatalf("Expected 1 stored expense, got %d", len(stored))
	}

	e := stored[0]
	if e.Description() != "Coffee" || e.Category() != "Food" || !e.Amount().Equal(decimal.RequireFromString("3.75")) {
		t.Errorf("Unexpected stored expense %s %s %s", e.Description(), e.Category(), e.Amount())
	}

	if !e.Date().Equal(time.Date(2024, time.March, 18, 9, 30, 0, 0, time.Local)) {
		t.Errorf("Date = %v, want 2024-03-18 09:30 local", e.Date())
	}
}

func TestRunValidationFailure(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{
			name:    "missing description",
			args:    []string{"-a", "3", "-cat", "Food"},
			message: "Description is required",
		},
		{
			name:    "invalid amount",
			args:    []string{"-d", "Coffee", "-a", "three", "-cat", "Food"},
			message: "Amount must be greater than 0",
		},
		{
			name:    "missing category",
			args:    []string{"-d", "Coffee", "-a", "3"},
			message: "Category is required",
		},
		{
			name:    "invalid date",
			args:    []string{"-d", "Coffee", "-a", "3", "-cat", "Food", "-date", "soon"},
			message: "Date is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := clitest.NewBackend(t)

			out, err := run(t, backend, tt.args...)
			if err == nil {
				t.Fatal("Run() expected validation error")
			}

			if !strings.Contains(out, tt.message) {
				t.Errorf("Expected %q, got %q", tt.message, out)
			}

			stored, _ := backend.Storage.GetExpenses(context.Background())
			if len(stored) != 0 {
				t.Errorf("Expected nothing stored, got %d expenses", len(stored))
			}
		})
	}
}

func TestRunEdits(t *testing.T) {
	backend := clitest.NewBackend(t)
	id := backend.Seed(t, "Groceries", "Food", "45.50", time.Date(2024, time.March, 2, 10, 0, 0, 0, time.Local))

	out, err := run(t, backend, "-id", strconv.FormatInt(id, 10), "-d", "Weekly groceries")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out, "Expense updated successfully") {
		t.Errorf("Expected update notification, got %q", out)
	}

	e, err := backend.Storage.GetExpenseByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetExpenseByID() error = %v", err)
	}

	if e.Description() != "Weekly groceries" {
		t.Errorf("Description = %s, want Weekly groceries", e.Description())
	}

	// untouched fields keep their stored values
	if e.Category() != "Food" || !e.Amount().Equal(decimal.RequireFromString("45.50")) {
		t.Errorf("Unexpected fields after edit: %s %s", e.Category(), e.Amount())
	}
}

func TestRunEditUnknownID(t *testing.T) {
	backend := clitest.NewBackend(t)

	if _, err := run(t, backend, "-id", "42", "-d", "Ghost"); err == nil {
		t.Error("Run() expected error for unknown id")
	}
}
