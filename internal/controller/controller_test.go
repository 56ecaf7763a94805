package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/chart"
	"github.com/GustavoCaso/expenseview/internal/expense"
	"github.com/GustavoCaso/expenseview/internal/testutil"
)

var errBackend = errors.New("backend unavailable")

var fixedNow = time.Date(2024, time.March, 20, 9, 45, 0, 0, time.Local)

type fakeService struct {
	mu    sync.Mutex
	calls []string

	expenses   []expense.Expense
	summary    expense.Summary
	trend      expense.Trend
	listErr    error
	summaryErr error
	saveErr    error
	deleteErr  error
	monthErr   error
	trendErr   error

	// listFunc, when set, replaces the canned list responses
	listFunc func(call int) ([]expense.Expense, error)

	saved []expense.Expense
}

func (f *fakeService) record(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
	return len(f.calls)
}

func (f *fakeService) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.calls)
}

func (f *fakeService) list(call int) ([]expense.Expense, error) {
	if f.listFunc != nil {
		return f.listFunc(call)
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.expenses), nil
}

func (f *fakeService) ListExpenses(_ context.Context) ([]expense.Expense, error) {
	return f.list(f.record("ListExpenses"))
}

func (f *fakeService) RecentExpenses(_ context.Context, limit int) ([]expense.Expense, error) {
	return f.list(f.record(fmt.Sprintf("RecentExpenses(%d)", limit)))
}

func (f *fakeService) ExpensesByMonth(_ context.Context, year int, month time.Month) ([]expense.Expense, error) {
	f.record(fmt.Sprintf("ExpensesByMonth(%d,%d)", year, int(month)))
	if f.monthErr != nil {
		return nil, f.monthErr
	}
	return slices.Clone(f.expenses), nil
}

func (f *fakeService) ExpensesByDateRange(_ context.Context, start, end string) ([]expense.Expense, error) {
	return f.list(f.record(fmt.Sprintf("ExpensesByDateRange(%s,%s)", start, end)))
}

func (f *fakeService) CreateExpense(_ context.Context, e expense.Expense) (expense.Expense, error) {
	f.record("CreateExpense")
	if f.saveErr != nil {
		return expense.Expense{}, f.saveErr
	}

	f.mu.Lock()
	f.saved = append(f.saved, e)
	f.mu.Unlock()

	e.ID = 99
	return e, nil
}

func (f *fakeService) UpdateExpense(_ context.Context, id int64, e expense.Expense) (expense.Expense, error) {
	f.record(fmt.Sprintf("UpdateExpense(%d)", id))
	if f.saveErr != nil {
		return expense.Expense{}, f.saveErr
	}

	f.mu.Lock()
	f.saved = append(f.saved, e)
	f.mu.Unlock()

	return e, nil
}

func (f *fakeService) DeleteExpense(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("DeleteExpense(%d)", id))
	return f.deleteErr
}

func (f *fakeService) Summary(_ context.Context) (expense.Summary, error) {
	f.record("Summary")
	if f.summaryErr != nil {
		return expense.Summary{}, f.summaryErr
	}
	return f.summary, nil
}

func (f *fakeService) MonthlyTrend(_ context.Context, year int) (expense.Trend, error) {
	f.record(fmt.Sprintf("MonthlyTrend(%d)", year))
	if f.trendErr != nil {
		return nil, f.trendErr
	}
	return f.trend, nil
}

func always(answer bool) ConfirmFunc {
	return func(context.Context, string) bool { return answer }
}

func newTestController(t *testing.T, service *fakeService, canvas Canvas, confirmer Confirmer) *Controller {
	t.Helper()

	c := New(service, canvas, confirmer, testutil.TestLogger(t), Options{
		NotificationDelay: time.Hour,
		Now:               func() time.Time { return fixedNow },
	})
	t.Cleanup(c.Close)

	return c
}

func sampleExpenses() []expense.Expense {
	return []expense.Expense{
		{
			ID:          1,
			Description: "Lunch",
			Amount:      decimal.NewFromInt(12),
			Category:    "food",
			Date:        time.Date(2024, time.March, 2, 12, 0, 0, 0, time.Local),
		},
		{
			ID:          2,
			Description: "Rent",
			Amount:      decimal.NewFromInt(900),
			Category:    "Bills",
			Date:        time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local),
		},
		{
			ID:          3,
			Description: "Train",
			Amount:      decimal.RequireFromString("4.5"),
			Category:    "Transport",
			Date:        time.Date(2024, time.March, 3, 8, 0, 0, 0, time.Local),
		},
	}
}

func TestNewDefaults(t *testing.T) {
	c := newTestController(t, &fakeService{}, nil, nil)
	state := c.State()

	if state.Filter.Type != expense.FilterAll {
		t.Errorf("Filter.Type = %v, want all", state.Filter.Type)
	}

	if state.SortBy != expense.SortByDate || state.SortAscending {
		t.Errorf("Sort = %v/%v, want date/descending", state.SortBy, state.SortAscending)
	}

	if state.Draft.IsEditing || state.Draft.Date != "2024-03-20T09:45" {
		t.Errorf("Draft = %+v, want blank draft dated now", state.Draft)
	}

	if state.Summary.HighestSpendCategory != expense.NoCategory {
		t.Errorf("HighestSpendCategory = %q, want None", state.Summary.HighestSpendCategory)
	}

	if state.SelectedYear != 2024 || state.SelectedMonth != time.March {
		t.Errorf("Selected period = %d/%v, want 2024/March", state.SelectedYear, state.SelectedMonth)
	}

	if state.Loading || state.Notification.Show {
		t.Error("Expected idle state without notification")
	}

	years := c.AvailableYears()
	if years[0] != 2019 || years[len(years)-1] != 2025 {
		t.Errorf("AvailableYears() = %v", years)
	}

	if len(c.AvailableMonths()) != 12 {
		t.Errorf("AvailableMonths() = %v", c.AvailableMonths())
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   func(d *expense.Draft)
		message string
	}{
		{
			name: "empty description",
			draft: func(d *expense.Draft) {
				d.Description = "   "
				d.Amount = expense.ParseAmount("10")
				d.Category = "Food"
			},
			message: "Description is required",
		},
		{
			name: "missing amount",
			draft: func(d *expense.Draft) {
				d.Description = "Lunch"
				d.Category = "Food"
			},
			message: "Amount must be greater than 0",
		},
		{
			name: "zero amount",
			draft: func(d *expense.Draft) {
				d.Description = "Lunch"
				d.Amount = expense.ParseAmount("0")
				d.Category = "Food"
			},
			message: "Amount must be greater than 0",
		},
		{
			name: "missing category",
			draft: func(d *expense.Draft) {
				d.Description = "Lunch"
				d.Amount = expense.ParseAmount("10")
			},
			message: "Category is required",
		},
		{
			name: "missing date",
			draft: func(d *expense.Draft) {
				d.Description = "Lunch"
				d.Amount = expense.ParseAmount("10")
				d.Category = "Food"
				d.Date = ""
			},
			message: "Date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeService{}
			c := newTestController(t, service, nil, nil)

			c.UpdateDraft(tt.draft)
			before := c.State().Draft

			err := c.SubmitExpense(context.Background())

			var validationErr *expense.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("SubmitExpense() error = %v, want ValidationError", err)
			}

			if calls := service.recorded(); len(calls) != 0 {
				t.Errorf("Expected no requests, got %v", calls)
			}

			state := c.State()
			if state.Notification.Message != tt.message || state.Notification.Type != NotificationError || !state.Notification.Show {
				t.Errorf("Notification = %+v, want error %q", state.Notification, tt.message)
			}

			if state.Draft != before {
				t.Errorf("Draft changed to %+v", state.Draft)
			}
		})
	}
}

func TestSubmitCreate(t *testing.T) {
	service := &fakeService{expenses: sampleExpenses(), summary: expense.EmptySummary()}
	c := newTestController(t, service, nil, nil)

	c.UpdateDraft(func(d *expense.Draft) {
		d.Description = "Coffee"
		d.Amount = expense.ParseAmount("4.50")
		d.Category = "Food"
		d.Date = "2024-03-15T10:30"
	})

	if err := c.SubmitExpense(context.Background()); err != nil {
		t.Fatalf("SubmitExpense() error = %v", err)
	}

	calls := service.recorded()
	if calls[0] != "CreateExpense" {
		t.Errorf("First call = %s, want CreateExpense", calls[0])
	}

	if n := strings.Count(strings.Join(calls, " "), "CreateExpense"); n != 1 {
		t.Errorf("CreateExpense called %d times, want 1", n)
	}

	for _, want := range []string{"ListExpenses", "Summary"} {
		if !slices.Contains(calls, want) {
			t.Errorf("Expected reload call %s, got %v", want, calls)
		}
	}

	saved := service.saved[0]
	if saved.ID != 0 {
		t.Errorf("Created expense carries id %d", saved.ID)
	}

	wantDate := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)
	if !saved.Date.Equal(wantDate) {
		t.Errorf("Date = %v, want %v", saved.Date, wantDate)
	}

	if !saved.Amount.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("Amount = %s, want 4.5", saved.Amount)
	}

	state := c.State()
	if state.Draft != expense.BlankDraft(fixedNow) {
		t.Errorf("Draft = %+v, want blank", state.Draft)
	}

	if state.Notification.Message != "Expense added successfully" || state.Notification.Type != NotificationSuccess {
		t.Errorf("Notification = %+v", state.Notification)
	}

	if len(state.Expenses) != 3 {
		t.Errorf("Expected reloaded list, got %d expenses", len(state.Expenses))
	}

	if state.Loading {
		t.Error("Loading should be cleared")
	}
}

func TestSubmitUpdate(t *testing.T) {
	service := &fakeService{summary: expense.EmptySummary()}
	c := newTestController(t, service, nil, nil)

	record := sampleExpenses()[1]
	c.EditExpense(record)

	draft := c.State().Draft
	if !draft.IsEditing || draft.ID != record.ID || draft.Date != "2024-03-01T09:00" {
		t.Fatalf("Draft = %+v, want edit draft of %d", draft, record.ID)
	}

	c.UpdateDraft(func(d *expense.Draft) {
		d.Description = "Rent April"
		// the draft mode is not editable through form input
		d.ID = 0
		d.IsEditing = false
	})

	if err := c.SubmitExpense(context.Background()); err != nil {
		t.Fatalf("SubmitExpense() error = %v", err)
	}

	calls := service.recorded()
	if calls[0] != "UpdateExpense(2)" {
		t.Errorf("First call = %s, want UpdateExpense(2)", calls[0])
	}

	if service.saved[0].Description != "Rent April" {
		t.Errorf("Description = %q", service.saved[0].Description)
	}

	state := c.State()
	if state.Notification.Message != "Expense updated successfully" {
		t.Errorf("Notification = %+v", state.Notification)
	}

	if state.Draft.IsEditing {
		t.Error("Draft should be back in create mode")
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	service := &fakeService{saveErr: errBackend}
	c := newTestController(t, service, nil, nil)

	c.UpdateDraft(func(d *expense.Draft) {
		d.Description = "Coffee"
		d.Amount = expense.ParseAmount("3")
		d.Category = "Food"
	})
	before := c.State().Draft

	err := c.SubmitExpense(context.Background())
	if !errors.Is(err, errBackend) {
		t.Fatalf("SubmitExpense() error = %v, want %v", err, errBackend)
	}

	state := c.State()
	if state.Draft != before {
		t.Errorf("Draft = %+v, want %+v", state.Draft, before)
	}

	if state.Notification.Message != "Error saving expense" || state.Notification.Type != NotificationError {
		t.Errorf("Notification = %+v", state.Notification)
	}

	if state.Loading {
		t.Error("Loading should be cleared after a failure")
	}

	if calls := service.recorded(); !slices.Equal(calls, []string{"CreateExpense"}) {
		t.Errorf("calls = %v, want only CreateExpense", calls)
	}
}

func TestWriteSucceedsWhenReloadFails(t *testing.T) {
	tests := []struct {
		name      string
		write     func(c *Controller) error
		wantWrite string
	}{
		{
			name: "submit",
			write: func(c *Controller) error {
				c.UpdateDraft(func(d *expense.Draft) {
					d.Description = "Coffee"
					d.Amount = expense.ParseAmount("3")
					d.Category = "Food"
				})
				return c.SubmitExpense(context.Background())
			},
			wantWrite: "CreateExpense",
		},
		{
			name: "delete",
			write: func(c *Controller) error {
				return c.DeleteExpense(context.Background(), 7)
			},
			wantWrite: "DeleteExpense(7)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeService{expenses: sampleExpenses(), summaryErr: errBackend}
			c := newTestController(t, service, nil, always(true))

			if err := tt.write(c); err != nil {
				t.Fatalf("write error = %v, want nil once the record is stored", err)
			}

			calls := service.recorded()
			if n := strings.Count(strings.Join(calls, " "), tt.wantWrite); n != 1 {
				t.Errorf("%s called %d times, want 1 (calls %v)", tt.wantWrite, n, calls)
			}

			if !slices.Contains(calls, "Summary") {
				t.Errorf("Expected a summary reload, got %v", calls)
			}

			state := c.State()
			if state.Notification.Message != "Error loading summary" || state.Notification.Type != NotificationError {
				t.Errorf("Notification = %+v, want the summary failure", state.Notification)
			}

			if len(state.Expenses) != 3 {
				t.Errorf("List reload should still land, got %d expenses", len(state.Expenses))
			}

			if state.Loading {
				t.Error("Loading should be cleared")
			}
		})
	}
}

func TestEditThenCancel(t *testing.T) {
	service := &fakeService{}
	c := newTestController(t, service, nil, nil)

	c.EditExpense(sampleExpenses()[0])
	c.CancelEdit()

	state := c.State()
	if state.Draft != expense.BlankDraft(fixedNow) {
		t.Errorf("Draft = %+v, want blank", state.Draft)
	}

	if calls := service.recorded(); len(calls) != 0 {
		t.Errorf("Expected no requests, got %v", calls)
	}
}

func TestClearDraftField(t *testing.T) {
	c := newTestController(t, &fakeService{}, nil, nil)

	c.UpdateDraft(func(d *expense.Draft) {
		d.Description = "Coffee"
		d.Amount = expense.ParseAmount("3")
		d.Date = "2020-01-01T00:00"
	})

	c.ClearDraftField(expense.FieldAmount)
	c.ClearDraftField(expense.FieldDate)

	draft := c.State().Draft
	if draft.Amount.Valid {
		t.Error("Amount should be cleared")
	}

	if draft.Date != "2024-03-20T09:45" {
		t.Errorf("Date = %q, want now", draft.Date)
	}

	if draft.Description != "Coffee" {
		t.Errorf("Description = %q, want untouched", draft.Description)
	}
}

func TestDeleteExpense(t *testing.T) {
	tests := []struct {
		name         string
		confirmer    Confirmer
		deleteErr    error
		wantCalls    []string
		wantMessage  string
		wantErr      bool
		wantReloaded bool
	}{
		{
			name:      "declined",
			confirmer: always(false),
			wantCalls: []string{},
		},
		{
			name:      "no confirmer declines",
			confirmer: nil,
			wantCalls: []string{},
		},
		{
			name:         "confirmed",
			confirmer:    always(true),
			wantCalls:    []string{"DeleteExpense(7)"},
			wantMessage:  "Expense deleted successfully",
			wantReloaded: true,
		},
		{
			name:        "confirmed but failing",
			confirmer:   always(true),
			deleteErr:   errBackend,
			wantCalls:   []string{"DeleteExpense(7)"},
			wantMessage: "Error deleting expense",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeService{expenses: sampleExpenses(), deleteErr: tt.deleteErr}
			c := newTestController(t, service, nil, tt.confirmer)

			err := c.DeleteExpense(context.Background(), 7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DeleteExpense() error = %v, wantErr %v", err, tt.wantErr)
			}

			calls := service.recorded()
			if len(calls) < len(tt.wantCalls) || !slices.Equal(calls[:len(tt.wantCalls)], tt.wantCalls) {
				t.Errorf("calls = %v, want prefix %v", calls, tt.wantCalls)
			}

			reloaded := slices.Contains(calls, "ListExpenses") && slices.Contains(calls, "Summary")
			if reloaded != tt.wantReloaded {
				t.Errorf("reloaded = %v, want %v (calls %v)", reloaded, tt.wantReloaded, calls)
			}

			state := c.State()
			if tt.wantMessage == "" {
				if state.Notification.Show {
					t.Errorf("Unexpected notification %+v", state.Notification)
				}
				return
			}

			if state.Notification.Message != tt.wantMessage {
				t.Errorf("Notification = %q, want %q", state.Notification.Message, tt.wantMessage)
			}

			if state.Loading {
				t.Error("Loading should be cleared")
			}
		})
	}
}

func TestDeleteReceivesPrompt(t *testing.T) {
	var prompt string
	c := newTestController(t, &fakeService{}, nil, ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return false
	}))

	if err := c.DeleteExpense(context.Background(), 1); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}

	if prompt != DeletePrompt {
		t.Errorf("prompt = %q, want %q", prompt, DeletePrompt)
	}
}

func TestLoadExpensesDispatch(t *testing.T) {
	tests := []struct {
		name   string
		filter expense.FilterType
		start  string
		end    string
		want   string
	}{
		{
			name:   "all",
			filter: expense.FilterAll,
			want:   "ListExpenses",
		},
		{
			name:   "recent",
			filter: expense.FilterRecent,
			want:   "RecentExpenses(50)",
		},
		{
			name:   "current month",
			filter: expense.FilterMonth,
			want:   "ExpensesByMonth(2024,3)",
		},
		{
			name:   "complete date range",
			filter: expense.FilterDateRange,
			start:  "2024-01-01",
			end:    "2024-01-31",
			want:   "ExpensesByDateRange(2024-01-01T00:00:00,2024-01-31T23:59:59)",
		},
		{
			name:   "date range with only a start",
			filter: expense.FilterDateRange,
			start:  "2024-01-01",
			want:   "ListExpenses",
		},
		{
			name:   "unknown filter",
			filter: expense.FilterType("weekly"),
			want:   "ListExpenses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeService{}
			c := newTestController(t, service, nil, nil)

			c.SetFilterType(tt.filter)
			c.SetDateRange(tt.start, tt.end)

			if err := c.ApplyFilter(context.Background()); err != nil {
				t.Fatalf("ApplyFilter() error = %v", err)
			}

			if calls := service.recorded(); !slices.Equal(calls, []string{tt.want}) {
				t.Errorf("calls = %v, want [%s]", calls, tt.want)
			}
		})
	}
}

func ids(expenses []expense.Expense) []int64 {
	result := make([]int64, len(expenses))
	for i, e := range expenses {
		result[i] = e.ID
	}
	return result
}

func TestLoadedListIsSorted(t *testing.T) {
	service := &fakeService{expenses: sampleExpenses()}
	c := newTestController(t, service, nil, nil)

	if err := c.LoadExpenses(context.Background()); err != nil {
		t.Fatalf("LoadExpenses() error = %v", err)
	}

	// newest first by default
	if got := ids(c.State().Expenses); !slices.Equal(got, []int64{3, 1, 2}) {
		t.Errorf("date descending = %v, want [3 1 2]", got)
	}

	c.SetSortBy(expense.SortByAmount)
	if got := ids(c.State().Expenses); !slices.Equal(got, []int64{2, 1, 3}) {
		t.Errorf("amount descending = %v, want [2 1 3]", got)
	}

	c.ToggleSortOrder()
	if got := ids(c.State().Expenses); !slices.Equal(got, []int64{3, 1, 2}) {
		t.Errorf("amount ascending = %v, want [3 1 2]", got)
	}

	c.SetSortBy(expense.SortByCategory)
	if got := ids(c.State().Expenses); !slices.Equal(got, []int64{2, 1, 3}) {
		t.Errorf("category ascending = %v, want [2 1 3]", got)
	}

	state := c.State()
	if !expense.IsSorted(state.Expenses, state.SortBy, state.SortAscending) {
		t.Error("list is not consistent with the sort settings")
	}
}

func TestLoadExpensesFailure(t *testing.T) {
	service := &fakeService{expenses: sampleExpenses()}
	c := newTestController(t, service, nil, nil)

	if err := c.LoadExpenses(context.Background()); err != nil {
		t.Fatalf("LoadExpenses() error = %v", err)
	}

	service.listErr = errBackend
	if err := c.LoadExpenses(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("LoadExpenses() error = %v, want %v", err, errBackend)
	}

	state := c.State()
	if state.Loading {
		t.Error("Loading should be cleared after a failure")
	}

	if state.Notification.Message != "Error loading expenses" || state.Notification.Type != NotificationError {
		t.Errorf("Notification = %+v", state.Notification)
	}

	if len(state.Expenses) != 3 {
		t.Errorf("Previous list should be kept, got %d expenses", len(state.Expenses))
	}
}

func TestIndependentFailures(t *testing.T) {
	service := &fakeService{expenses: sampleExpenses(), summaryErr: errBackend}
	c := newTestController(t, service, nil, nil)

	err := c.Init(context.Background())
	if !errors.Is(err, errBackend) {
		t.Fatalf("Init() error = %v, want %v", err, errBackend)
	}

	state := c.State()
	if len(state.Expenses) != 3 {
		t.Errorf("List should load despite the summary failure, got %d", len(state.Expenses))
	}

	if state.Notification.Message != "Error loading summary" {
		t.Errorf("Notification = %q, want summary failure", state.Notification.Message)
	}

	if state.Summary.HighestSpendCategory != expense.NoCategory {
		t.Errorf("Summary should stay at defaults, got %+v", state.Summary)
	}
}

func TestStaleListResponseIsDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	stale := []expense.Expense{{ID: 1, Amount: decimal.NewFromInt(1), Date: fixedNow}}
	fresh := []expense.Expense{{ID: 2, Amount: decimal.NewFromInt(2), Date: fixedNow}}

	service := &fakeService{
		listFunc: func(call int) ([]expense.Expense, error) {
			if call == 1 {
				close(entered)
				<-release
				return stale, nil
			}
			return fresh, nil
		},
	}
	c := newTestController(t, service, nil, nil)

	done := make(chan error)
	go func() {
		done <- c.LoadExpenses(context.Background())
	}()

	<-entered
	if err := c.LoadExpenses(context.Background()); err != nil {
		t.Fatalf("LoadExpenses() error = %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale LoadExpenses() error = %v", err)
	}

	state := c.State()
	if got := ids(state.Expenses); !slices.Equal(got, []int64{2}) {
		t.Errorf("Expenses = %v, want the newer response [2]", got)
	}

	if state.Loading {
		t.Error("Loading should be cleared once both loads finish")
	}
}

func TestLoadingTracksInFlightOperations(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	service := &fakeService{
		listFunc: func(int) ([]expense.Expense, error) {
			close(entered)
			<-release
			return nil, errBackend
		},
	}
	c := newTestController(t, service, nil, nil)

	done := make(chan error)
	go func() {
		done <- c.LoadExpenses(context.Background())
	}()

	<-entered
	if !c.State().Loading {
		t.Error("Loading should be set while the request is in flight")
	}

	close(release)
	<-done

	if c.State().Loading {
		t.Error("Loading should be cleared after the failure")
	}
}

func TestNotificationReplacement(t *testing.T) {
	c := newTestController(t, &fakeService{}, nil, nil)

	c.notify("first", NotificationSuccess)
	c.mu.Lock()
	firstSeq := c.notificationSeq
	c.mu.Unlock()

	c.notify("second", NotificationError)

	// the first notification's timer firing late must not hide the second
	c.expireNotification(firstSeq)

	state := c.State()
	if !state.Notification.Show || state.Notification.Message != "second" || state.Notification.Type != NotificationError {
		t.Errorf("Notification = %+v, want visible second", state.Notification)
	}

	c.mu.Lock()
	secondSeq := c.notificationSeq
	c.mu.Unlock()

	c.expireNotification(secondSeq)
	if c.State().Notification.Show {
		t.Error("Current notification should expire")
	}
}

func TestNotificationAutoDismiss(t *testing.T) {
	c := New(&fakeService{}, nil, nil, testutil.TestLogger(t), Options{
		NotificationDelay: 10 * time.Millisecond,
		Now:               func() time.Time { return fixedNow },
	})
	defer c.Close()

	hidden := make(chan struct{}, 1)
	c.Subscribe(func(e Event) {
		if e.Kind == NotificationChanged && !c.State().Notification.Show {
			select {
			case hidden <- struct{}{}:
			default:
			}
		}
	})

	c.notify("Expense added successfully", NotificationSuccess)

	select {
	case <-hidden:
	case <-time.After(time.Second):
		t.Fatal("Notification was not dismissed")
	}

	if msg := c.State().Notification.Message; msg != "Expense added successfully" {
		t.Errorf("Message = %q, dismissal should only hide it", msg)
	}
}

func TestDismissNotification(t *testing.T) {
	c := newTestController(t, &fakeService{}, nil, nil)

	c.notify("Error loading expenses", NotificationError)
	c.DismissNotification()

	if c.State().Notification.Show {
		t.Error("Notification should be hidden")
	}
}

func TestSubscribe(t *testing.T) {
	c := newTestController(t, &fakeService{expenses: sampleExpenses()}, nil, nil)

	var mu sync.Mutex
	var kinds []EventKind

	unsubscribe := c.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, e.Kind)
	})

	if err := c.LoadExpenses(context.Background()); err != nil {
		t.Fatalf("LoadExpenses() error = %v", err)
	}

	unsubscribe()
	c.ToggleSortOrder()

	mu.Lock()
	defer mu.Unlock()

	want := []EventKind{LoadingChanged, ExpensesChanged, LoadingChanged}
	if !slices.Equal(kinds, want) {
		t.Errorf("events = %v, want %v", kinds, want)
	}
}

func TestStateIsASnapshot(t *testing.T) {
	c := newTestController(t, &fakeService{expenses: sampleExpenses()}, nil, nil)

	if err := c.LoadExpenses(context.Background()); err != nil {
		t.Fatalf("LoadExpenses() error = %v", err)
	}

	snapshot := c.State()
	snapshot.Expenses[0].Description = "mutated"

	if c.State().Expenses[0].Description == "mutated" {
		t.Error("State() leaked the controller's list")
	}
}

func newRegistry(canvases ...string) *chart.Registry {
	return chart.NewRegistry(chart.NewTerminalRenderer(80), canvases...)
}

func TestInitDrawsCharts(t *testing.T) {
	service := &fakeService{
		expenses: sampleExpenses(),
		summary:  expense.EmptySummary(),
		trend:    expense.Trend{"March": decimal.NewFromInt(916)},
	}
	registry := newRegistry(chart.CategoryCanvas, chart.TrendCanvas)
	c := newTestController(t, service, registry, nil)

	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	calls := service.recorded()
	for _, want := range []string{"ListExpenses", "Summary", "ExpensesByMonth(2024,3)", "MonthlyTrend(2024)"} {
		if !slices.Contains(calls, want) {
			t.Errorf("Expected call %s, got %v", want, calls)
		}
	}

	category := registry.View(chart.CategoryCanvas)
	for _, want := range []string{"Expenses by Category - March 2024", "Bills", "Transport", "food"} {
		if !strings.Contains(category, want) {
			t.Errorf("category chart missing %q:\n%s", want, category)
		}
	}

	trend := registry.View(chart.TrendCanvas)
	for _, want := range []string{"Monthly Expense Trend - 2024", "March", "$916.00", "December"} {
		if !strings.Contains(trend, want) {
			t.Errorf("trend chart missing %q:\n%s", want, trend)
		}
	}
}

func TestSetChartPeriod(t *testing.T) {
	service := &fakeService{trend: expense.Trend{}}
	registry := newRegistry(chart.CategoryCanvas, chart.TrendCanvas)
	c := newTestController(t, service, registry, nil)

	c.SetChartPeriod(context.Background(), 2023, time.February)

	calls := service.recorded()
	if !slices.Equal(calls, []string{"ExpensesByMonth(2023,2)", "MonthlyTrend(2023)"}) {
		t.Errorf("calls = %v", calls)
	}

	if view := registry.View(chart.CategoryCanvas); !strings.Contains(view, expense.NoData) {
		t.Errorf("empty month should render %q:\n%s", expense.NoData, view)
	}

	state := c.State()
	if state.SelectedYear != 2023 || state.SelectedMonth != time.February {
		t.Errorf("Selected period = %d/%v", state.SelectedYear, state.SelectedMonth)
	}
}

func TestChartsSkippedWithoutMountPoint(t *testing.T) {
	service := &fakeService{}
	c := newTestController(t, service, newRegistry(), nil)

	c.UpdateChartFilters(context.Background())

	if calls := service.recorded(); len(calls) != 0 {
		t.Errorf("Expected no requests without mount points, got %v", calls)
	}
}

func TestChartFailuresAreNotified(t *testing.T) {
	tests := []struct {
		name    string
		service *fakeService
		update  func(c *Controller)
		message string
	}{
		{
			name:    "category chart",
			service: &fakeService{monthErr: errBackend},
			update:  func(c *Controller) { c.UpdateCategoryChart(context.Background()) },
			message: "Error loading category chart",
		},
		{
			name:    "trend chart",
			service: &fakeService{trendErr: errBackend},
			update:  func(c *Controller) { c.UpdateTrendChart(context.Background()) },
			message: "Error loading trend chart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, tt.service, newRegistry(chart.CategoryCanvas, chart.TrendCanvas), nil)

			tt.update(c)

			state := c.State()
			if state.Notification.Message != tt.message || state.Notification.Type != NotificationError {
				t.Errorf("Notification = %+v, want %q", state.Notification, tt.message)
			}
		})
	}
}
