package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/expense"
	"github.com/GustavoCaso/expenseview/internal/report"
	"github.com/GustavoCaso/expenseview/internal/storage"
)

const (
	defaultRecentLimit = 50
	amountPlaces       = 2
)

type expenseRequest struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

type expenseResponse struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

type summaryResponse struct {
	TotalExpenses        json.Number            `json:"totalExpenses"`
	MonthlyExpenses      json.Number            `json:"monthlyExpenses"`
	YearlyExpenses       json.Number            `json:"yearlyExpenses"`
	ExpensesByCategory   map[string]json.Number `json:"expensesByCategory"`
	HighestSpendCategory string                 `json:"highestSpendCategory"`
	LowestSpendCategory  string                 `json:"lowestSpendCategory"`
	HighestSpendAmount   json.Number            `json:"highestSpendAmount"`
	LowestSpendAmount    json.Number            `json:"lowestSpendAmount"`
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(amountPlaces))
}

func amounts(values map[string]decimal.Decimal) map[string]json.Number {
	result := make(map[string]json.Number, len(values))
	for key, value := range values {
		result[key] = amount(value)
	}
	return result
}

func newExpenseResponse(e storage.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID(),
		Description: e.Description(),
		Amount:      amount(e.Amount()),
		Category:    e.Category(),
		Date:        expense.FormatWire(e.Date()),
		CreatedAt:   expense.FormatWire(e.CreatedAt()),
		UpdatedAt:   expense.FormatWire(e.UpdatedAt()),
	}
}

func newExpenseResponses(expenses []storage.Expense) []expenseResponse {
	responses := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, newExpenseResponse(e))
	}
	return responses
}

// toExpense validates the request the same way the form does. A missing date
// means now.
func (req expenseRequest) toExpense(id int64, now time.Time) (storage.Expense, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("description is required")
	}

	if req.Amount == "" {
		return nil, errors.New("amount is required")
	}

	value, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", req.Amount)
	}

	if !value.IsPositive() {
		return nil, errors.New("amount must be greater than 0")
	}

	if strings.TrimSpace(req.Category) == "" {
		return nil, errors.New("category is required")
	}

	date := now
	if req.Date != "" {
		date, err = expense.ParseTimestamp(req.Date, time.Local)
		if err != nil {
			return nil, err
		}
	}

	return storage.NewExpense(id, req.Description, strings.TrimSpace(req.Category), value, date, time.Time{}, time.Time{}), nil
}

func (router *router) decodeExpense(w http.ResponseWriter, r *http.Request, id int64) (storage.Expense, bool) {
	var req expenseRequest

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		router.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}

	e, err := req.toExpense(id, router.now())
	if err != nil {
		router.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return e, true
}

func (router *router) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		router.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", r.PathValue("id")))
		return 0, false
	}
	return id, true
}

func (router *router) listHandler(w http.ResponseWriter, r *http.Request) {
	expenses, err := router.storage.GetExpenses(r.Context())
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.writeJSON(w, http.StatusOK, newExpenseResponses(expenses))
}

func (router *router) createHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := router.decodeExpense(w, r, 0)
	if !ok {
		return
	}

	created, err := router.storage.InsertExpense(r.Context(), e)
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.logger.Info("Expense created", "id", created.ID())
	router.writeJSON(w, http.StatusCreated, newExpenseResponse(created))
}

func (router *router) getHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}

	e, err := router.storage.GetExpenseByID(r.Context(), id)
	if err != nil {
		router.storageError(w, r, id, err)
		return
	}

	router.writeJSON(w, http.StatusOK, newExpenseResponse(e))
}

func (router *router) updateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}

	e, ok := router.decodeExpense(w, r, id)
	if !ok {
		return
	}

	updated, err := router.storage.UpdateExpense(r.Context(), e)
	if err != nil {
		router.storageError(w, r, id, err)
		return
	}

	router.logger.Info("Expense updated", "id", id)
	router.writeJSON(w, http.StatusOK, newExpenseResponse(updated))
}

func (router *router) deleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}

	deleted, err := router.storage.DeleteExpense(r.Context(), id)
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	if deleted == 0 {
		router.writeError(w, http.StatusNotFound, fmt.Sprintf("expense %d not found", id))
		return
	}

	router.logger.Info("Expense deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (router *router) storageError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	var notFound *storage.NotFoundError
	if errors.As(err, &notFound) {
		router.writeError(w, http.StatusNotFound, fmt.Sprintf("expense %d not found", id))
		return
	}

	router.internalError(w, r, err)
}

func (router *router) dateRangeHandler(w http.ResponseWriter, r *http.Request) {
	start, startErr := expense.ParseTimestamp(r.URL.Query().Get("startDate"), time.Local)
	end, endErr := expense.ParseTimestamp(r.URL.Query().Get("endDate"), time.Local)
	if startErr != nil || endErr != nil {
		router.writeError(w, http.StatusBadRequest, "startDate and endDate must be ISO-8601 timestamps")
		return
	}

	expenses, err := router.storage.GetExpensesFromDateRange(r.Context(), start, end)
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.writeJSON(w, http.StatusOK, newExpenseResponses(expenses))
}

func (router *router) monthHandler(w http.ResponseWriter, r *http.Request) {
	year, yearErr := strconv.Atoi(r.PathValue("year"))
	month, monthErr := strconv.Atoi(r.PathValue("month"))
	if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
		router.writeError(w, http.StatusBadRequest, "year and month (1-12) are required")
		return
	}

	expenses, err := report.MonthExpenses(r.Context(), router.storage, year, time.Month(month))
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.writeJSON(w, http.StatusOK, newExpenseResponses(expenses))
}

func (router *router) recentHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit

	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			router.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", value))
			return
		}
		limit = parsed
	}

	expenses, err := router.storage.GetRecentExpenses(r.Context(), limit)
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.writeJSON(w, http.StatusOK, newExpenseResponses(expenses))
}

func (router *router) sortedHandler(w http.ResponseWriter, r *http.Request) {
	sortBy := strings.ToLower(r.URL.Query().Get("sortBy"))
	if sortBy == "" {
		sortBy = string(storage.SortByDate)
	}

	ascending := true
	if value := r.URL.Query().Get("ascending"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			router.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid ascending %q", value))
			return
		}
		ascending = parsed
	}

	expenses, err := router.storage.GetSortedExpenses(r.Context(), storage.SortField(sortBy), ascending)
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.writeJSON(w, http.StatusOK, newExpenseResponses(expenses))
}

func (router *router) summaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := report.Summary(r.Context(), router.storage, router.now())
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.writeJSON(w, http.StatusOK, summaryResponse{
		TotalExpenses:        amount(summary.TotalExpenses),
		MonthlyExpenses:      amount(summary.MonthlyExpenses),
		YearlyExpenses:       amount(summary.YearlyExpenses),
		ExpensesByCategory:   amounts(summary.ExpensesByCategory),
		HighestSpendCategory: summary.HighestSpendCategory,
		LowestSpendCategory:  summary.LowestSpendCategory,
		HighestSpendAmount:   amount(summary.HighestSpendAmount),
		LowestSpendAmount:    amount(summary.LowestSpendAmount),
	})
}

func (router *router) byCategoryHandler(w http.ResponseWriter, r *http.Request) {
	expenses, err := router.storage.GetExpenses(r.Context())
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.writeJSON(w, http.StatusOK, amounts(report.ByCategory(expenses)))
}

func (router *router) trendHandler(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		router.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid year %q", r.PathValue("year")))
		return
	}

	trend, err := report.Trend(r.Context(), router.storage, year)
	if err != nil {
		router.internalError(w, r, err)
		return
	}

	router.writeJSON(w, http.StatusOK, amounts(trend))
}
