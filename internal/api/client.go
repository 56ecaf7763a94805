// Package api is a thin client for the expenses REST backend. Each method
// issues exactly one request; nothing is retried or cached, and failures are
// logged once and returned to the caller unchanged.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/expense"
	"github.com/GustavoCaso/expenseview/internal/logger"
)

const (
	DefaultRecentLimit = 50
	requestIDHeader    = "X-Request-ID"
	maxErrorBody       = 4096
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every request. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func New(baseURL string, logger *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger.With("component", "api"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) ListExpenses(ctx context.Context) ([]expense.Expense, error) {
	return c.getExpenses(ctx, "/expenses", nil)
}

func (c *Client) GetExpense(ctx context.Context, id int64) (expense.Expense, error) {
	if err := c.requireID("get expense", id); err != nil {
		return expense.Expense{}, err
	}

	var record expenseRecord
	u, err := c.do(ctx, http.MethodGet, expensePath(id), nil, nil, &record)
	if err != nil {
		return expense.Expense{}, err
	}

	return c.expenseFromRecord(u, record)
}

func (c *Client) CreateExpense(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	var record expenseRecord
	u, err := c.do(ctx, http.MethodPost, "/expenses", nil, newExpenseBody(e), &record)
	if err != nil {
		return expense.Expense{}, err
	}

	return c.expenseFromRecord(u, record)
}

func (c *Client) UpdateExpense(ctx context.Context, id int64, e expense.Expense) (expense.Expense, error) {
	if err := c.requireID("update expense", id); err != nil {
		return expense.Expense{}, err
	}

	var record expenseRecord
	u, err := c.do(ctx, http.MethodPut, expensePath(id), nil, newExpenseBody(e), &record)
	if err != nil {
		return expense.Expense{}, err
	}

	return c.expenseFromRecord(u, record)
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	if err := c.requireID("delete expense", id); err != nil {
		return err
	}

	_, err := c.do(ctx, http.MethodDelete, expensePath(id), nil, nil, nil)
	return err
}

// ExpensesByDateRange expects ISO-8601 bounds, e.g. "2024-01-01T00:00:00".
func (c *Client) ExpensesByDateRange(ctx context.Context, start, end string) ([]expense.Expense, error) {
	if start == "" || end == "" {
		err := &ArgumentError{Operation: "expenses by date range", Argument: "range", Reason: "both bounds are required"}
		c.logFailure(http.MethodGet, "/expenses/date-range", "", err)
		return nil, err
	}

	query := url.Values{}
	query.Set("startDate", start)
	query.Set("endDate", end)

	return c.getExpenses(ctx, "/expenses/date-range", query)
}

func (c *Client) ExpensesByMonth(ctx context.Context, year int, month time.Month) ([]expense.Expense, error) {
	if year < 1000 || year > 9999 {
		err := &ArgumentError{Operation: "expenses by month", Argument: "year", Reason: fmt.Sprintf("%d is not a 4-digit year", year)}
		c.logFailure(http.MethodGet, "/expenses/month", "", err)
		return nil, err
	}

	if month < time.January || month > time.December {
		err := &ArgumentError{Operation: "expenses by month", Argument: "month", Reason: fmt.Sprintf("%d is not within 1-12", month)}
		c.logFailure(http.MethodGet, "/expenses/month", "", err)
		return nil, err
	}

	return c.getExpenses(ctx, fmt.Sprintf("/expenses/month/%d/%d", year, int(month)), nil)
}

// RecentExpenses returns the most recent expenses; a non-positive limit means DefaultRecentLimit.
func (c *Client) RecentExpenses(ctx context.Context, limit int) ([]expense.Expense, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	return c.getExpenses(ctx, "/expenses/recent", query)
}

// SortOptions zero value sorts by date, ascending.
type SortOptions struct {
	SortBy     expense.SortKey
	Descending bool
}

func (c *Client) SortedExpenses(ctx context.Context, opts SortOptions) ([]expense.Expense, error) {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = expense.SortByDate
	}

	query := url.Values{}
	query.Set("sortBy", string(sortBy))
	query.Set("ascending", strconv.FormatBool(!opts.Descending))

	return c.getExpenses(ctx, "/expenses/sorted", query)
}

func (c *Client) Summary(ctx context.Context) (expense.Summary, error) {
	var record summaryRecord
	u, err := c.do(ctx, http.MethodGet, "/expenses/summary", nil, nil, &record)
	if err != nil {
		return expense.Summary{}, err
	}

	summary, err := record.toSummary()
	if err != nil {
		schemaErr := &SchemaError{URL: u, Reason: "summary", Err: err}
		c.logFailure(http.MethodGet, u, "", schemaErr)
		return expense.Summary{}, schemaErr
	}

	return summary, nil
}

func (c *Client) ExpensesByCategory(ctx context.Context) (map[string]decimal.Decimal, error) {
	var raw map[string]json.Number
	u, err := c.do(ctx, http.MethodGet, "/expenses/by-category", nil, nil, &raw)
	if err != nil {
		return nil, err
	}

	amounts, err := parseAmounts(raw)
	if err != nil {
		schemaErr := &SchemaError{URL: u, Reason: "category mapping", Err: err}
		c.logFailure(http.MethodGet, u, "", schemaErr)
		return nil, schemaErr
	}

	return amounts, nil
}

func (c *Client) MonthlyTrend(ctx context.Context, year int) (expense.Trend, error) {
	if year <= 0 {
		err := &ArgumentError{Operation: "monthly trend", Argument: "year", Reason: "year is required"}
		c.logFailure(http.MethodGet, "/expenses/trend", "", err)
		return nil, err
	}

	var raw map[string]json.Number
	u, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/expenses/trend/%d", year), nil, nil, &raw)
	if err != nil {
		return nil, err
	}

	trend, err := toTrend(raw)
	if err != nil {
		schemaErr := &SchemaError{URL: u, Reason: "trend mapping", Err: err}
		c.logFailure(http.MethodGet, u, "", schemaErr)
		return nil, schemaErr
	}

	return trend, nil
}

func (c *Client) getExpenses(ctx context.Context, path string, query url.Values) ([]expense.Expense, error) {
	var records []expenseRecord
	u, err := c.do(ctx, http.MethodGet, path, query, nil, &records)
	if err != nil {
		return nil, err
	}

	expenses := make([]expense.Expense, 0, len(records))
	for _, record := range records {
		e, recordErr := c.expenseFromRecord(u, record)
		if recordErr != nil {
			return nil, recordErr
		}
		expenses = append(expenses, e)
	}

	return expenses, nil
}

func (c *Client) expenseFromRecord(u string, record expenseRecord) (expense.Expense, error) {
	e, err := record.toExpense()
	if err != nil {
		schemaErr := &SchemaError{URL: u, Reason: "expense", Err: err}
		c.logFailure(http.MethodGet, u, "", schemaErr)
		return expense.Expense{}, schemaErr
	}
	return e, nil
}

func (c *Client) requireID(operation string, id int64) error {
	if id != 0 {
		return nil
	}

	err := &ArgumentError{Operation: operation, Argument: "id", Reason: "id is required"}
	c.logFailure("", "/expenses", "", err)
	return err
}

// do sends one request and decodes a 2xx body into out (when out is non-nil).
// It returns the request URL for error reporting.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.logFailure(method, u, requestID, err)
			return u, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		c.logFailure(method, u, requestID, err)
		return u, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logFailure(method, u, requestID, err)
		return u, err
	}
	defer resp.Body.Close()

	c.logger.Debug("API request",
		"method", method,
		"url", u,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
		"request_id", requestID,
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		content, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{
			Method:     method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       string(content),
		}
		c.logFailure(method, u, requestID, statusErr)
		return u, statusErr
	}

	if out == nil {
		return u, nil
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err = decoder.Decode(out); err != nil {
		schemaErr := &SchemaError{URL: u, Reason: "invalid JSON", Err: err}
		c.logFailure(method, u, requestID, schemaErr)
		return u, schemaErr
	}

	return u, nil
}

func (c *Client) logFailure(method, u, requestID string, err error) {
	c.logger.Error("API error",
		"method", method,
		"url", u,
		"request_id", requestID,
		"error", err,
	)
}

func expensePath(id int64) string {
	return "/expenses/" + strconv.FormatInt(id, 10)
}
