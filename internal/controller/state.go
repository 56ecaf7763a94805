package controller

import (
	"maps"
	"slices"
	"time"

	"github.com/GustavoCaso/expenseview/internal/expense"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	Message string
	Type    NotificationType
	Show    bool
}

type Filter struct {
	Type      expense.FilterType
	DateRange expense.DateRange
}

// State is a snapshot of everything a view can observe. Snapshots returned by
// Controller.State share nothing with the controller.
type State struct {
	Expenses      []expense.Expense
	Draft         expense.Draft
	Loading       bool
	Filter        Filter
	SortBy        expense.SortKey
	SortAscending bool
	Summary       expense.Summary
	Notification  Notification
	SelectedYear  int
	SelectedMonth time.Month
}

func (s State) clone() State {
	s.Expenses = slices.Clone(s.Expenses)
	s.Summary.ExpensesByCategory = maps.Clone(s.Summary.ExpensesByCategory)
	return s
}

type EventKind string

const (
	ExpensesChanged     EventKind = "expenses"
	SummaryChanged      EventKind = "summary"
	DraftChanged        EventKind = "draft"
	LoadingChanged      EventKind = "loading"
	NotificationChanged EventKind = "notification"
	FilterChanged       EventKind = "filter"
	SortChanged         EventKind = "sort"
	ChartsChanged       EventKind = "charts"
)

// Event tells subscribers which part of the state changed. Subscribers read the
// new values through Controller.State.
type Event struct {
	Kind EventKind
}
