// Package controller owns the view state of the expense tracker and
// orchestrates every load, save and chart refresh through the API client.
//
// Methods are safe for concurrent use. Network calls run outside the state
// lock; each query type carries a generation counter so a response that was
// overtaken by a newer request of the same type is dropped.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GustavoCaso/expenseview/internal/chart"
	"github.com/GustavoCaso/expenseview/internal/expense"
	"github.com/GustavoCaso/expenseview/internal/logger"
)

const (
	DefaultNotificationDelay = 3 * time.Second
	DefaultRecentLimit       = 50

	DeletePrompt = "Are you sure you want to delete this expense?"
)

const (
	msgAdded              = "Expense added successfully"
	msgUpdated            = "Expense updated successfully"
	msgSaveFailed         = "Error saving expense"
	msgDeleted            = "Expense deleted successfully"
	msgDeleteFailed       = "Error deleting expense"
	msgLoadFailed         = "Error loading expenses"
	msgSummaryFailed      = "Error loading summary"
	msgCategoryChartError = "Error loading category chart"
	msgTrendChartError    = "Error loading trend chart"
)

// Service is the subset of the API client the controller depends on.
type Service interface {
	ListExpenses(ctx context.Context) ([]expense.Expense, error)
	RecentExpenses(ctx context.Context, limit int) ([]expense.Expense, error)
	ExpensesByMonth(ctx context.Context, year int, month time.Month) ([]expense.Expense, error)
	ExpensesByDateRange(ctx context.Context, start, end string) ([]expense.Expense, error)
	CreateExpense(ctx context.Context, e expense.Expense) (expense.Expense, error)
	UpdateExpense(ctx context.Context, id int64, e expense.Expense) (expense.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	Summary(ctx context.Context) (expense.Summary, error)
	MonthlyTrend(ctx context.Context, year int) (expense.Trend, error)
}

// Canvas is where charts get drawn. A chart whose mount point is missing is
// never requested.
type Canvas interface {
	Has(canvas string) bool
	Draw(canvas string, c chart.Chart) error
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

type Options struct {
	NotificationDelay time.Duration
	// ChartDelay postpones the first chart refresh in Init; zero draws at once.
	ChartDelay        time.Duration
	RecentLimit       int
	Now               func() time.Time
}

func (o Options) withDefaults() Options {
	if o.NotificationDelay <= 0 {
		o.NotificationDelay = DefaultNotificationDelay
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = DefaultRecentLimit
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type query int

const (
	queryList query = iota
	querySummary
	queryCategoryChart
	queryTrendChart
	queryCount
)

type Controller struct {
	service   Service
	canvas    Canvas
	confirmer Confirmer
	logger    *logger.Logger
	opts      Options

	mu                sync.Mutex
	state             State
	inFlight          int
	generations       [queryCount]uint64
	notificationSeq   uint64
	notificationTimer *time.Timer
	subscribers       map[int]func(Event)
	nextSubscriber    int
	closed            bool

	// serializes the fence check with the draw so an older chart cannot
	// replace a newer one
	drawMu sync.Mutex
}

// New builds a controller in its initial state: empty list, blank draft,
// filter "all", newest first, charts on the current month. canvas and
// confirmer may be nil; a nil confirmer declines every deletion.
func New(service Service, canvas Canvas, confirmer Confirmer, log *logger.Logger, opts Options) *Controller {
	opts = opts.withDefaults()
	now := opts.Now()

	return &Controller{
		service:   service,
		canvas:    canvas,
		confirmer: confirmer,
		logger:    log.With("component", "controller"),
		opts:      opts,
		state: State{
			Draft:         expense.BlankDraft(now),
			Filter:        Filter{Type: expense.FilterAll},
			SortBy:        expense.SortByDate,
			SortAscending: false,
			Summary:       expense.EmptySummary(),
			SelectedYear:  now.Year(),
			SelectedMonth: now.Month(),
		},
		subscribers: map[int]func(Event){},
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.clone()
}

// Subscribe registers fn for every state change. fn runs on the goroutine
// that made the change and must not block.
func (c *Controller) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubscriber
	c.nextSubscriber++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Init resets the form and loads the list and the summary concurrently. The
// charts are refreshed once the chart delay has elapsed.
func (c *Controller) Init(ctx context.Context) error {
	c.resetDraft()

	var g errgroup.Group
	g.Go(func() error { return c.LoadExpenses(ctx) })
	g.Go(func() error { return c.LoadSummary(ctx) })

	if c.opts.ChartDelay > 0 {
		timer := time.NewTimer(c.opts.ChartDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(g.Wait(), ctx.Err())
		case <-timer.C:
		}
	}

	c.UpdateCharts(ctx)

	return g.Wait()
}

// LoadExpenses fetches the list matching the current filter and publishes it
// sorted by the current sort settings.
func (c *Controller) LoadExpenses(ctx context.Context) error {
	c.mu.Lock()
	filter := c.state.Filter
	gen := c.nextGenerationLocked(queryList)
	c.mu.Unlock()

	c.beginLoading()
	defer c.endLoading()

	expenses, err := c.fetchExpenses(ctx, filter)

	c.mu.Lock()
	if !c.isCurrentLocked(queryList, gen) {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale expense list", "generation", gen)
		return nil
	}

	if err != nil {
		c.mu.Unlock()
		c.logger.Error("Error loading expenses", "filter", string(filter.Type), "error", err)
		c.notify(msgLoadFailed, NotificationError)
		return err
	}

	expense.Sort(expenses, c.state.SortBy, c.state.SortAscending)
	c.state.Expenses = expenses
	c.mu.Unlock()

	c.publish(ExpensesChanged)

	return nil
}

func (c *Controller) fetchExpenses(ctx context.Context, filter Filter) ([]expense.Expense, error) {
	switch filter.Type {
	case expense.FilterRecent:
		return c.service.RecentExpenses(ctx, c.opts.RecentLimit)
	case expense.FilterMonth:
		now := c.opts.Now()
		return c.service.ExpensesByMonth(ctx, now.Year(), now.Month())
	case expense.FilterDateRange:
		if filter.DateRange.Complete() {
			start, end := filter.DateRange.Bounds()
			return c.service.ExpensesByDateRange(ctx, start, end)
		}
		return c.service.ListExpenses(ctx)
	case expense.FilterAll:
		fallthrough
	default:
		return c.service.ListExpenses(ctx)
	}
}

// LoadSummary fetches the aggregate summary and, on success, refreshes the
// charts.
func (c *Controller) LoadSummary(ctx context.Context) error {
	c.mu.Lock()
	gen := c.nextGenerationLocked(querySummary)
	c.mu.Unlock()

	summary, err := c.service.Summary(ctx)

	c.mu.Lock()
	if !c.isCurrentLocked(querySummary, gen) {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale summary", "generation", gen)
		return nil
	}

	if err != nil {
		c.mu.Unlock()
		c.logger.Error("Error loading summary", "error", err)
		c.notify(msgSummaryFailed, NotificationError)
		return err
	}

	c.state.Summary = summary
	c.mu.Unlock()

	c.publish(SummaryChanged)
	c.UpdateCharts(ctx)

	return nil
}

// SubmitExpense validates the draft and creates or updates the record. A
// validation failure is reported without any request being made. Once the
// record is saved the error is nil even if the follow-up reload fails.
func (c *Controller) SubmitExpense(ctx context.Context) error {
	c.mu.Lock()
	draft := c.state.Draft
	c.mu.Unlock()

	e, err := draft.Expense()
	if err != nil {
		var validationErr *expense.ValidationError
		if errors.As(err, &validationErr) {
			c.notify(validationErr.Message, NotificationError)
		}
		return err
	}

	if err = c.save(ctx, draft, e); err != nil {
		return err
	}

	if draft.IsEditing {
		c.notify(msgUpdated, NotificationSuccess)
	} else {
		c.notify(msgAdded, NotificationSuccess)
	}

	c.resetDraft()
	c.reload(ctx)

	return nil
}

func (c *Controller) save(ctx context.Context, draft expense.Draft, e expense.Expense) error {
	c.beginLoading()
	defer c.endLoading()

	var err error
	if draft.IsEditing {
		_, err = c.service.UpdateExpense(ctx, draft.ID, e)
	} else {
		_, err = c.service.CreateExpense(ctx, e)
	}

	if err != nil {
		c.logger.Error("Error saving expense", "id", draft.ID, "editing", draft.IsEditing, "error", err)
		c.notify(msgSaveFailed, NotificationError)
		return err
	}

	return nil
}

// EditExpense switches the form into edit mode for e.
func (c *Controller) EditExpense(e expense.Expense) {
	c.mu.Lock()
	c.state.Draft = expense.DraftFrom(e)
	c.mu.Unlock()

	c.publish(DraftChanged)
}

func (c *Controller) CancelEdit() {
	c.resetDraft()
}

// DeleteExpense asks for confirmation and, when granted, deletes the record and
// reloads the list and the summary. Declining issues no request.
func (c *Controller) DeleteExpense(ctx context.Context, id int64) error {
	if c.confirmer == nil || !c.confirmer.Confirm(ctx, DeletePrompt) {
		return nil
	}

	if err := c.remove(ctx, id); err != nil {
		return err
	}

	c.notify(msgDeleted, NotificationSuccess)
	c.reload(ctx)

	return nil
}

func (c *Controller) remove(ctx context.Context, id int64) error {
	c.beginLoading()
	defer c.endLoading()

	if err := c.service.DeleteExpense(ctx, id); err != nil {
		c.logger.Error("Error deleting expense", "id", id, "error", err)
		c.notify(msgDeleteFailed, NotificationError)
		return err
	}

	return nil
}

// UpdateDraft applies form input to the draft. The draft's mode and id cannot
// be changed this way.
func (c *Controller) UpdateDraft(fn func(d *expense.Draft)) {
	c.mu.Lock()
	id, editing := c.state.Draft.ID, c.state.Draft.IsEditing
	fn(&c.state.Draft)
	c.state.Draft.ID, c.state.Draft.IsEditing = id, editing
	c.mu.Unlock()

	c.publish(DraftChanged)
}

func (c *Controller) ClearDraftField(field expense.DraftField) {
	c.mu.Lock()
	c.state.Draft.Clear(field, c.opts.Now())
	c.mu.Unlock()

	c.publish(DraftChanged)
}

func (c *Controller) SetFilterType(filterType expense.FilterType) {
	c.mu.Lock()
	c.state.Filter.Type = filterType
	c.mu.Unlock()

	c.publish(FilterChanged)
}

// SetDateRange takes date-only bounds (2006-01-02). Either may be empty.
func (c *Controller) SetDateRange(start, end string) {
	c.mu.Lock()
	c.state.Filter.DateRange = expense.DateRange{Start: start, End: end}
	c.mu.Unlock()

	c.publish(FilterChanged)
}

func (c *Controller) ApplyFilter(ctx context.Context) error {
	return c.LoadExpenses(ctx)
}

func (c *Controller) SetSortBy(key expense.SortKey) {
	c.mu.Lock()
	c.state.SortBy = key
	c.mu.Unlock()

	c.ApplySorting()
}

func (c *Controller) ToggleSortOrder() {
	c.mu.Lock()
	c.state.SortAscending = !c.state.SortAscending
	c.mu.Unlock()

	c.ApplySorting()
}

// ApplySorting re-sorts the current list in place.
func (c *Controller) ApplySorting() {
	c.mu.Lock()
	expense.Sort(c.state.Expenses, c.state.SortBy, c.state.SortAscending)
	c.mu.Unlock()

	c.publish(SortChanged)
}

func (c *Controller) AvailableYears() []int {
	return expense.Years(c.opts.Now())
}

func (c *Controller) AvailableMonths() []time.Month {
	return expense.Months()
}

// SetChartPeriod selects the year and month the charts show and redraws them.
func (c *Controller) SetChartPeriod(ctx context.Context, year int, month time.Month) {
	c.mu.Lock()
	c.state.SelectedYear = year
	c.state.SelectedMonth = month
	c.mu.Unlock()

	c.UpdateChartFilters(ctx)
}

func (c *Controller) UpdateChartFilters(ctx context.Context) {
	c.UpdateCharts(ctx)
}

func (c *Controller) UpdateCharts(ctx context.Context) {
	c.UpdateCategoryChart(ctx)
	c.UpdateTrendChart(ctx)
}

// UpdateCategoryChart redraws the per-category breakdown of the selected
// month. Failures are logged and notified, never returned.
func (c *Controller) UpdateCategoryChart(ctx context.Context) {
	if c.canvas == nil || !c.canvas.Has(chart.CategoryCanvas) {
		return
	}

	c.mu.Lock()
	year, month := c.state.SelectedYear, c.state.SelectedMonth
	gen := c.nextGenerationLocked(queryCategoryChart)
	c.mu.Unlock()

	expenses, err := c.service.ExpensesByMonth(ctx, year, month)
	if err != nil {
		if c.isCurrent(queryCategoryChart, gen) {
			c.logger.Error("Error updating category chart", "year", year, "month", int(month), "error", err)
			c.notify(msgCategoryChartError, NotificationError)
		}
		return
	}

	c.draw(queryCategoryChart, gen, chart.CategoryCanvas, chart.Category(expenses, year, month), msgCategoryChartError)
}

// UpdateTrendChart redraws the monthly trend of the selected year. Failures are
// logged and notified, never returned.
func (c *Controller) UpdateTrendChart(ctx context.Context) {
	if c.canvas == nil || !c.canvas.Has(chart.TrendCanvas) {
		return
	}

	c.mu.Lock()
	year := c.state.SelectedYear
	gen := c.nextGenerationLocked(queryTrendChart)
	c.mu.Unlock()

	trend, err := c.service.MonthlyTrend(ctx, year)
	if err != nil {
		if c.isCurrent(queryTrendChart, gen) {
			c.logger.Error("Error updating trend chart", "year", year, "error", err)
			c.notify(msgTrendChartError, NotificationError)
		}
		return
	}

	c.draw(queryTrendChart, gen, chart.TrendCanvas, chart.Trend(trend, year), msgTrendChartError)
}

func (c *Controller) draw(q query, gen uint64, canvas string, model chart.Chart, failure string) {
	c.drawMu.Lock()
	if !c.isCurrent(q, gen) {
		c.drawMu.Unlock()
		c.logger.Debug("Discarding stale chart", "canvas", canvas, "generation", gen)
		return
	}

	err := c.canvas.Draw(canvas, model)
	c.drawMu.Unlock()

	if err != nil {
		c.logger.Error("Chart rendering failed", "canvas", canvas, "error", err)
		c.notify(failure, NotificationError)
		return
	}

	c.publish(ChartsChanged)
}

// DismissNotification hides the current notification ahead of its timer.
func (c *Controller) DismissNotification() {
	c.mu.Lock()
	c.dismissLocked()
	c.mu.Unlock()

	c.publish(NotificationChanged)
}

// Close stops the notification timer and drops every subscriber.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.notificationTimer != nil {
		c.notificationTimer.Stop()
		c.notificationTimer = nil
	}
	clear(c.subscribers)
}

// reload refreshes the list and the summary after a write. Their failures
// are logged and notified by the loads themselves and never fail the write.
func (c *Controller) reload(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { return c.LoadExpenses(ctx) })
	g.Go(func() error { return c.LoadSummary(ctx) })
	_ = g.Wait()
}

func (c *Controller) resetDraft() {
	c.mu.Lock()
	c.state.Draft = expense.BlankDraft(c.opts.Now())
	c.mu.Unlock()

	c.publish(DraftChanged)
}

// notify shows message and arms the dismissal timer. A newer notification
// replaces this one and stops its timer.
func (c *Controller) notify(message string, kind NotificationType) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.notificationSeq++
	seq := c.notificationSeq

	if c.notificationTimer != nil {
		c.notificationTimer.Stop()
	}

	c.state.Notification = Notification{Message: message, Type: kind, Show: true}
	c.notificationTimer = time.AfterFunc(c.opts.NotificationDelay, func() {
		c.expireNotification(seq)
	})
	c.mu.Unlock()

	c.publish(NotificationChanged)
}

// expireNotification hides notification seq unless a newer one replaced it.
func (c *Controller) expireNotification(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.notificationSeq {
		c.mu.Unlock()
		return
	}
	c.dismissLocked()
	c.mu.Unlock()

	c.publish(NotificationChanged)
}

func (c *Controller) dismissLocked() {
	if c.notificationTimer != nil {
		c.notificationTimer.Stop()
		c.notificationTimer = nil
	}
	c.state.Notification.Show = false
}

func (c *Controller) beginLoading() {
	c.mu.Lock()
	c.inFlight++
	c.state.Loading = true
	c.mu.Unlock()

	c.publish(LoadingChanged)
}

func (c *Controller) endLoading() {
	c.mu.Lock()
	c.inFlight--
	c.state.Loading = c.inFlight > 0
	c.mu.Unlock()

	c.publish(LoadingChanged)
}

func (c *Controller) nextGenerationLocked(q query) uint64 {
	c.generations[q]++
	return c.generations[q]
}

func (c *Controller) isCurrentLocked(q query, gen uint64) bool {
	return c.generations[q] == gen
}

func (c *Controller) isCurrent(q query, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.isCurrentLocked(q, gen)
}

func (c *Controller) publish(kind EventKind) {
	c.mu.Lock()
	subscribers := make([]func(Event), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.Unlock()

	event := Event{Kind: kind}
	for _, fn := range subscribers {
		fn(event)
	}
}
