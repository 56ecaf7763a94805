package tui

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/GustavoCaso/expenseview/internal/chart"
	"github.com/GustavoCaso/expenseview/internal/cli"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/controller"
	"github.com/GustavoCaso/expenseview/internal/expense"
	"github.com/GustavoCaso/expenseview/internal/logger"
	"github.com/GustavoCaso/expenseview/internal/util"
)

const (
	layoutSplitRatio = 2
	chromeHeight     = 8
)

var modelStyle = lipgloss.NewStyle().
	Align(lipgloss.Left, lipgloss.Top).
	BorderStyle(lipgloss.HiddenBorder()).
	Border(lipgloss.NormalBorder())

var focusedModelStyle = lipgloss.NewStyle().
	Align(lipgloss.Left, lipgloss.Top).
	BorderStyle(lipgloss.NormalBorder()).
	Border(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("69"))

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("69"))

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241"))

type tuiCommand struct{}

func NewCommand() cli.Command {
	return tuiCommand{}
}

func (c tuiCommand) Description() string {
	return "Interactive terminal user interface"
}

func (c tuiCommand) SetFlags(*flag.FlagSet) {
}

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirm
	modeRange
)

// stateMsg tells the model the controller state changed.
type stateMsg controller.Event

type submitDoneMsg struct {
	err error
}

type model struct {
	ctx      context.Context
	ctrl     *controller.Controller
	registry *chart.Registry
	renderer *chart.TerminalRenderer

	state   controller.State
	table   expensesTable
	form    expenseForm
	ranges  rangeForm
	help    help.Model
	spinner spinner.Model

	listKeyMap    listKeymap
	formKeyMap    formKeymap
	confirmKeyMap confirmKeymap

	mode    mode
	confirm confirmMsg

	width  int
	height int
}

func initialModel(
	ctx context.Context,
	ctrl *controller.Controller,
	registry *chart.Registry,
	renderer *chart.TerminalRenderer,
	width int,
	height int,
) model {
	return model{
		ctx:      ctx,
		ctrl:     ctrl,
		registry: registry,
		renderer: renderer,

		state:   ctrl.State(),
		table:   newExpensesTable(width, tableHeight(height)),
		form:    newExpenseForm(),
		ranges:  newRangeForm(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),

		listKeyMap:    listKeyMap(),
		formKeyMap:    formKeyMap(),
		confirmKeyMap: confirmKeyMap(),

		mode: modeBrowse,

		width:  width,
		height: height,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(m.ctrl.Init))
}

// run performs fn off the event loop. Failures already surface as
// notifications through the controller state.
func (m model) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = fn(ctx)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
		m.SetHeight(msg.Height)
		m.renderer.SetWidth(chartWidth(m.width))
		m.table = m.table.UpdateDimensions(m.width, tableHeight(m.height))
		return m, m.run(func(ctx context.Context) error {
			m.ctrl.UpdateCharts(ctx)
			return nil
		})
	case stateMsg:
		m.refresh()
		return m, nil
	case confirmMsg:
		m.mode = modeConfirm
		m.confirm = msg
		return m, nil
	case submitDoneMsg:
		if msg.err == nil {
			m.mode = modeBrowse
		}
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeRange:
			return m.updateRange(msg)
		case modeBrowse:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.listKeyMap.Exit):
		return m, tea.Quit
	case key.Matches(msg, m.listKeyMap.Up), key.Matches(msg, m.listKeyMap.Down):
		m.table, cmd = m.table.Update(msg)
	case key.Matches(msg, m.listKeyMap.Add):
		m.ctrl.CancelEdit()
		m.form, cmd = m.form.Load(m.ctrl.State().Draft)
		m.mode = modeForm
	case key.Matches(msg, m.listKeyMap.Edit):
		if e, ok := m.table.Selected(); ok {
			m.ctrl.EditExpense(e)
			m.form, cmd = m.form.Load(m.ctrl.State().Draft)
			m.mode = modeForm
		}
	case key.Matches(msg, m.listKeyMap.Delete):
		if e, ok := m.table.Selected(); ok {
			cmd = m.run(func(ctx context.Context) error {
				return m.ctrl.DeleteExpense(ctx, e.ID)
			})
		}
	case key.Matches(msg, m.listKeyMap.Sort):
		m.ctrl.SetSortBy(next(expense.SortKeys, m.state.SortBy))
	case key.Matches(msg, m.listKeyMap.Order):
		m.ctrl.ToggleSortOrder()
	case key.Matches(msg, m.listKeyMap.Filter):
		filter := next(expense.FilterTypes, m.state.Filter.Type)
		m.ctrl.SetFilterType(filter)
		if filter == expense.FilterDateRange && !m.state.Filter.DateRange.Complete() {
			m.ranges, cmd = m.ranges.Load(m.state.Filter.DateRange)
			m.mode = modeRange
			break
		}
		cmd = m.run(m.ctrl.ApplyFilter)
	case key.Matches(msg, m.listKeyMap.DateRange):
		m.ranges, cmd = m.ranges.Load(m.state.Filter.DateRange)
		m.mode = modeRange
	case key.Matches(msg, m.listKeyMap.PrevMonth), key.Matches(msg, m.listKeyMap.NextMonth):
		delta := 1
		if key.Matches(msg, m.listKeyMap.PrevMonth) {
			delta = -1
		}
		year, month := shiftMonth(m.state.SelectedYear, m.state.SelectedMonth, delta)
		cmd = m.run(func(ctx context.Context) error {
			m.ctrl.SetChartPeriod(ctx, year, month)
			return nil
		})
	case key.Matches(msg, m.listKeyMap.Reload):
		cmd = m.run(func(ctx context.Context) error {
			return errors.Join(m.ctrl.LoadExpenses(ctx), m.ctrl.LoadSummary(ctx))
		})
	case key.Matches(msg, m.listKeyMap.Dismiss):
		m.ctrl.DismissNotification()
	case key.Matches(msg, m.listKeyMap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.refresh()

	return m, cmd
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.formKeyMap.Cancel):
		m.ctrl.CancelEdit()
		m.mode = modeBrowse
	case key.Matches(msg, m.formKeyMap.Next):
		m.form, cmd = m.form.Next()
	case key.Matches(msg, m.formKeyMap.Prev):
		m.form, cmd = m.form.Prev()
	case key.Matches(msg, m.formKeyMap.Clear):
		m.ctrl.ClearDraftField(m.form.Field())
		m.form.SetValues(m.ctrl.State().Draft)
	case key.Matches(msg, m.formKeyMap.Submit):
		ctrl, ctx := m.ctrl, m.ctx
		cmd = func() tea.Msg {
			return submitDoneMsg{err: ctrl.SubmitExpense(ctx)}
		}
	default:
		m.form, cmd = m.form.Update(msg)
		m.ctrl.UpdateDraft(m.form.Apply)
	}

	m.refresh()

	return m, cmd
}

// updateRange edits the date range bounds. Submitting switches the list to
// the dateRange filter and reloads it.
func (m model) updateRange(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.formKeyMap.Cancel):
		// an incomplete dateRange filter lists everything
		m.mode = modeBrowse
		cmd = m.run(m.ctrl.ApplyFilter)
	case key.Matches(msg, m.formKeyMap.Next), key.Matches(msg, m.formKeyMap.Prev):
		m.ranges, cmd = m.ranges.Toggle()
	case key.Matches(msg, m.formKeyMap.Clear):
		m.ranges = m.ranges.Clear()
	case key.Matches(msg, m.formKeyMap.Submit):
		bounds, err := m.ranges.Bounds()
		if err != nil {
			m.ranges.err = err.Error()
			break
		}

		m.ctrl.SetFilterType(expense.FilterDateRange)
		m.ctrl.SetDateRange(bounds.Start, bounds.End)
		m.mode = modeBrowse
		cmd = m.run(m.ctrl.ApplyFilter)
	default:
		m.ranges, cmd = m.ranges.Update(msg)
	}

	m.refresh()

	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.confirmKeyMap.Yes):
		m.confirm.answer <- true
		m.mode = modeBrowse
	case key.Matches(msg, m.confirmKeyMap.No):
		m.confirm.answer <- false
		m.mode = modeBrowse
	}

	return m, nil
}

func (m *model) refresh() {
	m.state = m.ctrl.State()
	m.table = m.table.SetExpenses(m.state.Expenses)
}

func (m model) View() string {
	sections := []string{m.headerView(), m.table.View(), m.summaryView()}

	switch m.mode {
	case modeForm:
		sections = append(sections, focusedModelStyle.Render(m.form.View()))
	case modeConfirm:
		sections = append(sections, focusedModelStyle.Render(m.confirm.prompt+" (y/n)"))
	case modeRange:
		sections = append(sections, focusedModelStyle.Render(m.ranges.View()))
	case modeBrowse:
		half := chartWidth(m.width)
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			modelStyle.Width(half).Render(m.registry.View(chart.CategoryCanvas)),
			modelStyle.Width(half).Render(m.registry.View(chart.TrendCanvas)),
		))
	}

	if notification := cli.NotificationText(m.state.Notification); notification != "" {
		sections = append(sections, notification)
	}

	sections = append(sections, m.helpView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) headerView() string {
	order := "desc"
	if m.state.SortAscending {
		order = "asc"
	}

	filter := string(m.state.Filter.Type)
	if r := m.state.Filter.DateRange; m.state.Filter.Type == expense.FilterDateRange && r.Complete() {
		filter = fmt.Sprintf("%s %s..%s", filter, r.Start, r.End)
	}

	status := fmt.Sprintf("filter: %s | sort: %s %s | charts: %s %d",
		filter, m.state.SortBy, order, m.state.SelectedMonth, m.state.SelectedYear)

	header := lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("Expenses "), statusStyle.Render(status))
	if m.state.Loading {
		header += " " + m.spinner.View()
	}

	return header
}

func (m model) summaryView() string {
	s := m.state.Summary

	return fmt.Sprintf("Total %s | This month %s | This year %s | Highest %s | Lowest %s",
		util.Dollars(s.TotalExpenses),
		util.Dollars(s.MonthlyExpenses),
		util.Dollars(s.YearlyExpenses),
		s.HighestSpendCategory,
		s.LowestSpendCategory,
	)
}

func (m model) helpView() string {
	switch m.mode {
	case modeForm, modeRange:
		return m.help.View(m.formKeyMap)
	case modeConfirm:
		return m.help.View(m.confirmKeyMap)
	default:
		return m.help.View(m.listKeyMap)
	}
}

func (m *model) SetHeight(height int) {
	m.height = height
}

func (m *model) SetWidth(width int) {
	m.width = width
}

func tableHeight(height int) int {
	return max(height/layoutSplitRatio-chromeHeight, 3)
}

func chartWidth(width int) int {
	return width/layoutSplitRatio - 2
}

// next returns the value after current in values, wrapping around.
func next[T comparable](values []T, current T) T {
	i := slices.Index(values, current)
	return values[(i+1)%len(values)]
}

func shiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

func (c tuiCommand) Run(conf *config.Config, appLogger *logger.Logger) error {
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	if len(os.Getenv("EXPENSEVIEW_DEBUG")) > 0 {
		f, logErr := tea.LogToFile("debug.log", "debug")
		if logErr != nil {
			return fmt.Errorf("failed to log to file: %w", logErr)
		}
		defer f.Close()
	}

	// records written to the terminal would corrupt the screen
	if conf.Logger.Output == "stdout" || conf.Logger.Output == "stderr" {
		appLogger = logger.New(logger.Config{
			Level:  conf.Logger.Level,
			Format: conf.Logger.Format,
			Output: "discard",
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer := chart.NewTerminalRenderer(chartWidth(w))
	registry := chart.NewRegistry(renderer, chart.CategoryCanvas, chart.TrendCanvas)
	defer registry.Close()

	confirmer := &promptConfirmer{}
	ctrl := controller.New(cli.NewClient(conf, appLogger), registry, confirmer, appLogger, cli.ControllerOptions(conf))
	defer ctrl.Close()

	p := tea.NewProgram(initialModel(ctx, ctrl, registry, renderer, w, h), tea.WithAltScreen())
	confirmer.send = p.Send

	unsubscribe := ctrl.Subscribe(func(e controller.Event) {
		go p.Send(stateMsg(e))
	})
	defer unsubscribe()

	if _, err = p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
