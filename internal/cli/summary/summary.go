package summary

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/GustavoCaso/expenseview/internal/chart"
	"github.com/GustavoCaso/expenseview/internal/cli"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/controller"
	"github.com/GustavoCaso/expenseview/internal/logger"
)

type summaryCommand struct {
	out   io.Writer
	width func() int

	year  int
	month int
}

func NewCommand() cli.Command {
	return &summaryCommand{out: os.Stdout, width: terminalWidth}
}

func (c *summaryCommand) Description() string {
	return "Display the spending summary with the category and trend charts"
}

func (c *summaryCommand) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.year, "year", 0, "year shown by the charts, defaults to the current year")
	fs.IntVar(&c.month, "month", 0, "month (1-12) shown by the category chart, defaults to the current month")
}

func (c *summaryCommand) Run(conf *config.Config, logger *logger.Logger) error {
	if c.month < 0 || c.month > 12 {
		return fmt.Errorf("invalid month %d", c.month)
	}

	ctx := context.Background()

	registry := chart.NewRegistry(chart.NewTerminalRenderer(c.width()), chart.CategoryCanvas, chart.TrendCanvas)
	defer registry.Close()

	opts := cli.ControllerOptions(conf)
	opts.ChartDelay = 0

	ctrl := controller.New(cli.NewClient(conf, logger), registry, nil, logger, opts)
	defer ctrl.Close()

	state := ctrl.State()
	year, month := state.SelectedYear, state.SelectedMonth
	if c.year != 0 {
		year = c.year
	}
	if c.month != 0 {
		month = time.Month(c.month)
	}

	if year != state.SelectedYear || month != state.SelectedMonth {
		ctrl.SetChartPeriod(ctx, year, month)
	}

	err := ctrl.LoadSummary(ctx)
	if err != nil {
		cli.PrintNotification(c.out, ctrl.State().Notification)
		return fmt.Errorf("failed to load summary: %w", err)
	}

	state = ctrl.State()

	fmt.Fprintln(c.out, cli.SummaryTable(state.Summary))
	fmt.Fprintln(c.out, lipgloss.JoinVertical(lipgloss.Left,
		registry.View(chart.CategoryCanvas),
		"",
		registry.View(chart.TrendCanvas),
	))
	cli.PrintNotification(c.out, state.Notification)

	return nil
}

func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 0
	}
	return w
}
