package list

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/GustavoCaso/expenseview/internal/cli"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/controller"
	"github.com/GustavoCaso/expenseview/internal/expense"
	"github.com/GustavoCaso/expenseview/internal/export"
	"github.com/GustavoCaso/expenseview/internal/logger"
	"github.com/GustavoCaso/expenseview/internal/util"
)

type listCommand struct {
	out io.Writer

	filter    string
	start     string
	end       string
	sortBy    string
	ascending bool
	format    string
}

const (
	formatTable = "table"
	formatCSV   = "csv"
)

func NewCommand() cli.Command {
	return &listCommand{out: os.Stdout}
}

func (c *listCommand) Description() string {
	return "List expenses with the given filter and sort order"
}

func (c *listCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", string(expense.FilterAll), "filter to apply: all, recent, month or dateRange")
	fs.StringVar(&c.start, "start", "", "first day (YYYY-MM-DD or YYYY-MM-DDTHH:MM) of the dateRange filter")
	fs.StringVar(&c.end, "end", "", "last day (YYYY-MM-DD or YYYY-MM-DDTHH:MM) of the dateRange filter")
	fs.StringVar(&c.sortBy, "sort", string(expense.SortByDate), "sort by date, amount or category")
	fs.BoolVar(&c.ascending, "asc", false, "sort in ascending order")
	fs.StringVar(&c.format, "format", formatTable, "output format: table or csv")
}

func (c *listCommand) Run(conf *config.Config, logger *logger.Logger) error {
	filter := expense.FilterType(c.filter)
	if !slices.Contains(expense.FilterTypes, filter) {
		return fmt.Errorf("unknown filter %q", c.filter)
	}

	sortBy := expense.SortKey(c.sortBy)
	if !slices.Contains(expense.SortKeys, sortBy) {
		return fmt.Errorf("unknown sort key %q", c.sortBy)
	}

	start, err := expense.ParseDay(c.start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	end, err := expense.ParseDay(c.end)
	if err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}

	if c.format == "" {
		c.format = formatTable
	}
	if c.format != formatTable && c.format != formatCSV {
		return fmt.Errorf("unknown format %q", c.format)
	}

	ctrl := controller.New(cli.NewClient(conf, logger), nil, nil, logger, cli.ControllerOptions(conf))
	defer ctrl.Close()

	ctrl.SetFilterType(filter)
	ctrl.SetDateRange(start, end)
	ctrl.SetSortBy(sortBy)
	if c.ascending {
		ctrl.ToggleSortOrder()
	}

	if err := ctrl.ApplyFilter(context.Background()); err != nil {
		cli.PrintNotification(c.out, ctrl.State().Notification)
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	expenses := ctrl.State().Expenses

	if c.format == formatCSV {
		return export.CSV(c.out, expenses)
	}

	if len(expenses) == 0 {
		fmt.Fprintln(c.out, util.Tint("No expenses found", util.ToneMuted))
		return nil
	}

	fmt.Fprintln(c.out, cli.ExpensesTable(expenses))
	fmt.Fprintf(c.out, "%d expenses, total %s\n", len(expenses),
		util.Tint(util.Dollars(cli.Total(expenses)), util.ToneEmphasis))

	return nil
}
