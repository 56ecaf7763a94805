package add

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/GustavoCaso/expenseview/internal/cli"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/controller"
	"github.com/GustavoCaso/expenseview/internal/expense"
	"github.com/GustavoCaso/expenseview/internal/logger"
)

type addCommand struct {
	out io.Writer

	id          int64
	description string
	amount      string
	category    string
	date        string
}

func NewCommand() cli.Command {
	return &addCommand{out: os.Stdout}
}

func (c *addCommand) Description() string {
	return "Add a new expense, or edit an existing one when -id is given"
}

func (c *addCommand) SetFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.id, "id", 0, "id of the expense to edit")
	fs.StringVar(&c.description, "d", "", "description")
	fs.StringVar(&c.amount, "a", "", "amount, e.g. 12.50")
	fs.StringVar(&c.category, "cat", "", "category")
	fs.StringVar(&c.date, "date", "", "date and time (YYYY-MM-DDTHH:MM), defaults to now")
}

func (c *addCommand) Run(conf *config.Config, logger *logger.Logger) error {
	ctx := context.Background()
	client := cli.NewClient(conf, logger)

	ctrl := controller.New(client, nil, nil, logger, cli.ControllerOptions(conf))
	defer ctrl.Close()

	if c.id != 0 {
		current, err := client.GetExpense(ctx, c.id)
		if err != nil {
			return fmt.Errorf("failed to load expense %d: %w", c.id, err)
		}
		ctrl.EditExpense(current)
	}

	// flags left empty keep the values already in the draft
	ctrl.UpdateDraft(func(d *expense.Draft) {
		if c.description != "" {
			d.Description = c.description
		}
		if c.amount != "" {
			d.Amount = expense.ParseAmount(c.amount)
		}
		if c.category != "" {
			d.Category = c.category
		}
		if c.date != "" {
			d.Date = c.date
		}
	})

	err := ctrl.SubmitExpense(ctx)
	cli.PrintNotification(c.out, ctrl.State().Notification)

	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}

	return nil
}
