package delete

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GustavoCaso/expenseview/internal/cli"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/controller"
	"github.com/GustavoCaso/expenseview/internal/logger"
	"github.com/GustavoCaso/expenseview/internal/util"
)

type deleteCommand struct {
	in  io.Reader
	out io.Writer

	id  int64
	yes bool
}

func NewCommand() cli.Command {
	return &deleteCommand{in: os.Stdin, out: os.Stdout}
}

func (c *deleteCommand) Description() string {
	return "Delete an expense after confirmation"
}

func (c *deleteCommand) SetFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.id, "id", 0, "id of the expense to delete")
	fs.BoolVar(&c.yes, "y", false, "skip the confirmation prompt")
}

func (c *deleteCommand) Run(conf *config.Config, logger *logger.Logger) error {
	if c.id == 0 {
		return errors.New("-id is required")
	}

	confirmed := false
	confirmer := controller.ConfirmFunc(func(_ context.Context, prompt string) bool {
		confirmed = c.yes || c.prompt(prompt)
		return confirmed
	})

	ctrl := controller.New(cli.NewClient(conf, logger), nil, confirmer, logger, cli.ControllerOptions(conf))
	defer ctrl.Close()

	err := ctrl.DeleteExpense(context.Background(), c.id)
	cli.PrintNotification(c.out, ctrl.State().Notification)

	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", c.id, err)
	}

	if !confirmed {
		fmt.Fprintln(c.out, util.Tint("Deletion cancelled", util.ToneWarning))
	}

	return nil
}

// prompt asks on the command line; anything but y or yes declines.
func (c *deleteCommand) prompt(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
