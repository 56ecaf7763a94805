package cli

import (
	"flag"

	"github.com/GustavoCaso/expenseview/internal/api"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/controller"
	"github.com/GustavoCaso/expenseview/internal/logger"
)

type Command interface {
	SetFlags(fset *flag.FlagSet)
	Description() string
	Run(conf *config.Config, logger *logger.Logger) error
}

// NewClient builds the API client every view talks through.
func NewClient(conf *config.Config, logger *logger.Logger) *api.Client {
	return api.New(conf.API.BaseURL, logger, api.WithTimeout(conf.API.Timeout))
}

func ControllerOptions(conf *config.Config) controller.Options {
	return controller.Options{
		NotificationDelay: conf.UI.NotificationDelay,
		ChartDelay:        conf.UI.ChartDelay,
		RecentLimit:       conf.UI.RecentLimit,
	}
}
