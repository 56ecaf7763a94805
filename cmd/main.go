// Command server runs only the development REST backend, configured from the
// file named by EXPENSEVIEW_CONFIG.
package main

import (
	"fmt"
	"os"

	"github.com/GustavoCaso/expenseview/internal/cli/serve"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/logger"
)

func main() {
	configPath := os.Getenv("EXPENSEVIEW_CONFIG")
	if configPath == "" {
		configPath = "expenseview.yml"
	}

	conf, err := config.Parse(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse the configuration. %s", err.Error())
		os.Exit(1)
	}

	appLogger := logger.New(conf.Logger)

	if err = serve.NewCommand().Run(conf, appLogger); err != nil {
		appLogger.Error("failed to run the expenses API", "error", err)
		os.Exit(1)
	}
}
