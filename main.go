package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/GustavoCaso/expenseview/internal/cli"
	"github.com/GustavoCaso/expenseview/internal/cli/add"
	"github.com/GustavoCaso/expenseview/internal/cli/delete"
	"github.com/GustavoCaso/expenseview/internal/cli/list"
	"github.com/GustavoCaso/expenseview/internal/cli/serve"
	"github.com/GustavoCaso/expenseview/internal/cli/summary"
	"github.com/GustavoCaso/expenseview/internal/cli/tui"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/logger"
)

var configPath string

var subcommands = map[string]cli.Command{
	"tui":     tui.NewCommand(),
	"list":    list.NewCommand(),
	"add":     add.NewCommand(),
	"delete":  delete.NewCommand(),
	"summary": summary.NewCommand(),
	"serve":   serve.NewCommand(),
}

var subcommandsFlagSets = map[string]*flag.FlagSet{}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("subcommand is required\n")
		printUsage()

		os.Exit(1)
	}

	for c, cLogic := range subcommands {
		fset := flag.NewFlagSet(c, flag.ExitOnError)
		fset.StringVar(&configPath, "c", "expenseview.toml", "Configuration file")

		cLogic.SetFlags(fset)

		subcommandsFlagSets[c] = fset
	}

	commandName := os.Args[1]
	command, ok := subcommands[commandName]
	if !ok {
		if strings.Contains(commandName, "help") {
			printHelp()

			os.Exit(0)
		}
		log.Fatalf("unsupported command %s. \nUse 'help' command to print information about supported commands\n", commandName)
	}

	_ = subcommandsFlagSets[commandName].Parse(os.Args[2:])

	conf, err := config.Parse(configPath)
	if err != nil {
		log.Fatalf("Unable to parse the configuration: %s", err.Error())
	}

	appLogger := logger.New(conf.Logger)

	if err = command.Run(conf, appLogger); err != nil {
		appLogger.Error("Command failed", "command", commandName, "error", err.Error())
		os.Exit(1)
	}
}

func printHelp() {
	printUsage()

	names := make([]string, 0, len(subcommands))
	for c := range subcommands {
		names = append(names, c)
	}
	sort.Strings(names)

	for _, c := range names {
		fmt.Printf("subcommand <%s>: %s\n", c, subcommands[c].Description())
		subcommandsFlagSets[c].PrintDefaults()
		fmt.Println()
	}
}

func printUsage() {
	fmt.Printf("usage: expenseview <subcommand> [flags]\n\n")
}
