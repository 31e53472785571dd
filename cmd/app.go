// Package cmd implements the CLI application to manage the budget ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	budget "github.com/markdias/abudgetapp-sub002"
	"github.com/markdias/abudgetapp-sub002/logger"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&addAccountCmd{}, "accounts")
	c.Register(&addPotCmd{}, "accounts")

	c.Register(&addTxCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")

	c.Register(&processCmd{}, "processing")
	c.Register(&reduceCmd{}, "processing")
	c.Register(&resetCmd{}, "processing")
	c.Register(&purgeCmd{}, "processing")

	c.Register(&exportCmd{}, "data")
	c.Register(&importCmd{}, "data")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", defaultLedgerFile(), "Path to the ledger file (JSON)")

func defaultLedgerFile() string {
	if f := os.Getenv("BAP_LEDGER_FILE"); f != "" {
		return f
	}
	return "budget.json"
}

// OpenEngine is the central function to open the ledger engine on the app
// ledger file.
func OpenEngine() (*budget.Engine, error) {
	return budget.NewEngine(budget.NewFileStore(*ledgerFile), budget.WithLogger(logger.Get()))
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
