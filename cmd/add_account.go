package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	budget "github.com/markdias/abudgetapp-sub002"
)

type addAccountCmd struct {
	name     string
	typ      string
	category string
	balance  float64
	currency string
	exclude  bool
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create a new account" }
func (*addAccountCmd) Usage() string {
	return `bap add-account -name <name> [-type current|savings|credit] [-balance <amount>]

  Creates an account with an opening balance.

Usage Examples:
$ bap add-account -name "Main" -type current -balance 1200.50

`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name.")
	f.StringVar(&c.typ, "type", "current", "Account type (current, savings, credit).")
	f.StringVar(&c.category, "category", "", "Free-form category.")
	f.Float64Var(&c.balance, "balance", 0, "Opening balance.")
	f.StringVar(&c.currency, "currency", "GBP", "Currency code.")
	f.BoolVar(&c.exclude, "exclude-from-reset", false, "Exclude the account from balance resets and reductions.")
}

func (c *addAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required")
		return subcommands.ExitUsageError
	}
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	acc, err := engine.AddAccount(c.name, budget.AccountType(c.typ), c.category, budget.M(c.balance, c.currency))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.exclude {
		exclude := true
		if _, err := engine.UpdateAccount(acc.ID, budget.AccountUpdate{ExcludeFromReset: &exclude}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	fmt.Printf("Created account %d %q with balance %s\n", acc.ID, acc.Name, acc.Balance)
	return subcommands.ExitSuccess
}
