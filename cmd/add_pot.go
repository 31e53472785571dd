package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type addPotCmd struct {
	accountID int
	name      string
	exclude   bool
}

func (*addPotCmd) Name() string     { return "add-pot" }
func (*addPotCmd) Synopsis() string { return "create a pot on an account" }
func (*addPotCmd) Usage() string {
	return `bap add-pot -account <id> -name <name>

  Creates a named pot on the account. The pot starts at zero in the
  account's currency. Pot names are unique per account, ignoring case.

Usage Examples:
$ bap add-pot -account 1 -name Bills

`
}

func (c *addPotCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.accountID, "account", 0, "Owning account ID.")
	f.StringVar(&c.name, "name", "", "Pot name.")
	f.BoolVar(&c.exclude, "exclude-from-reset", false, "Exclude the pot from balance resets.")
}

func (c *addPotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.accountID == 0 || c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -account and -name are required")
		return subcommands.ExitUsageError
	}
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	p, err := engine.AddPot(c.accountID, c.name, c.exclude)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created pot %d %q on account %d\n", p.ID, p.Name, p.AccountID)
	return subcommands.ExitSuccess
}
