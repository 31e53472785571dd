package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	budget "github.com/markdias/abudgetapp-sub002"
)

type transferCmd struct {
	from     int
	fromPot  string
	to       int
	toPot    string
	amount   float64
	currency string
	credit   int
	exec     int
	execAll  bool
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "manage and execute transfer schedules" }
func (*transferCmd) Usage() string {
	return `bap transfer -from <id> -to <id> [-to-pot <name>] -amount <amount>
bap transfer -exec <id> | -exec-all

  Without -exec flags, creates a standing transfer instruction between two
  endpoints. With -exec or -exec-all, executes pending schedules: the
  source is debited first and an execution that cannot be covered fails
  without moving anything.

Usage Examples:
$ bap transfer -from 1 -to 1 -to-pot Bills -amount 500
$ bap transfer -exec-all

`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.from, "from", 0, "Source account ID.")
	f.StringVar(&c.fromPot, "from-pot", "", "Source pot name.")
	f.IntVar(&c.to, "to", 0, "Destination account ID.")
	f.StringVar(&c.toPot, "to-pot", "", "Destination pot name.")
	f.Float64Var(&c.amount, "amount", 0, "Amount to move per execution.")
	f.StringVar(&c.currency, "currency", "GBP", "Currency code.")
	f.IntVar(&c.credit, "credit-account", 0, "Linked credit account ID; the schedule then re-runs every period.")
	f.IntVar(&c.exec, "exec", 0, "Execute the schedule with this ID.")
	f.BoolVar(&c.execAll, "exec-all", false, "Execute every pending schedule.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	switch {
	case c.execAll:
		n, err := engine.ExecuteAllTransferSchedules(time.Now())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Executed %d transfer schedule(s)\n", n)
		return subcommands.ExitSuccess

	case c.exec != 0:
		if err := engine.ExecuteTransferSchedule(c.exec, time.Now()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Executed transfer schedule %d\n", c.exec)
		return subcommands.ExitSuccess
	}

	if c.from == 0 || c.to == 0 {
		fmt.Fprintln(os.Stderr, "Error: -from and -to are required")
		return subcommands.ExitUsageError
	}
	params := budget.NewTransferParams{
		FromAccountID: c.from,
		FromPotName:   c.fromPot,
		ToAccountID:   c.to,
		ToPotName:     c.toPot,
		Amount:        budget.M(c.amount, c.currency),
	}
	if c.credit != 0 {
		credit := c.credit
		params.CreditAccountID = &credit
	}
	ts, err := engine.AddTransferSchedule(params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created transfer schedule %d for %s\n", ts.ID, ts.Amount)
	return subcommands.ExitSuccess
}
