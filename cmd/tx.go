package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	budget "github.com/markdias/abudgetapp-sub002"
)

type addTxCmd struct {
	name     string
	vendor   string
	amount   float64
	currency string
	kind     string
	date     string
	yearly   string
	account  int
	pot      string
	credit   int
}

func (*addTxCmd) Name() string     { return "add-tx" }
func (*addTxCmd) Synopsis() string { return "create a recurring transaction record" }
func (*addTxCmd) Usage() string {
	return `bap add-tx -name <name> -amount <amount> -account <id> [-kind scheduled|yearly|creditCardCharge] [-date <day>] [-yearly-date DD-MM-YYYY] [-pot <name>]

  Creates a recurring transaction record. The record carries no immediate
  balance effect: it is applied by the processing run when its due day
  arrives. Monthly kinds take a -date like "15" or "15th"; yearly records
  take a -yearly-date like "25-12-2026".

Usage Examples:
$ bap add-tx -name Rent -amount 1200 -account 1 -date 1
$ bap add-tx -name Insurance -amount 320 -account 1 -kind yearly -yearly-date 14-06-2026

`
}

func (c *addTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Record name.")
	f.StringVar(&c.vendor, "vendor", "", "Vendor or company.")
	f.Float64Var(&c.amount, "amount", 0, "Amount to apply each period.")
	f.StringVar(&c.currency, "currency", "GBP", "Currency code.")
	f.StringVar(&c.kind, "kind", "scheduled", "Record kind (scheduled, yearly, creditCardCharge).")
	f.StringVar(&c.date, "date", "", "Due day of month for monthly kinds.")
	f.StringVar(&c.yearly, "yearly-date", "", "Due date (DD-MM-YYYY) for yearly records.")
	f.IntVar(&c.account, "account", 0, "Target account ID.")
	f.StringVar(&c.pot, "pot", "", "Target pot name on the account.")
	f.IntVar(&c.credit, "credit-account", 0, "Linked credit account ID.")
}

func (c *addTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.account == 0 {
		fmt.Fprintln(os.Stderr, "Error: -name and -account are required")
		return subcommands.ExitUsageError
	}
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	params := budget.NewTransactionParams{
		Name:       c.name,
		Vendor:     c.vendor,
		Amount:     budget.M(c.amount, c.currency),
		Kind:       budget.TransactionKind(c.kind),
		Date:       c.date,
		YearlyDate: c.yearly,
		AccountID:  c.account,
		PotName:    c.pot,
	}
	if c.credit != 0 {
		credit := c.credit
		params.CreditAccountID = &credit
	}
	tx, err := engine.AddTransaction(params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s record %d %q for %s\n", tx.Kind, tx.ID, tx.Name, tx.Amount)
	return subcommands.ExitSuccess
}
