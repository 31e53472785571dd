package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
)

type reduceCmd struct{}

func (*reduceCmd) Name() string     { return "reduce" }
func (*reduceCmd) Synopsis() string { return "apply the monthly linear balance reduction" }
func (*reduceCmd) Usage() string {
	return `bap reduce

  Walks every depletable account's balance linearly toward zero at month
  end, from the baseline captured at the first application of the month.
  Safe to run repeatedly (see ` + "`bap topic reduction`" + `).
`
}

func (c *reduceCmd) SetFlags(f *flag.FlagSet) {}

func (c *reduceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	applied, err := engine.ApplyMonthlyReduction(time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(applied) == 0 {
		fmt.Println("No depletable accounts.")
		return subcommands.ExitSuccess
	}
	var b strings.Builder
	b.WriteString("# Monthly reduction\n\n")
	b.WriteString("| Account | Baseline | New balance | Reduced |\n")
	b.WriteString("|---------|---------:|------------:|--------:|\n")
	for _, l := range applied {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", l.AccountName, l.Baseline, l.NewBalance, l.AmountReduced)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
