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

type processCmd struct{}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "apply due recurring transactions" }
func (*processCmd) Usage() string {
	return `bap process

  Applies every recurring transaction whose due day has arrived, at most
  once per calendar month. The run is blocked while transfer schedules are
  still pending for the month (see ` + "`bap topic scheduling`" + `).
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {}

func (c *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	result, err := engine.ProcessScheduledTransactions(time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if result.BlockedReason != "" {
		fmt.Fprintf(os.Stderr, "Blocked: %s\n", result.BlockedReason)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	b.WriteString("# Processing run\n\n")
	if len(result.Processed) == 0 {
		b.WriteString("Nothing due.\n")
	} else {
		b.WriteString("| ID | Name | Amount |\n")
		b.WriteString("|---:|------|-------:|\n")
		for _, tx := range result.Processed {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", tx.ID, tx.Name, tx.Amount)
		}
	}
	for _, sk := range result.Skipped {
		fmt.Fprintf(&b, "\nSkipped %d %s: %s\n", sk.ID, sk.Name, sk.Reason)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
