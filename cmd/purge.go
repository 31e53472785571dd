package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
)

type purgeCmd struct {
	from string
	to   string
}

func (*purgeCmd) Name() string     { return "purge" }
func (*purgeCmd) Synopsis() string { return "remove recorded executions in a time window" }
func (*purgeCmd) Usage() string {
	return `bap purge -from <date> [-to <date>]

  Removes execution events and audit rows recorded in the inclusive date
  window. Balances are untouched. Dates are YYYY-MM-DD; -to defaults to
  the end of the -from day.

Usage Examples:
$ bap purge -from 2026-08-01 -to 2026-08-31

`
}

func (c *purgeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Window start (YYYY-MM-DD).")
	f.StringVar(&c.to, "to", "", "Window end (YYYY-MM-DD), defaults to the start day.")
}

func (c *purgeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" {
		fmt.Fprintln(os.Stderr, "Error: -from is required")
		return subcommands.ExitUsageError
	}
	from, err := time.ParseInLocation("2006-01-02", c.from, time.Local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	to := from
	if c.to != "" {
		if to, err = time.ParseInLocation("2006-01-02", c.to, time.Local); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	// window is inclusive of the whole end day
	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)

	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	removed, err := engine.PurgeExecutions(from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %d execution(s)\n", removed)
	return subcommands.ExitSuccess
}
