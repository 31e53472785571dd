package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type resetCmd struct{}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "zero balances for a fresh month" }
func (*resetCmd) Usage() string {
	return `bap reset

  Zeroes the balance of every account and pot not flagged as
  reset-excluded, clears completion on transfer schedules so they run
  again, and drops captured reduction baselines.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {}

func (c *resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := engine.ResetAllBalances(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Balances reset.")
	return subcommands.ExitSuccess
}
