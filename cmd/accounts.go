package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their pots" }
func (*accountsCmd) Usage() string {
	return `bap accounts

  Lists every account with its balance, followed by its pots.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	accounts := engine.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No accounts yet. Create one with `bap add-account`.")
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	b.WriteString("# Accounts\n\n")
	b.WriteString("| ID | Name | Type | Balance |\n")
	b.WriteString("|---:|------|------|--------:|\n")
	for _, acc := range accounts {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", acc.ID, acc.Name, acc.Type, acc.Balance)
	}
	for _, acc := range accounts {
		if len(acc.Pots) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s pots\n\n", acc.Name)
		b.WriteString("| ID | Name | Balance |\n")
		b.WriteString("|---:|------|--------:|\n")
		for _, p := range acc.Pots {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", p.ID, p.Name, p.Balance)
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
