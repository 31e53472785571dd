package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the full ledger document" }
func (*exportCmd) Usage() string {
	return `bap export [-o <file>]

  Writes the full ledger document as JSON to stdout, or to -o.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout by default.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	blob, err := engine.Export()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.output == "" {
		os.Stdout.Write(blob)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.output, blob, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Exported ledger to %s\n", c.output)
	return subcommands.ExitSuccess
}

type importCmd struct {
	input string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger with a document" }
func (*importCmd) Usage() string {
	return `bap import [-i <file>]

  Replaces the entire ledger with the JSON document read from -i, or from
  stdin. Legacy key names are accepted and normalized.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Input file, stdin by default.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var blob []byte
	var err error
	if c.input == "" {
		blob, err = io.ReadAll(os.Stdin)
	} else {
		blob, err = os.ReadFile(c.input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading document: %v\n", err)
		return subcommands.ExitFailure
	}
	engine, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := engine.Import(blob); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Ledger imported.")
	return subcommands.ExitSuccess
}
