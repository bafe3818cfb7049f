package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	reconcile "github.com/izlotnik/questrade-reconcile"
	"github.com/izlotnik/questrade-reconcile/renderer"
)

type showCmd struct {
	table string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "render an output table in the terminal" }
func (*showCmd) Usage() string {
	return `qtr show [-t <table>]

  Render one output table (default all of them) as a table in the terminal.
  Tables: ` + strings.Join(reconcile.TableNames, ", ") + `.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.table, "t", "", "Table to show; empty shows all tables")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	wb, err := openWorkbook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	names := reconcile.TableNames
	if c.table != "" {
		names = []string{c.table}
	}

	var b strings.Builder
	for _, name := range names {
		sheet, ok := wb.Lookup(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no table %q in workbook\n", name)
			return subcommands.ExitUsageError
		}
		b.WriteString(renderer.SheetMarkdown(sheet))
		b.WriteString("\n")
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
