package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	reconcile "github.com/izlotnik/questrade-reconcile"
)

type logCmd struct{}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "print the status log of the last run" }
func (*logCmd) Usage() string {
	return `qtr log [-workbook <dir>]

  Print the accumulated status log from the ` + reconcile.ConfigLog + ` cell.
`
}
func (*logCmd) SetFlags(f *flag.FlagSet) {}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	wb, err := openWorkbook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	cell, err := wb.CellAt(reconcile.ConfigLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cell.Text() == "" {
		fmt.Println("No run has been logged yet.")
		return subcommands.ExitSuccess
	}
	fmt.Println(cell.Text())
	return subcommands.ExitSuccess
}
