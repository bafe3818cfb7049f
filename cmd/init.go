package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	reconcile "github.com/izlotnik/questrade-reconcile"
	"github.com/izlotnik/questrade-reconcile/workbook"
)

type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new workbook directory" }
func (*initCmd) Usage() string {
	return `qtr init [-workbook <dir>]

  Create a workbook with the Summary configuration sheet and the six empty
  output tables. Paste your Questrade API refresh token into Summary:B2
  (edit Summary.jsonl or use a spreadsheet import) before reconciling.
`
}
func (*initCmd) SetFlags(f *flag.FlagSet) {}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(*workbookDir); err == nil {
		fmt.Fprintf(os.Stderr, "Error: workbook %q already exists\n", *workbookDir)
		return subcommands.ExitFailure
	}

	wb := workbook.New()
	label := func(ref, text string) {
		cell, err := wb.CellAt(ref)
		if err != nil {
			panic(err) // the references are constants
		}
		cell.SetText(text)
	}
	label("Summary:A2", "Questrade API refresh token (in "+reconcile.ConfigToken+"):")
	label("Summary:O40", "Reconcile status log (in "+reconcile.ConfigLog+"):")
	label("Summary:O47", "Extra equities, comma separated (in "+reconcile.ConfigEquities+"):")

	for _, name := range reconcile.TableNames {
		wb.Sheet(name)
	}

	if err := saveWorkbook(wb); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create workbook: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created workbook %q\n", *workbookDir)
	return subcommands.ExitSuccess
}
