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

// highlightsCmd is a diagnostic aid, independent from the reconcile run: it
// inspects the highlight formatting left on the Dividends table and logs
// what it finds.
type highlightsCmd struct{}

func (*highlightsCmd) Name() string     { return "highlights" }
func (*highlightsCmd) Synopsis() string { return "inspect highlight formatting on the Dividends table" }
func (*highlightsCmd) Usage() string {
	return `qtr highlights [-workbook <dir>]

  List every highlighted cell of the Dividends table with its color. The
  result is also written to the status log cell.
`
}
func (*highlightsCmd) SetFlags(f *flag.FlagSet) {}

func (c *highlightsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	wb, err := openWorkbook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	logCell, err := wb.CellAt(reconcile.ConfigLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	runLog := reconcile.NewRunLog(logCell)
	runLog.Reset("Inspecting Dividends highlights!")

	sheet, ok := wb.Lookup(reconcile.DividendsTable)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no %s table in workbook\n", reconcile.DividendsTable)
		return subcommands.ExitFailure
	}

	cols, rows := sheet.Dims()
	found := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell, ok := sheet.Lookup(col, row)
			if !ok || cell.Background() == 0 {
				continue
			}
			runLog.Printf("::Highlights: cell=%s color=#%06x format=%q",
				workbook.FormatRef(col, row), uint32(cell.Background()), cell.Format())
			found++
		}
	}
	runLog.Printf("::Highlights: %d highlighted cells", found)

	if err := saveWorkbook(wb); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot save workbook: %v\n", err)
	}
	printMarkdown("# QuestradeReconcile\n\n```\n" + runLog.String() + "\n```\n")
	return subcommands.ExitSuccess
}
