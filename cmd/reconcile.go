package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	reconcile "github.com/izlotnik/questrade-reconcile"
	"github.com/izlotnik/questrade-reconcile/dividendhistory"
	"github.com/izlotnik/questrade-reconcile/questrade"
	"github.com/izlotnik/questrade-reconcile/workbook"
)

// reconcileCmd is the run harness: it brackets the reconciler with the
// status log reset and the load/save of the workbook, so the on-disk
// document is updated in one step even though the in-memory writes are
// incremental.
type reconcileCmd struct {
	cachePath string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "rebuild the output tables from live account state" }
func (*reconcileCmd) Usage() string {
	return `qtr reconcile [-workbook <dir>] [-session-cache <file>]

  Fetch accounts, balances, positions, equities, 30-day activity and
  dividend history from the Questrade API and rebuild the output tables.
  Existing table contents are replaced. The refresh token is read from the
  ` + reconcile.ConfigToken + ` cell; the run log accumulates in ` + reconcile.ConfigLog + `.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cachePath, "session-cache", questrade.DefaultCachePath(), "Path to the cached API session file")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	runLog.Reset("Reconciling from Questrade started!")

	tokenCell, err := wb.CellAt(reconcile.ConfigToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	session, err := questrade.Connect(c.cachePath, tokenCell.Text())
	if err != nil {
		// The one fatal error: no table is touched.
		runLog.Printf("Failed to authenticate Questrade API using cached session or the refresh token in cell %s: %v", reconcile.ConfigToken, err)
		c.finish(wb, runLog)
		return subcommands.ExitFailure
	}

	r := &reconcile.Reconciler{
		Session:   session,
		Dividends: dividendhistory.Source{},
		Workbook:  wb,
		Log:       runLog,
	}
	r.Run()

	runLog.Printf("Reconciling from Questrade completed!")
	c.finish(wb, runLog)
	return subcommands.ExitSuccess
}

// finish saves the workbook and shows the user the full run log, failures
// included.
func (c *reconcileCmd) finish(wb *workbook.Workbook, runLog *reconcile.RunLog) {
	if err := saveWorkbook(wb); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot save workbook: %v\n", err)
	}
	printMarkdown("# QuestradeReconcile\n\n```\n" + runLog.String() + "\n```\n")
}
