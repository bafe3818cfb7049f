// Package cmd implements the qtr CLI application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/izlotnik/questrade-reconcile/workbook"
)

// Register registers all subcommands. A main package calls Register() and
// then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "workbook")
	c.Register(&showCmd{}, "workbook")
	c.Register(&logCmd{}, "workbook")

	c.Register(&reconcileCmd{}, "reconcile")
	c.Register(&highlightsCmd{}, "reconcile")

	c.Register(&assistCmd{}, "assist")
	c.Register(&topicCmd{}, "help")
}

// CommandNames lists the subcommand names, for shell completion.
var CommandNames = []string{
	"init", "show", "log", "reconcile", "highlights", "assist", "topic",
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var workbookDir = flag.String("workbook", "workbook", "Path to the workbook directory")

// openWorkbook loads the workbook directory shared by all subcommands.
func openWorkbook() (*workbook.Workbook, error) {
	wb, err := workbook.Open(*workbookDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("workbook %q does not exist, run 'qtr init' first", *workbookDir)
	}
	return wb, err
}

// saveWorkbook writes the workbook back to its directory.
func saveWorkbook(wb *workbook.Workbook) error {
	return wb.Save(*workbookDir)
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the terminal renderer fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
