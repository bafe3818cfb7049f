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
	"google.golang.org/genai"
)

// assistCmd answers a one-shot question about the reconciled workbook,
// feeding the rendered tables and the last run log to the model as context.
type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask a question about the reconciled data" }
func (*assistCmd) Usage() string {
	return `qtr assist <question>

  Ask a question about the reconciled tables, e.g.:
    qtr assist which positions have an unrealized loss?

  Requires Gemini API credentials in the environment (GEMINI_API_KEY).
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "gemini-2.5-flash", "Model to answer with")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a question is required.")
		return subcommands.ExitUsageError
	}
	question := strings.Join(f.Args(), " ")

	wb, err := openWorkbook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var prompt strings.Builder
	prompt.WriteString("You are a brokerage account analyst. Answer the question using only the reconciled tables below.\n\n")
	for _, name := range reconcile.TableNames {
		if sheet, ok := wb.Lookup(name); ok {
			prompt.WriteString(renderer.SheetMarkdown(sheet))
			prompt.WriteString("\n")
		}
	}
	if cell, err := wb.CellAt(reconcile.ConfigLog); err == nil && cell.Text() != "" {
		prompt.WriteString("Last run log:\n```\n" + cell.Text() + "\n```\n")
	}
	prompt.WriteString("\nQuestion: " + question + "\n")

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.String()), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(resp.Text())
	return subcommands.ExitSuccess
}
