package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/izlotnik/questrade-reconcile/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: subcommand names plus the shared workbook flag.
	sub := make(map[string]*complete.Command)
	for _, name := range cmd.CommandNames {
		sub[name] = &complete.Command{}
	}
	completer := &complete.Command{
		Sub:   sub,
		Flags: map[string]complete.Predictor{"workbook": predict.Dirs("*")},
	}
	completer.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
