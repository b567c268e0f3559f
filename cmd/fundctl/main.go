// Command fundctl runs maintenance tasks against the fund tracker database.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&migrateCmd{}, "")
	commander.Register(&ingestCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
