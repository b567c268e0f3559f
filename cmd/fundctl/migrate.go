package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/config"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/database"
)

type migrateCmd struct {
	dbPath string
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending schema migrations" }
func (*migrateCmd) Usage() string {
	return `migrate [-db <path>]

  Applies every pending migration to the database. The path defaults to DB_PATH.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "SQLite database path (defaults to DB_PATH)")
}

func (c *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.dbPath == "" {
		c.dbPath = cfg.Database.Path
	}

	db, err := database.Open(c.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	v, err := database.SchemaVersion(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading schema version: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("database %s is at schema version %d\n", c.dbPath, v)
	return subcommands.ExitSuccess
}
