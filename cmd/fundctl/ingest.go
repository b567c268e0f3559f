package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/config"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/database"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/rapidapi"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/service"
)

type ingestCmd struct {
	dbPath string
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "fetch open-ended schemes once and store the new ones" }
func (*ingestCmd) Usage() string {
	return `ingest [-db <path>]

  Runs a single ingestion against the NAV provider configured through
  RAPID_API_URL, RAPIDAPI_KEY and RAPIDAPI_HOST, and prints the created and
  failed schemes as JSON. Exits with 1 when the provider cannot be queried.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "SQLite database path (defaults to DB_PATH)")
}

func (c *ingestCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.dbPath == "" {
		c.dbPath = cfg.Database.Path
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
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

	svc := service.NewIngestionService(db, repository.NewFundRepository(db), rapidapi.NewNAVClient(rapidapi.Config{
		URL:     cfg.Provider.URL,
		APIKey:  cfg.Provider.APIKey,
		APIHost: cfg.Provider.APIHost,
		Timeout: cfg.Provider.Timeout,
	}), logger)
	defer svc.Close()

	if err := runIngest(ctx, svc, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// ingester is the part of service.IngestionService the command needs.
type ingester interface {
	Ingest(ctx context.Context) (model.IngestionResult, error)
}

// runIngest performs one ingestion and writes its summary to out.
func runIngest(ctx context.Context, svc ingester, out io.Writer) error {
	result, err := svc.Ingest(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
