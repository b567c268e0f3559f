// Package scheduler runs the periodic background jobs: fund ingestion and
// purging of expired blacklisted tokens.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
)

// Ingester runs one ingestion. Satisfied by *service.IngestionService.
type Ingester interface {
	Ingest(ctx context.Context) (model.IngestionResult, error)
}

// TokenPurger removes blacklist entries that have expired. Satisfied by *repository.TokenRepository.
type TokenPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler wraps a cron runner whose jobs share one cancellable context.
type Scheduler struct {
	cron   *cron.Cron
	log    logrus.FieldLogger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler. Jobs are skipped, not queued, while a previous run
// of the same job is still in progress.
func New(log logrus.FieldLogger) *Scheduler {
	log = log.WithField("component", "scheduler")
	cl := cronLogger{log: log}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddIngestion schedules ing on spec, a standard cron expression or a descriptor such as "@every 1h".
func (s *Scheduler) AddIngestion(spec string, ing Ingester) error {
	if _, err := s.cron.AddFunc(spec, func() { IngestionJob(s.ctx, ing, s.log) }); err != nil {
		return fmt.Errorf("invalid ingestion schedule %q: %w", spec, err)
	}
	s.log.WithField("schedule", spec).Info("fund ingestion scheduled")
	return nil
}

// AddTokenCleanup schedules purging of expired blacklist entries on spec.
func (s *Scheduler) AddTokenCleanup(spec string, p TokenPurger) error {
	if _, err := s.cron.AddFunc(spec, func() { TokenCleanupJob(s.ctx, p, s.log) }); err != nil {
		return fmt.Errorf("invalid token cleanup schedule %q: %w", spec, err)
	}
	s.log.WithField("schedule", spec).Info("token cleanup scheduled")
	return nil
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stopped before running jobs finished")
	}
}

// IngestionJob runs one ingestion and logs its summary.
func IngestionJob(ctx context.Context, ing Ingester, log logrus.FieldLogger) {
	start := time.Now()
	result, err := ing.Ingest(ctx)
	if err != nil {
		log.WithError(err).Error("scheduled fund ingestion failed")
		return
	}
	log.WithFields(logrus.Fields{
		"created":  len(result.Created),
		"failed":   len(result.Failed),
		"duration": time.Since(start).String(),
	}).Info("scheduled fund ingestion completed")
}

// TokenCleanupJob purges blacklist entries whose tokens have expired.
func TokenCleanupJob(ctx context.Context, p TokenPurger, log logrus.FieldLogger) {
	removed, err := p.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.WithError(err).Error("token cleanup failed")
		return
	}
	if removed > 0 {
		log.WithField("removed", removed).Info("expired blacklisted tokens purged")
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(keysAndValues []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
