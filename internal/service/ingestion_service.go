package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/rapidapi"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/validation"
)

const ingestionKey = "ingest"

// IngestionService pulls scheme data from the NAV provider and stores new schemes.
//
// Concurrent calls to Ingest (for example the scheduler firing while a user
// triggers a fetch) share a single run and all receive its result. A run is bound
// to the service's lifetime rather than to any one caller; Close cancels it.
type IngestionService struct {
	db       *sql.DB
	fundRepo *repository.FundRepository
	client   rapidapi.Client
	log      logrus.FieldLogger
	group    singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	client rapidapi.Client,
	log logrus.FieldLogger,
) *IngestionService {
	ctx, cancel := context.WithCancel(context.Background())
	return &IngestionService{
		db:       db,
		fundRepo: fundRepo,
		client:   client,
		log:      log.WithField("component", "ingestion"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close cancels any run in progress and makes later calls to Ingest fail.
func (s *IngestionService) Close() {
	s.cancel()
}

// Ingest fetches all open-ended schemes and stores each one that is new and valid.
//
// Every open-ended record ends up either in Created (by scheme name) or in Failed
// together with its field errors; one bad record never stops the others. Each
// record is committed on its own, so records stored before a crash stay stored.
//
// A scheme code that is already stored is reported as failed, not updated.
//
// Returns:
//   - IngestionResult: the partition of the provider's open-ended records
//   - error: wraps apperrors.ErrExternalService when the provider could not be
//     queried; nothing is stored in that case. ctx.Err() when the caller gives up
//     before the run ends, and context.Canceled once the service is closed.
//
// A caller that gives up stops waiting but leaves the run going for the others.
func (s *IngestionService) Ingest(ctx context.Context) (model.IngestionResult, error) {
	if err := s.ctx.Err(); err != nil {
		return model.IngestionResult{}, fmt.Errorf("ingestion service closed: %w", err)
	}

	ch := s.group.DoChan(ingestionKey, func() (any, error) {
		return s.run(s.ctx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.log.Debug("shared an ingestion run with another caller")
		}
		if res.Err != nil {
			return model.IngestionResult{}, res.Err
		}
		return res.Val.(model.IngestionResult), nil
	case <-ctx.Done():
		s.log.WithError(ctx.Err()).Warn("stopped waiting for ingestion run")
		return model.IngestionResult{}, ctx.Err()
	}
}

func (s *IngestionService) run(ctx context.Context) (model.IngestionResult, error) {
	records, err := s.client.FetchSchemes(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to fetch schemes from provider")
		return model.IngestionResult{}, err
	}

	result := model.IngestionResult{
		Created: []string{},
		Failed:  []model.FailedFund{},
	}

	skipped := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			s.log.WithError(err).WithField("created", len(result.Created)).Warn("ingestion cancelled")
			return model.IngestionResult{}, err
		}
		if !rec.IsOpenEnded() {
			skipped++
			continue
		}

		name := rec.SchemeName()
		if err := s.saveScheme(ctx, rec); err != nil {
			fields := failureFields(err)
			s.log.WithFields(logrus.Fields{
				"scheme_name": name,
				"errors":      fields,
			}).Warn("scheme rejected")
			result.Failed = append(result.Failed, model.FailedFund{SchemeName: name, Errors: fields})
			continue
		}
		result.Created = append(result.Created, name)
	}

	s.log.WithFields(logrus.Fields{
		"received": len(records),
		"skipped":  skipped,
		"created":  len(result.Created),
		"failed":   len(result.Failed),
	}).Info("ingestion finished")

	return result, nil
}

// saveScheme validates one record and stores it with its family in a single transaction.
func (s *IngestionService) saveScheme(ctx context.Context, rec rapidapi.Record) error {
	scheme, err := validation.ValidateSchemeRecord(rec)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	repo := s.fundRepo.WithTx(tx)

	exists, err := repo.SchemeCodeExists(ctx, scheme.Fund.SchemeCode)
	if err != nil {
		return err
	}
	if exists {
		return validation.NewFieldError("scheme_code", validation.SchemeCodeExistsMessage)
	}

	family, err := repo.GetOrCreateFundFamily(ctx, scheme.FamilyName)
	if err != nil {
		return err
	}
	scheme.Fund.FundFamilyID = family.ID

	if err := repo.InsertMutualFund(ctx, &scheme.Fund); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			return validation.NewFieldError("scheme_code", validation.SchemeCodeExistsMessage)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scheme: %w", err)
	}
	return nil
}

func failureFields(err error) map[string]string {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return map[string]string{validation.NonFieldErrors: err.Error()}
}
