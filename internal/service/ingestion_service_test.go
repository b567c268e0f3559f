package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/rapidapi"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/testutil"
)

func TestIngestionService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid record and its fund family", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockProviderClient(rapidapi.Record{
			rapidapi.FieldSchemeCode:     101,
			rapidapi.FieldSchemeName:     "Alpha Fund",
			rapidapi.FieldNetAssetValue:  "15.5",
			rapidapi.FieldDate:           "01-Jan-2024",
			rapidapi.FieldSchemeCategory: "Equity",
			rapidapi.FieldSchemeType:     "Open Ended Schemes",
			rapidapi.FieldFundFamily:     "Alpha AMC",
		})
		svc := testutil.NewTestIngestionService(t, db, mock)

		result, err := svc.Ingest(ctx)
		require.NoError(t, err)

		assert.Equal(t, []string{"Alpha Fund"}, result.Created)
		assert.Empty(t, result.Failed)

		repo := repository.NewFundRepository(db)
		family, err := repo.GetFundFamilyByName(ctx, "Alpha AMC")
		require.NoError(t, err)

		fund, err := repo.GetMutualFundBySchemeCode(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, "Alpha Fund", fund.SchemeName)
		assert.Equal(t, 15.5, fund.Nav)
		assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(fund.NavDate))
		assert.Equal(t, family.ID, fund.FundFamilyID)
	})

	t.Run("partitions valid and invalid records", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		badDate := testutil.SchemeRecord(202, "Bad Date Fund", "Beta AMC")
		badDate[rapidapi.FieldDate] = "2024-01-01"
		badNav := testutil.SchemeRecord(203, "Bad NAV Fund", "Beta AMC")
		badNav[rapidapi.FieldNetAssetValue] = "N.A."
		closed := testutil.SchemeRecord(204, "Closed Fund", "Beta AMC")
		closed[rapidapi.FieldSchemeType] = "Close Ended Schemes"

		mock := testutil.NewMockProviderClient(
			testutil.SchemeRecord(201, "Good One", "Beta AMC"),
			badDate,
			testutil.SchemeRecord(205, "Good Two", "Gamma AMC"),
			badNav,
			closed,
			testutil.SchemeRecord(206, "Good Three", "Beta AMC"),
		)
		svc := testutil.NewTestIngestionService(t, db, mock)

		result, err := svc.Ingest(ctx)
		require.NoError(t, err)

		assert.Equal(t, []string{"Good One", "Good Two", "Good Three"}, result.Created)
		require.Len(t, result.Failed, 2)
		assert.Equal(t, model.FailedFund{
			SchemeName: "Bad Date Fund",
			Errors:     map[string]string{"nav_date": "Date has wrong format. Use DD-Mon-YYYY."},
		}, result.Failed[0])
		assert.Equal(t, "Bad NAV Fund", result.Failed[1].SchemeName)
		assert.Contains(t, result.Failed[1].Errors, "nav")
		assert.Equal(t, 5, result.Total())

		assert.Equal(t, 3, testutil.CountRows(t, db, "mutual_fund"))
		assert.Equal(t, 2, testutil.CountRows(t, db, "fund_family"))
	})

	t.Run("re-ingesting stored schemes reports them as failed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockProviderClient(
			testutil.SchemeRecord(301, "Delta Fund", "Delta AMC"),
			testutil.SchemeRecord(302, "Delta Plus", "Delta AMC"),
		)
		svc := testutil.NewTestIngestionService(t, db, mock)

		first, err := svc.Ingest(ctx)
		require.NoError(t, err)
		require.Len(t, first.Created, 2)

		second, err := svc.Ingest(ctx)
		require.NoError(t, err)
		assert.Empty(t, second.Created)
		require.Len(t, second.Failed, 2)
		for _, f := range second.Failed {
			assert.Equal(t, "mutual fund with this scheme code already exists.", f.Errors["scheme_code"])
		}

		assert.Equal(t, 2, testutil.CountRows(t, db, "mutual_fund"))
		assert.Equal(t, 1, testutil.CountRows(t, db, "fund_family"))
	})

	t.Run("does not overwrite the NAV of a stored scheme", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		rec := testutil.SchemeRecord(401, "Epsilon Fund", "Epsilon AMC")
		mock := testutil.NewMockProviderClient(rec)
		svc := testutil.NewTestIngestionService(t, db, mock)

		_, err := svc.Ingest(ctx)
		require.NoError(t, err)

		rec[rapidapi.FieldNetAssetValue] = "99.9"
		_, err = svc.Ingest(ctx)
		require.NoError(t, err)

		fund, err := repository.NewFundRepository(db).GetMutualFundBySchemeCode(ctx, 401)
		require.NoError(t, err)
		assert.Equal(t, 15.5, fund.Nav)
	})

	t.Run("a duplicate inside one batch fails only the second copy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockProviderClient(
			testutil.SchemeRecord(501, "Zeta Fund", "Zeta AMC"),
			testutil.SchemeRecord(501, "Zeta Fund Copy", "Zeta AMC"),
		)
		svc := testutil.NewTestIngestionService(t, db, mock)

		result, err := svc.Ingest(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Zeta Fund"}, result.Created)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "Zeta Fund Copy", result.Failed[0].SchemeName)
	})

	t.Run("a rejected record does not leave a new family behind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateMutualFund(t, db, 601, 10)
		mock := testutil.NewMockProviderClient(testutil.SchemeRecord(601, "Eta Fund", "Eta AMC"))
		svc := testutil.NewTestIngestionService(t, db, mock)

		result, err := svc.Ingest(ctx)
		require.NoError(t, err)
		require.Len(t, result.Failed, 1)

		_, err = repository.NewFundRepository(db).GetFundFamilyByName(ctx, "Eta AMC")
		assert.ErrorIs(t, err, apperrors.ErrFundFamilyNotFound)
	})

	t.Run("provider failure aborts the run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		providerErr := fmt.Errorf("%w: provider returned 503", apperrors.ErrExternalService)
		mock := testutil.NewMockProviderClient().WithError(providerErr)
		svc := testutil.NewTestIngestionService(t, db, mock)

		_, err := svc.Ingest(ctx)
		assert.ErrorIs(t, err, apperrors.ErrExternalService)
		assert.Equal(t, 0, testutil.CountRows(t, db, "mutual_fund"))
	})

	t.Run("empty provider payload is a successful empty run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestIngestionService(t, db, testutil.NewMockProviderClient())

		result, err := svc.Ingest(ctx)
		require.NoError(t, err)
		assert.NotNil(t, result.Created)
		assert.NotNil(t, result.Failed)
		assert.Equal(t, 0, result.Total())
	})

	t.Run("concurrent triggers share one run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockProviderClient(testutil.SchemeRecord(701, "Theta Fund", "Theta AMC"))
		mock.Block = make(chan struct{})
		svc := testutil.NewTestIngestionService(t, db, mock)

		var wg sync.WaitGroup
		results := make([]model.IngestionResult, 2)
		errs := make([]error, 2)

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[0], errs[0] = svc.Ingest(ctx)
		}()
		require.Eventually(t, func() bool { return mock.Calls() == 1 }, 2*time.Second, 5*time.Millisecond)

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[1], errs[1] = svc.Ingest(ctx)
		}()
		time.Sleep(50 * time.Millisecond)
		close(mock.Block)
		wg.Wait()

		require.NoError(t, errors.Join(errs...))
		assert.Equal(t, 1, mock.Calls())
		assert.Equal(t, []string{"Theta Fund"}, results[0].Created)
		assert.Equal(t, results[0], results[1])
		assert.Equal(t, 1, testutil.CountRows(t, db, "mutual_fund"))
	})
}

func TestIngestionService_Cancellation(t *testing.T) {
	t.Run("caller that gives up returns without waiting for the run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		code := testutil.MakeSchemeCode()
		mock := testutil.NewMockProviderClient(testutil.SchemeRecord(code, "Iota Fund", "Iota AMC"))
		mock.Block = make(chan struct{})
		svc := testutil.NewTestIngestionService(t, db, mock)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			_, err := svc.Ingest(ctx)
			done <- err
		}()
		require.Eventually(t, func() bool { return mock.Calls() == 1 }, 2*time.Second, 5*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("Ingest did not return after its context was cancelled")
		}

		// the run itself goes on and stores the record
		close(mock.Block)
		repo := repository.NewFundRepository(db)
		assert.Eventually(t, func() bool {
			exists, err := repo.SchemeCodeExists(context.Background(), code)
			return err == nil && exists
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, 1, mock.Calls())
	})

	t.Run("close cancels the run in progress", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockProviderClient(testutil.SchemeRecord(testutil.MakeSchemeCode(), "Kappa Fund", "Kappa AMC"))
		mock.Block = make(chan struct{})
		defer close(mock.Block)
		svc := testutil.NewTestIngestionService(t, db, mock)

		done := make(chan error, 1)
		go func() {
			_, err := svc.Ingest(context.Background())
			done <- err
		}()
		require.Eventually(t, func() bool { return mock.Calls() == 1 }, 2*time.Second, 5*time.Millisecond)

		svc.Close()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("Ingest did not return after Close")
		}
		assert.Equal(t, 0, testutil.CountRows(t, db, "mutual_fund"))

		_, err := svc.Ingest(context.Background())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, mock.Calls())
	})
}
