package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/testutil"
)

func TestRunIngest(t *testing.T) {
	t.Run("prints the summary as JSON", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestIngestionService(t, db, testutil.NewMockProviderClient(
			testutil.SchemeRecord(111, "Alpha Fund", "Alpha AMC"),
		))

		var out bytes.Buffer
		require.NoError(t, runIngest(context.Background(), svc, &out))

		var summary map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
		assert.Equal(t, []any{"Alpha Fund"}, summary["created_funds"])
		assert.Equal(t, []any{}, summary["failed_funds"])
	})

	t.Run("returns provider errors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient().
			WithError(fmt.Errorf("%w: provider returned 401", apperrors.ErrExternalService))
		svc := testutil.NewTestIngestionService(t, db, provider)

		var out bytes.Buffer
		err := runIngest(context.Background(), svc, &out)
		assert.ErrorIs(t, err, apperrors.ErrExternalService)
		assert.Zero(t, out.Len())
	})
}
