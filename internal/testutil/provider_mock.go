package testutil

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/rapidapi"
)

// MockProviderClient is a mock implementation of rapidapi.Client for testing.
// It returns predefined records instead of calling the provider.
type MockProviderClient struct {
	// Records is the payload returned by FetchSchemes
	Records []rapidapi.Record
	// Err is returned instead of Records when set
	Err error
	// Block, when set, is waited on before returning, to hold a run open
	Block chan struct{}

	calls atomic.Int64
}

// NewMockProviderClient creates a mock that returns the given records.
func NewMockProviderClient(records ...rapidapi.Record) *MockProviderClient {
	return &MockProviderClient{Records: records}
}

// WithError configures the mock to return the specified error.
func (m *MockProviderClient) WithError(err error) *MockProviderClient {
	m.Err = err
	return m
}

// FetchSchemes returns the configured records or error.
func (m *MockProviderClient) FetchSchemes(ctx context.Context) ([]rapidapi.Record, error) {
	m.calls.Add(1)
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records, nil
}

// Calls returns how many times FetchSchemes was invoked.
func (m *MockProviderClient) Calls() int {
	return int(m.calls.Load())
}

// SchemeRecord builds a valid open-ended provider record.
func SchemeRecord(code int64, name, family string) rapidapi.Record {
	return rapidapi.Record{
		rapidapi.FieldSchemeCode:     json.Number(strconv.FormatInt(code, 10)),
		rapidapi.FieldSchemeName:     name,
		rapidapi.FieldNetAssetValue:  "15.5",
		rapidapi.FieldDate:           "01-Jan-2024",
		rapidapi.FieldSchemeCategory: "Equity",
		rapidapi.FieldSchemeType:     rapidapi.OpenEndedSchemes,
		rapidapi.FieldFundFamily:     family,
	}
}
