package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

// Client fetches scheme records from the NAV provider.
type Client interface {
	FetchSchemes(ctx context.Context) ([]Record, error)
}

// DefaultMaxResponseBytes bounds the provider payload. The full open-ended
// scheme list is a few megabytes.
const DefaultMaxResponseBytes int64 = 64 << 20

// Config holds the endpoint and RapidAPI credentials.
type Config struct {
	URL     string
	APIKey  string
	APIHost string
	Timeout time.Duration
	// MaxResponseBytes caps the body read from the provider; zero means DefaultMaxResponseBytes.
	MaxResponseBytes int64
}

// NAVClient talks to the RapidAPI "latest mutual fund NAV" endpoint.
type NAVClient struct {
	httpClient *http.Client
	cfg        Config
}

// NewNAVClient creates a client for the given endpoint.
// A zero Timeout leaves the request bound only by the caller's context.
func NewNAVClient(cfg Config) *NAVClient {
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	return &NAVClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// FetchSchemes requests all open-ended schemes.
//
// The provider filter is sent as Scheme_Type=Open, but callers must still check
// Record.IsOpenEnded since the provider does not always honour it.
//
// Returns:
//   - []Record: provider records in the order received
//   - error: wraps apperrors.ErrExternalService on transport failure, a non-200
//     status, a body larger than MaxResponseBytes or one that is not a JSON array
func (c *NAVClient) FetchSchemes(ctx context.Context) ([]Record, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid provider url: %w", apperrors.ErrExternalService, err)
	}
	q := u.Query()
	q.Set("Scheme_Type", "Open")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrExternalService, err)
	}
	req.Header.Set("x-rapidapi-key", c.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", c.cfg.APIHost)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to fetch schemes, provider returned %d", apperrors.ErrExternalService, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", apperrors.ErrExternalService, err)
	}
	if int64(len(data)) > c.cfg.MaxResponseBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", apperrors.ErrExternalService, c.cfg.MaxResponseBytes)
	}

	return decodeRecords(data)
}

func decodeRecords(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: unexpected response body: %w", apperrors.ErrExternalService, err)
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		rec := Record{}
		itemDec := json.NewDecoder(bytes.NewReader(item))
		itemDec.UseNumber()
		// Non-object entries become empty records, which the open-ended filter drops.
		if err := itemDec.Decode(&rec); err != nil {
			rec = Record{}
		}
		records = append(records, rec)
	}
	return records, nil
}
