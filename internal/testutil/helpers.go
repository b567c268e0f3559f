package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/rapidapi"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/service"
)

// TestJWTSecret signs access tokens in tests.
const TestJWTSecret = "test-jwt-secret"

func NewTestIngestionService(t *testing.T, db *sql.DB, client rapidapi.Client) *service.IngestionService {
	t.Helper()

	svc := service.NewIngestionService(
		db,
		repository.NewFundRepository(db),
		client,
		logging.Discard(),
	)
	t.Cleanup(svc.Close)
	return svc
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewFundRepository(db),
		logging.Discard(),
	)
}

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()
	return service.NewFundService(repository.NewFundRepository(db))
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// NewTestTokenManager returns a TokenManager with short access tokens signed by TestJWTSecret.
func NewTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()

	m, err := auth.NewTokenManager(TestJWTSecret, "", 5*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token manager: %v", err)
	}
	return m
}

// NewTestAuthService wires an AuthService with the SQL token blacklist.
func NewTestAuthService(t *testing.T, db *sql.DB) (*service.AuthService, *auth.TokenManager) {
	t.Helper()

	tokens := NewTestTokenManager(t)
	return service.NewAuthService(
		repository.NewUserRepository(db),
		tokens,
		repository.NewTokenRepository(db),
		logging.Discard(),
	), tokens
}

// AccessTokenFor issues a valid access token for the user.
func AccessTokenFor(t *testing.T, tokens *auth.TokenManager, userID string) string {
	t.Helper()

	token, _, err := tokens.IssueAccessToken(userID)
	if err != nil {
		t.Fatalf("Failed to issue access token: %v", err)
	}
	return token
}

// MakeID generates a new UUID string.
func MakeID() string {
	return uuid.New().String()
}

var schemeCodeSeq atomic.Int64

func init() {
	schemeCodeSeq.Store(100000)
}

// MakeSchemeCode returns a scheme code not used before in this test binary.
func MakeSchemeCode() int64 {
	return schemeCodeSeq.Add(1)
}

// MakeSchemeName generates a unique scheme name with the given base.
func MakeSchemeName(base string) string {
	return fmt.Sprintf("%s %s", base, randomAlphanumeric(6))
}

// MakeFamilyName generates a unique fund family name with the given base.
func MakeFamilyName(base string) string {
	return fmt.Sprintf("%s %s", base, randomAlphanumeric(6))
}

// MakeEmail generates a unique email address for the given local part.
func MakeEmail(local string) string {
	return fmt.Sprintf("%s.%s@example.com", local, randomAlphanumeric(8))
}

func randomAlphanumeric(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		//nolint:gosec // G404: Test data generation doesn't require cryptographic randomness
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
