package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/config"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	authService, _ := testutil.NewTestAuthService(t, db)
	provider := testutil.NewMockProviderClient(
		testutil.SchemeRecord(101, "Alpha Fund", "Alpha AMC"),
	)

	return api.NewRouter(api.Services{
		System:    testutil.NewTestSystemService(t, db),
		Fund:      testutil.NewTestFundService(t, db),
		Ingestion: testutil.NewTestIngestionService(t, db, provider),
		Portfolio: testutil.NewTestPortfolioService(t, db),
		Auth:      authService,
	}, &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}, logging.Discard())
}

func TestRouter_AccountAndPurchaseFlow(t *testing.T) {
	router := newTestRouter(t)

	do := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do(httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(httptest.NewRequest(http.MethodGet, "/api/v1/user-portfolio", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/register-user", map[string]string{
		"email": "flow@example.com", "username": "flow", "password1": "secret123", "password2": "secret123",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/login", map[string]string{
		"email": "flow@example.com", "password": "secret123",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	access := testutil.DecodeJSON(t, w)["access"].(string)

	w = do(testutil.WithBearer(httptest.NewRequest(http.MethodGet, "/api/v1/fetch-external-funds", nil), access))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(testutil.WithBearer(httptest.NewRequest(http.MethodGet, "/api/v1/list-fund-families", nil), access))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, testutil.DecodeJSON(t, w)["count"])

	w = do(testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/purchase-fund",
		`{"scheme_code": "101", "units": "4", "invested_amount": "60"}`), access))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(testutil.WithBearer(httptest.NewRequest(http.MethodGet, "/api/v1/user-portfolio", nil), access))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := testutil.DecodeJSON(t, w)["data"].([]any)
	require.Len(t, data, 1)
	assert.EqualValues(t, 62, data[0].(map[string]any)["current_value"])

	w = do(testutil.WithBearer(httptest.NewRequest(http.MethodPost, "/api/v1/logout-user", nil), access))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(testutil.WithBearer(httptest.NewRequest(http.MethodGet, "/api/v1/user-portfolio", nil), access))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is blacklisted. Please log in again.", testutil.DecodeJSON(t, w)["error"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
