package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/handlers"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/testutil"
)

func TestAuthHandler_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := testutil.NewTestAuthService(t, db)
	handler := handlers.NewAuthHandler(svc)

	register := func(body any) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.Register(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/register-user", body))
		return w
	}

	t.Run("returns 201 for a valid registration", func(t *testing.T) {
		w := register(map[string]string{
			"email":     "jane@example.com",
			"username":  "jane",
			"password1": "secret123",
			"password2": "secret123",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		body := testutil.DecodeJSON(t, w)
		assert.Equal(t, "User registered successfully", body["message"])
		assert.Equal(t, map[string]any{"email": "jane@example.com", "username": "jane"}, body["user"])
	})

	tests := []struct {
		name      string
		body      map[string]string
		wantError string
	}{
		{
			name:      "duplicate email",
			body:      map[string]string{"email": "jane@example.com", "password1": "secret123", "password2": "secret123"},
			wantError: "email already exists",
		},
		{
			name:      "mismatched passwords",
			body:      map[string]string{"email": "a@example.com", "password1": "secret123", "password2": "secret321"},
			wantError: "Passwords do not match.",
		},
		{
			name:      "invalid email",
			body:      map[string]string{"email": "not-an-email", "password1": "secret123", "password2": "secret123"},
			wantError: "Invalid email format.",
		},
		{
			name:      "password without digits",
			body:      map[string]string{"email": "b@example.com", "password1": "secretpw", "password2": "secretpw"},
			wantError: "Password must contain both letters and numbers.",
		},
		{
			name:      "missing passwords",
			body:      map[string]string{"email": "c@example.com"},
			wantError: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			w := register(tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := testutil.DecodeJSON(t, w)
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestAuthHandler_LoginRefreshLogout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := testutil.NewTestAuthService(t, db)
	handler := handlers.NewAuthHandler(svc)
	user := testutil.CreateUser(t, db)

	t.Run("login rejects a wrong password with 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Login(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/login",
			map[string]string{"email": user.Email, "password": "wrong123"}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w := httptest.NewRecorder()
	handler.Login(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/login",
		map[string]string{"email": user.Email, "password": testutil.TestPassword}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tokens := testutil.DecodeJSON(t, w)
	access := tokens["access"].(string)
	refresh := tokens["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	t.Run("refresh returns a new access token", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Refresh(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/refresh-token",
			map[string]string{"refresh": refresh}))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotEmpty(t, testutil.DecodeJSON(t, w)["access"])
	})

	t.Run("refresh rejects a tampered token with 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Refresh(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/refresh-token",
			map[string]string{"refresh": refresh + "x"}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh requires the field", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Refresh(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/refresh-token", `{}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("logout blacklists the token", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/logout-user", nil)
		req = req.WithContext(middleware.ContextWithUser(context.Background(), user.ID, access))
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"message":"Logged out successfully.","success":true}`, w.Body.String())

		_, err := svc.Authenticate(context.Background(), access)
		assert.Error(t, err)
	})
}
