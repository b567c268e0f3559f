package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/testutil"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/validation"
)

func registerRequest(email string) request.RegisterRequest {
	return request.RegisterRequest{
		Email:     email,
		Username:  "investor",
		Password1: "secret123",
		Password2: "secret123",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestAuthService(t, db)

		user, err := svc.Register(ctx, registerRequest(" new@example.com "))
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "new@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsStaff)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.Equal(t, 1, testutil.CountRows(t, db, "user"))
	})

	t.Run("rejects an email already in use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestAuthService(t, db)
		testutil.NewUser().WithEmail("taken@example.com").Build(t, db)

		_, err := svc.Register(ctx, registerRequest("Taken@Example.com"))

		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "email already exists", vErr.Fields[validation.NonFieldErrors])
		assert.Equal(t, 1, testutil.CountRows(t, db, "user"))
	})

	t.Run("rejects a password without digits", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestAuthService(t, db)

		req := registerRequest("weak@example.com")
		req.Password1, req.Password2 = "password", "password"

		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Equal(t, 0, testutil.CountRows(t, db, "user"))
	})

	t.Run("rejects mismatched passwords", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestAuthService(t, db)

		req := registerRequest("mismatch@example.com")
		req.Password2 = "secret124"

		_, err := svc.Register(ctx, req)
		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Passwords do not match.", vErr.Fields[validation.NonFieldErrors])
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc, tokens := testutil.NewTestAuthService(t, db)
	user := testutil.CreateUser(t, db)
	inactive := testutil.NewUser().Inactive().Build(t, db)

	t.Run("issues a token pair", func(t *testing.T) {
		pair, err := svc.Login(ctx, request.LoginRequest{Email: user.Email, Password: testutil.TestPassword})
		require.NoError(t, err)

		claims, err := tokens.ParseAccessToken(pair.Access)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)

		userID, err := tokens.ParseRefreshToken(pair.Refresh)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", user.Email, "wrong123"},
		{"unknown email", "nobody@example.com", testutil.TestPassword},
		{"disabled account", inactive.Email, testutil.TestPassword},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, request.LoginRequest{Email: tt.email, Password: tt.password})
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc, tokens := testutil.NewTestAuthService(t, db)
	user := testutil.CreateUser(t, db)

	t.Run("issues a new access token", func(t *testing.T) {
		refresh, err := tokens.IssueRefreshToken(user.ID)
		require.NoError(t, err)

		access, err := svc.Refresh(ctx, refresh)
		require.NoError(t, err)

		userID, err := svc.Authenticate(ctx, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects a token for a deleted user", func(t *testing.T) {
		refresh, err := tokens.IssueRefreshToken(testutil.MakeID())
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc, tokens := testutil.NewTestAuthService(t, db)
	user := testutil.CreateUser(t, db)
	token := testutil.AccessTokenFor(t, tokens, user.ID)

	userID, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	require.NoError(t, svc.Logout(ctx, token))
	assert.Equal(t, 1, testutil.CountRows(t, db, "blacklisted_token"))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrTokenBlacklisted)

	// A second logout with the same token is harmless.
	require.NoError(t, svc.Logout(ctx, token))
	assert.Equal(t, 1, testutil.CountRows(t, db, "blacklisted_token"))
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc, tokens := testutil.NewTestAuthService(t, db)

	t.Run("rejects malformed tokens", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "abc.def.ghi")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects a subject that is not a user ID", func(t *testing.T) {
		token := testutil.AccessTokenFor(t, tokens, "not-a-uuid")
		_, err := svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
