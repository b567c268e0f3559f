package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", "", 5*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", "", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", "not-a-fernet-key", time.Minute, time.Hour)
	assert.ErrorContains(t, err, "refresh token key")
}

func TestTokenManager_AccessToken(t *testing.T) {
	t.Run("round trips the user id", func(t *testing.T) {
		m := newTestManager(t)

		token, expiresAt, err := m.IssueAccessToken("user-1")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

		claims, err := m.ParseAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		m := newTestManager(t)
		m.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := m.IssueAccessToken("user-1")
		require.NoError(t, err)

		m.now = time.Now
		_, err = m.ParseAccessToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other, err := NewTokenManager("other-secret", "", time.Minute, time.Hour)
		require.NoError(t, err)
		token, _, err := other.IssueAccessToken("user-1")
		require.NoError(t, err)

		_, err = newTestManager(t).ParseAccessToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects tokens without the access type", func(t *testing.T) {
		m := newTestManager(t)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = m.ParseAccessToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := newTestManager(t).ParseAccessToken("not.a.jwt")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestTokenManager_RefreshToken(t *testing.T) {
	t.Run("round trips the user id", func(t *testing.T) {
		m := newTestManager(t)
		token, err := m.IssueRefreshToken("user-1")
		require.NoError(t, err)

		userID, err := m.ParseRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("rejects tokens from another key", func(t *testing.T) {
		other, err := NewTokenManager("other-secret", "", time.Minute, time.Hour)
		require.NoError(t, err)
		token, err := other.IssueRefreshToken("user-1")
		require.NoError(t, err)

		_, err = newTestManager(t).ParseRefreshToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		m, err := NewTokenManager("test-secret", "", time.Minute, time.Nanosecond)
		require.NoError(t, err)
		token, err := m.IssueRefreshToken("user-1")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = m.ParseRefreshToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("an access token is not a refresh token", func(t *testing.T) {
		m := newTestManager(t)
		access, _, err := m.IssueAccessToken("user-1")
		require.NoError(t, err)

		_, err = m.ParseRefreshToken(access)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
