// Package auth issues and verifies the tokens used by the API.
//
// Access tokens are short-lived HS256 JWTs carrying the user ID. Refresh tokens
// are fernet tokens wrapping the user ID, so they can be verified without a
// database lookup and expire on their own.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

const accessTokenType = "access"

// Claims are the custom claims of an access token.
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access and refresh tokens.
type TokenManager struct {
	secret     []byte
	refreshKey *fernet.Key
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a TokenManager.
// refreshKey is a base64 fernet key; when empty one is derived from secret.
func NewTokenManager(secret, refreshKey string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}

	key, err := loadRefreshKey(secret, refreshKey)
	if err != nil {
		return nil, err
	}

	return &TokenManager{
		secret:     []byte(secret),
		refreshKey: key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccessToken returns a signed access token for the user and its expiry.
func (m *TokenManager) IssueAccessToken(userID string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.accessTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToIssueToken, err)
	}
	return signed, expiresAt, nil
}

// ParseAccessToken verifies the signature, algorithm and expiry of an access token.
// Any failure is reported as apperrors.ErrInvalidToken.
func (m *TokenManager) ParseAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if claims.TokenType != accessTokenType || claims.UserID == "" {
		return nil, fmt.Errorf("%w: not an access token", apperrors.ErrInvalidToken)
	}
	return claims, nil
}
