package auth

import (
	"crypto/sha256"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

func loadRefreshKey(secret, encoded string) (*fernet.Key, error) {
	if encoded != "" {
		key, err := fernet.DecodeKey(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid refresh token key: %w", err)
		}
		return key, nil
	}

	sum := sha256.Sum256([]byte("refresh:" + secret))
	key := fernet.Key(sum)
	return &key, nil
}

// IssueRefreshToken returns a refresh token for the user.
func (m *TokenManager) IssueRefreshToken(userID string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(userID), m.refreshKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrFailedToIssueToken, err)
	}
	return string(tok), nil
}

// ParseRefreshToken returns the user ID inside a refresh token.
// Tampered, foreign and expired tokens are reported as apperrors.ErrInvalidToken.
func (m *TokenManager) ParseRefreshToken(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), m.refreshTTL, []*fernet.Key{m.refreshKey})
	if msg == nil {
		return "", fmt.Errorf("%w: refresh token rejected", apperrors.ErrInvalidToken)
	}
	return string(msg), nil
}
