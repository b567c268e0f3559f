package auth

import (
	"context"
	"time"
)

// Blacklist records access tokens revoked before their expiry.
// repository.TokenRepository and RedisBlacklist both implement it.
type Blacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}
