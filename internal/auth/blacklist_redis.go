package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "fundtracker:blacklist:"

// RedisStore is the subset of the go-redis client used by RedisBlacklist.
type RedisStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisBlacklist keeps revoked tokens in Redis until the token itself expires.
type RedisBlacklist struct {
	client RedisStore
	now    func() time.Time
}

// NewRedisBlacklist wraps a Redis client such as *redis.Client.
func NewRedisBlacklist(client RedisStore) *RedisBlacklist {
	return &RedisBlacklist{client: client, now: time.Now}
}

// Add stores the token with a TTL matching its remaining lifetime.
// Tokens that have already expired are not stored.
func (b *RedisBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKey(token), "blacklisted", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// Contains reports whether the token is blacklisted.
func (b *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	err := b.client.Get(ctx, blacklistKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check blacklisted token: %w", err)
	}
	return true, nil
}

// blacklistKey hashes the token so keys stay short and tokens are not stored in clear.
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:])
}
