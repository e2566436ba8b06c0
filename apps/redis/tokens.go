package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/getevo/evo/v2/lib/settings"
	"github.com/redis/go-redis/v9"
)

const resetTokenPrefix = "reset_token:"

var (
	// ErrTokenStoreUnavailable is returned when Redis is not connected.
	ErrTokenStoreUnavailable = errors.New("token store unavailable")
	// ErrTokenNotFound is returned for unknown or expired tokens.
	ErrTokenNotFound = errors.New("token not found or expired")
)

// IssueResetToken stores a single-use password reset token mapping to the
// employee id. The token expires on its own after AUTH.RESET_TOKEN_TTL.
func IssueResetToken(ctx context.Context, employeeID string) (string, error) {
	if Client == nil {
		return "", ErrTokenStoreUnavailable
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	ttl, err := settings.Get("AUTH.RESET_TOKEN_TTL", "30m").Duration()
	if err != nil || ttl <= 0 {
		ttl = 30 * time.Minute
	}

	if err := Client.Set(ctx, resetTokenPrefix+token, employeeID, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResetToken atomically fetches and deletes a reset token, returning
// the employee id it was issued for. A token can be consumed at most once.
func ConsumeResetToken(ctx context.Context, token string) (string, error) {
	if Client == nil {
		return "", ErrTokenStoreUnavailable
	}

	employeeID, err := Client.GetDel(ctx, resetTokenPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	return employeeID, nil
}
