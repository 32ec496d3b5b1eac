package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecom-backend/user-service/internal/logger"
)

// ErrResetTokenNotFound is returned when a reset token is unknown, expired
// or already consumed.
var ErrResetTokenNotFound = errors.New("reset token not found")

// ResetTokenRepository stores one-shot password-reset tokens in Redis.
// Tokens expire through the key TTL; consuming a token deletes the key.
type ResetTokenRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewResetTokenRepository creates a repository with the given token TTL.
func NewResetTokenRepository(client *redis.Client, expiration time.Duration) *ResetTokenRepository {
	return &ResetTokenRepository{
		client: client,
		exp:    expiration,
	}
}

// Save stores token -> userID with the configured TTL.
func (r *ResetTokenRepository) Save(ctx context.Context, token string, userID int64) error {
	key := resetKey(token)
	err := r.client.Set(ctx, key, strconv.FormatInt(userID, 10), r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"user_id", userID,
		"error", err,
	)

	return err
}

// Consume returns the user id a token was issued for and deletes the token,
// so a token can be used at most once.
func (r *ResetTokenRepository) Consume(ctx context.Context, token string) (int64, error) {
	key := resetKey(token)

	val, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		if errors.Is(err, redis.Nil) {
			return 0, ErrResetTokenNotFound
		}
		return 0, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		logger.Log.Errorw("malformed reset token value", "key", key, "value", val, "error", err)
		return 0, ErrResetTokenNotFound
	}

	logger.Log.Infow(
		"key", key,
		"result", userID,
		"error", nil,
	)

	return userID, nil
}

func resetKey(token string) string {
	return fmt.Sprintf("password_reset:%s", token)
}
