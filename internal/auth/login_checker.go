package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/2beens/workouttracker/internal/apperr"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// UserIDForToken returns apperr.ErrNotAuthenticated for unknown or expired
// tokens. Other errors mean the lookup itself failed.
func (c *LoginChecker) UserIDForToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, apperr.ErrNotAuthenticated
	}

	val, err := c.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, apperr.ErrNotAuthenticated
		}
		return uuid.Nil, err
	}

	session, err := decodeLoginSession(val)
	if err != nil {
		return uuid.Nil, err
	}

	if time.Since(session.CreatedAt) > c.ttl {
		return uuid.Nil, apperr.ErrNotAuthenticated
	}

	return session.UserID, nil
}
