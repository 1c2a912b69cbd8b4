package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionRepository keeps the session token under a single Redis key.
type SessionRepository struct {
	client *redis.Client
	key    string
}

// NewSessionRepository wraps client; the token lives at "session:<key>".
func NewSessionRepository(client *redis.Client, key string) *SessionRepository {
	return &SessionRepository{client: client, key: sessionKeyPrefix + key}
}

func (r *SessionRepository) Load(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return token, nil
}

func (r *SessionRepository) Save(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
