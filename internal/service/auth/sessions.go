package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SessionStore holds server-side admin sessions. A token is only as
// alive as its session entry.
type SessionStore interface {
	Put(ctx context.Context, id, subject string, ttl time.Duration) error
	Get(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

const sessionKeyPrefix = "admin:session:"

// RedisSessions stores sessions in redis with a TTL, so sessions
// expire server-side even if the client keeps its token.
type RedisSessions struct {
	rdb *goredis.Client
}

func NewRedisSessions(rdb *goredis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (s *RedisSessions) Put(ctx context.Context, id, subject string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKeyPrefix+id, subject, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the session subject, or "" when the session is absent.
func (s *RedisSessions) Get(ctx context.Context, id string) (string, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	return val, nil
}

func (s *RedisSessions) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
