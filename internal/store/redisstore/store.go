package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store keeps advisory per-participant unread counters. Counters are bumped
// by the event worker and cleared when the participant reads the log; if
// redis is down the chat still works, only the badge count degrades.
type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func unreadKey(sessionID, userID string) string {
	return fmt.Sprintf("unread:%s:%s", sessionID, userID)
}

func (s *Store) IncrUnread(ctx context.Context, sessionID, userID string) error {
	return s.rdb.Incr(ctx, unreadKey(sessionID, userID)).Err()
}

func (s *Store) ResetUnread(ctx context.Context, sessionID, userID string) error {
	return s.rdb.Del(ctx, unreadKey(sessionID, userID)).Err()
}

func (s *Store) GetUnread(ctx context.Context, sessionID, userID string) (int64, error) {
	n, err := s.rdb.Get(ctx, unreadKey(sessionID, userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (s *Store) Close() error { return s.rdb.Close() }
