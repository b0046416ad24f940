package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noder-app/noder-backend/internal/editor/domain"
)

const (
	sessionKeyPrefix  = "noder:editor:"      // noder:editor:{id}
	userSetKeyPrefix  = "noder:editor:user:" // noder:editor:user:{user_id}
	lockKeySuffix     = ":lock"
	DefaultSessionTTL = 24 * time.Hour
)

// RedisStore keeps sessions as JSON strings with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(s.ID), data, r.ttl)
	pipe.SAdd(ctx, userSetKey(s.UserID), s.ID)
	pipe.Expire(ctx, userSetKey(s.UserID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id), lockKey(id))
	pipe.SRem(ctx, userSetKey(s.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListByUser returns the user's live session ids. Members whose session key
// has expired are removed from the index.
func (r *RedisStore) ListByUser(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	pipe := r.client.Pipeline()
	exists := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		exists[i] = pipe.Exists(ctx, sessionKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	live := make([]string, 0, len(ids))
	var stale []any
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
		} else {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := r.client.SRem(ctx, userSetKey(userID), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune sessions: %w", err)
		}
	}
	return live, nil
}

func (r *RedisStore) AcquireLock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKey(id), time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire generation lock: %w", err)
	}
	return ok, nil
}

func (r *RedisStore) ReleaseLock(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, lockKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release generation lock: %w", err)
	}
	return nil
}

func (r *RedisStore) Locked(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, lockKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check generation lock: %w", err)
	}
	return n > 0, nil
}

func sessionKey(id string) string { return sessionKeyPrefix + id }
func lockKey(id string) string { return sessionKeyPrefix + id + lockKeySuffix }
func userSetKey(userID string) string { return userSetKeyPrefix + userID }
