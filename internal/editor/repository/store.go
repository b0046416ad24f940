package repository

import (
	"context"
	"time"

	"github.com/noder-app/noder-backend/internal/editor/domain"
)

// Store persists editor sessions and the per-session generation lock.
type Store interface {
	Save(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]string, error)

	// AcquireLock returns false when the lock is already held.
	AcquireLock(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, id string) error
	Locked(ctx context.Context, id string) (bool, error)
}
