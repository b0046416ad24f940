package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noder-app/noder-backend/internal/projects/domain"
)

// Repo persists projects in Postgres.
type Repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Create inserts a new project for the given user. A public_id collision is
// retried with a fresh id.
func (r *Repo) Create(ctx context.Context, userID, name string) (*domain.Project, error) {
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	for i := 0; i < 5; i++ {
		publicID, err := domain.NewPublicID()
		if err != nil {
			return nil, err
		}

		const q = `
insert into projects (public_id, user_id, name)
values ($1, $2, $3)
returning public_id, name, created_at, updated_at;
`
		var p domain.Project
		err = r.db.QueryRow(ctx, q, publicID, userID, name).
			Scan(&p.PublicID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
		if err == nil {
			return &p, nil
		}

		// unique violation on public_id → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

func (r *Repo) List(ctx context.Context, userID string) ([]domain.Project, error) {
	const q = `
select public_id, name, created_at, updated_at
from projects
where user_id = $1 and deleted_at is null
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.PublicID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID, publicID string) (*domain.Project, error) {
	const q = `
select public_id, name, created_at, updated_at
from projects
where user_id = $1 and public_id = $2 and deleted_at is null;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, userID, publicID).
		Scan(&p.PublicID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Rename(ctx context.Context, userID, publicID, newName string) (*domain.Project, error) {
	const q = `
update projects
set name = $3, updated_at = now()
where user_id = $1 and public_id = $2 and deleted_at is null
returning public_id, name, created_at, updated_at;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, userID, publicID, newName).
		Scan(&p.PublicID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SoftDelete marks a project as deleted. Its files stay until PurgeDeleted.
func (r *Repo) SoftDelete(ctx context.Context, userID, publicID string) (bool, error) {
	const q = `
update projects
set deleted_at = now(), updated_at = now()
where user_id = $1 and public_id = $2 and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, userID, publicID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// PurgeDeleted hard-deletes projects soft-deleted before now-olderThan.
// Their files go with them through the foreign key cascade.
func (r *Repo) PurgeDeleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	const q = `
delete from projects
where deleted_at is not null and deleted_at < $1;
`
	ct, err := r.db.Exec(ctx, q, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("purge projects: %w", err)
	}
	return ct.RowsAffected(), nil
}
