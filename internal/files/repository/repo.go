package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noder-app/noder-backend/internal/files/domain"
)

// Repo persists project file trees in Postgres. Every query is scoped by the
// owning user and the project's public id.
type Repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const itemColumns = `f.id::text, p.public_id, f.user_id, f.parent_id::text, f.name, f.type, f.content, f.created_at, f.updated_at`

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(&it.ID, &it.ProjectID, &it.UserID, &it.ParentID, &it.Name, &it.Type, &it.Content, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) Create(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	const q = `
with p as (
	select id, public_id from projects
	where public_id = $2 and user_id = $3 and deleted_at is null
), f as (
	insert into blueprint_files (id, project_id, user_id, parent_id, name, type, content)
	select $1::uuid, p.id, $3, $4::uuid, $5, $6, $7 from p
	returning *
)
select ` + itemColumns + ` from f join p on p.id = f.project_id;
`
	out, err := scanItem(r.db.QueryRow(ctx, q, it.ID, it.ProjectID, it.UserID, it.ParentID, it.Name, it.Type, it.Content))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	return out, nil
}

// List returns the project's items without content, oldest first.
func (r *Repo) List(ctx context.Context, userID, projectID string) ([]domain.Item, error) {
	if err := r.projectExists(ctx, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
select f.id::text, p.public_id, f.user_id, f.parent_id::text, f.name, f.type, '', f.created_at, f.updated_at
from blueprint_files f
join projects p on p.id = f.project_id
where p.public_id = $1 and f.user_id = $2 and p.deleted_at is null
order by f.created_at, f.name;
`
	rows, err := r.db.Query(ctx, q, projectID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Item, 0, 16)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID, projectID, id string) (*domain.Item, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	const q = `
select ` + itemColumns + `
from blueprint_files f
join projects p on p.id = f.project_id
where f.id = $1::uuid and p.public_id = $2 and f.user_id = $3 and p.deleted_at is null;
`
	it, err := scanItem(r.db.QueryRow(ctx, q, id, projectID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return it, err
}

func (r *Repo) Update(ctx context.Context, userID, projectID, id string, patch domain.Patch) (*domain.Item, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	const q = `
with p as (
	select id, public_id from projects
	where public_id = $2 and user_id = $3 and deleted_at is null
), f as (
	update blueprint_files f
	set name = coalesce($4, f.name),
	    content = coalesce($5, f.content),
	    parent_id = case when $7 then null when $6::uuid is not null then $6::uuid else f.parent_id end,
	    updated_at = now()
	from p
	where f.id = $1::uuid and f.project_id = p.id and f.user_id = $3
	returning f.*
)
select ` + itemColumns + ` from f join p on p.id = f.project_id;
`
	it, err := scanItem(r.db.QueryRow(ctx, q, id, projectID, userID, patch.Name, patch.Content, patch.ParentID, patch.ToRoot))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update file: %w", err)
	}
	return it, nil
}

// Delete removes the item and, for folders, everything below it. It returns
// the number of rows removed.
func (r *Repo) Delete(ctx context.Context, userID, projectID, id string) (int64, error) {
	if !validID(id) {
		return 0, domain.ErrNotFound
	}
	const q = `
with recursive target as (
	select f.id from blueprint_files f
	join projects p on p.id = f.project_id
	where f.id = $1::uuid and p.public_id = $2 and f.user_id = $3 and p.deleted_at is null
	union
	select c.id from blueprint_files c join target t on c.parent_id = t.id
)
delete from blueprint_files where id in (select id from target);
`
	ct, err := r.db.Exec(ctx, q, id, projectID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete file: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return 0, domain.ErrNotFound
	}
	return ct.RowsAffected(), nil
}

func (r *Repo) projectExists(ctx context.Context, userID, projectID string) error {
	const q = `select exists(select 1 from projects where public_id = $1 and user_id = $2 and deleted_at is null);`
	var ok bool
	if err := r.db.QueryRow(ctx, q, projectID, userID).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return domain.ErrProjectNotFound
	}
	return nil
}

// validID keeps malformed ids from reaching a uuid cast in SQL.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
