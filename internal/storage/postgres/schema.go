// Package postgres holds the relational schema shared by the projects and
// files repositories.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// CreateSchema creates the projects and blueprint_files tables if they don't exist.
func CreateSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// DropSchema drops both tables. Used by repository tests.
func DropSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `drop table if exists blueprint_files, projects cascade;`)
	return err
}
