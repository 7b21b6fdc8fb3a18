// Package database holds the PostgreSQL schema and runs its migrations.
package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// SchemaDir is the migrations directory inside Schema.
const SchemaDir = "schema"

// Schema holds the goose migrations.
//
//go:embed schema/*.sql
var Schema embed.FS

func setup() error {
	goose.SetBaseFS(Schema)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// withDB runs fn against a database/sql view of the pool. The view is closed
// afterwards; the pool stays open.
func withDB(pool *pgxpool.Pool, fn func(db *sql.DB) error) error {
	if err := setup(); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return fn(db)
}

// Up applies every pending migration.
func Up(pool *pgxpool.Pool) error {
	return withDB(pool, func(db *sql.DB) error {
		if err := goose.Up(db, SchemaDir); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
}

// Reset rolls back every applied migration.
func Reset(pool *pgxpool.Pool) error {
	return withDB(pool, func(db *sql.DB) error {
		if err := goose.Reset(db, SchemaDir); err != nil {
			return fmt.Errorf("goose reset: %w", err)
		}
		return nil
	})
}
