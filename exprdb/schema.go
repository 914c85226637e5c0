package exprdb

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rankeval.org/rankeval/internal/dbutil"
	"rankeval.org/rankeval/internal/migrations"
)

func OpenDB(p string) (*sqlx.DB, error) {
	return dbutil.Open(p)
}

func SetupDB(ctx context.Context, db *sqlx.DB) error {
	return migrations.Migrate(ctx, db, currentSchema)
}

var currentSchema = func() *migrations.State {
	x := migrations.InitialState()
	x = x.ApplyStmt(`CREATE TABLE expressions (
		name TEXT NOT NULL,
		expr TEXT NOT NULL,
		params TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

		PRIMARY KEY(name)
	)`)
	return x
}()
