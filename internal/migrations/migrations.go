// package migrations manages sqlite schema versions as a chain of states.
package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
)

// State is one version of the schema. States form a singly linked list back
// to InitialState; the chain length is the schema version.
type State struct {
	prev *State
	stmt string
}

// InitialState is the empty schema.
func InitialState() *State {
	return &State{}
}

// ApplyStmt returns the state after executing stmt.
func (s *State) ApplyStmt(stmt string) *State {
	return &State{prev: s, stmt: stmt}
}

func (s *State) chain() []*State {
	if s.prev == nil {
		return nil
	}
	return append(s.prev.chain(), s)
}

// Migrate brings db up to the schema described by final, executing only the
// statements past the version the database is already at.
func Migrate(ctx context.Context, db *sqlx.DB, final *State) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return err
	}
	var current int
	if err := db.GetContext(ctx, &current, `SELECT COALESCE(MAX(id), 0) FROM migrations`); err != nil {
		return err
	}
	chain := final.chain()
	for i, st := range chain {
		version := i + 1
		if version <= current {
			continue
		}
		if _, err := db.ExecContext(ctx, st.stmt); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO migrations (id) VALUES (?)`, version); err != nil {
			return err
		}
		logctx.Debug(ctx, "applied migration", zap.Int("version", version))
	}
	return nil
}
