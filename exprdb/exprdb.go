// package exprdb stores named ranking expressions in a sqlite database and
// evaluates them on demand.
package exprdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"rankeval.org/rankeval"
	"rankeval.org/rankeval/internal/dbutil"
	"rankeval.org/rankeval/interp"
	"rankeval.org/rankeval/nodes"
	"rankeval.org/rankeval/tensor"
	"rankeval.org/rankeval/value"
)

// ErrNotFound is returned when a named expression does not exist.
var ErrNotFound = errors.New("exprdb: expression not found")

// Expression is one catalog entry.
type Expression struct {
	Name   string   `db:"name"`
	Expr   string   `db:"expr"`
	Params []string `db:"-"`
}

// Catalog is a named-expression store backed by a single database. Compiled
// programs are cached by expression text and parameter list, so a replaced
// entry never reuses a stale program; Put and Delete do not purge the cache.
type Catalog struct {
	db    *sqlx.DB
	cache *interp.Cache

	mu   sync.Mutex
	ctxs []*interp.Context
}

func New(db *sqlx.DB, cacheSize int) (*Catalog, error) {
	cache, err := interp.NewCache(tensor.Simple{}, cacheSize)
	if err != nil {
		return nil, err
	}
	return &Catalog{db: db, cache: cache}, nil
}

// Put validates expr over params and stores it under name, replacing any
// previous entry.
func (c *Catalog) Put(ctx context.Context, name, expr string, params []string) error {
	if name == "" {
		return errors.New("exprdb: empty name")
	}
	if _, err := nodes.Parse(expr, params); err != nil {
		return fmt.Errorf("exprdb: invalid expression %q: %w", name, err)
	}
	paramsData, err := json.Marshal(params)
	if err != nil {
		return err
	}
	err = dbutil.DoTx(ctx, c.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO expressions (name, expr, params) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET expr = excluded.expr, params = excluded.params`,
			name, expr, paramsData)
		return err
	})
	if err != nil {
		return err
	}
	logctx.Info(ctx, "stored expression", zap.String("name", name), zap.Int("params", len(params)))
	return nil
}

// Get returns the entry stored under name.
func (c *Catalog) Get(ctx context.Context, name string) (*Expression, error) {
	var row struct {
		Name   string `db:"name"`
		Expr   string `db:"expr"`
		Params []byte `db:"params"`
	}
	if err := c.db.GetContext(ctx, &row, `SELECT name, expr, params FROM expressions WHERE name = ?`, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e := &Expression{Name: row.Name, Expr: row.Expr}
	if err := json.Unmarshal(row.Params, &e.Params); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns the names of all stored expressions in lexical order.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.db.SelectContext(ctx, &names, `SELECT name FROM expressions ORDER BY name`); err != nil {
		return nil, err
	}
	return names, nil
}

// Delete removes the entry stored under name if it exists.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	return dbutil.DoTx(ctx, c.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM expressions WHERE name = ?`, name)
		return err
	})
}

// Result is an evaluation outcome detached from any stash, safe to hold
// after the evaluation context is recycled.
type Result struct {
	Kind   string        `json:"kind"`
	Double float64       `json:"double,omitempty"`
	Cells  []tensor.Cell `json:"cells,omitempty"`
}

func newResult(v value.Value) Result {
	if d, ok := v.AsDouble(); ok {
		return Result{Kind: "double", Double: d}
	}
	if t, ok := v.AsTensor(); ok {
		r := Result{Kind: "tensor"}
		if st, ok := t.(interface{ Spec() tensor.Spec }); ok {
			r.Cells = st.Spec().Cells
		}
		return r
	}
	return Result{Kind: "error"}
}

// Eval evaluates the named expression with args bound by parameter name.
// Numeric args bind directly; string args bind as their hash, matching how
// string literals evaluate inside expressions.
func (c *Catalog) Eval(ctx context.Context, name string, args map[string]any) (Result, error) {
	e, err := c.Get(ctx, name)
	if err != nil {
		return Result{}, err
	}
	fn, err := c.cache.Get(ctx, e.Expr, e.Params)
	if err != nil {
		return Result{}, err
	}
	ps := make([]float64, len(e.Params))
	for i, p := range e.Params {
		a, ok := args[p]
		if !ok {
			return Result{}, fmt.Errorf("exprdb: missing argument %q", p)
		}
		switch a := a.(type) {
		case float64:
			ps[i] = a
		case string:
			ps[i] = rankeval.HashString(a)
		default:
			return Result{}, fmt.Errorf("exprdb: argument %q has unsupported type %T", p, a)
		}
	}
	ectx := c.acquire()
	defer c.release(ectx)
	ectx.SetParams(ps)
	return newResult(fn.Eval(ectx)), nil
}

func (c *Catalog) acquire() *interp.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.ctxs); n > 0 {
		ectx := c.ctxs[n-1]
		c.ctxs = c.ctxs[:n-1]
		return ectx
	}
	return interp.NewContext()
}

func (c *Catalog) release(ectx *interp.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctxs = append(c.ctxs, ectx)
}
