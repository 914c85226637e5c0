package exprdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rankeval.org/rankeval/internal/dbutil"
	"rankeval.org/rankeval/internal/testutil"
)

func newCatalog(t *testing.T) *Catalog {
	ctx := testutil.Context(t)
	db := dbutil.NewTestDB(t)
	require.NoError(t, SetupDB(ctx, db))
	cat, err := New(db, 16)
	require.NoError(t, err)
	return cat
}

func TestPutGet(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cat := newCatalog(t)

	require.NoError(t, cat.Put(ctx, "score", "a*b+1", []string{"a", "b"}))
	e, err := cat.Get(ctx, "score")
	require.NoError(t, err)
	require.Equal(t, "a*b+1", e.Expr)
	require.Equal(t, []string{"a", "b"}, e.Params)

	// Put replaces
	require.NoError(t, cat.Put(ctx, "score", "a+b", []string{"a", "b"}))
	e, err = cat.Get(ctx, "score")
	require.NoError(t, err)
	require.Equal(t, "a+b", e.Expr)
}

func TestPutInvalid(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cat := newCatalog(t)
	require.Error(t, cat.Put(ctx, "bad", "a+", []string{"a"}))
	require.Error(t, cat.Put(ctx, "bad", "c", []string{"a"}))
	require.Error(t, cat.Put(ctx, "", "1", nil))
}

func TestListDelete(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cat := newCatalog(t)
	require.NoError(t, cat.Put(ctx, "b", "1", nil))
	require.NoError(t, cat.Put(ctx, "a", "2", nil))
	names, err := cat.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, cat.Delete(ctx, "a"))
	names, err = cat.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, names)

	_, err = cat.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEval(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cat := newCatalog(t)
	require.NoError(t, cat.Put(ctx, "score", "if(q > 0, w*q, 0-1)", []string{"q", "w"}))

	res, err := cat.Eval(ctx, "score", map[string]any{"q": 3.0, "w": 2.0})
	require.NoError(t, err)
	require.Equal(t, Result{Kind: "double", Double: 6}, res)

	res, err = cat.Eval(ctx, "score", map[string]any{"q": 0.0, "w": 2.0})
	require.NoError(t, err)
	require.Equal(t, Result{Kind: "double", Double: -1}, res)
}

func TestEvalStringArg(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cat := newCatalog(t)
	require.NoError(t, cat.Put(ctx, "market", `if(m in ["us", "eu"], 1, 0)`, []string{"m"}))

	res, err := cat.Eval(ctx, "market", map[string]any{"m": "us"})
	require.NoError(t, err)
	require.Equal(t, 1.0, res.Double)

	res, err = cat.Eval(ctx, "market", map[string]any{"m": "jp"})
	require.NoError(t, err)
	require.Equal(t, 0.0, res.Double)
}

func TestEvalTensorResult(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cat := newCatalog(t)
	require.NoError(t, cat.Put(ctx, "agg", "sum({ {x:a,y:p}: 1, {x:a,y:q}: 2 }, y)", nil))
	res, err := cat.Eval(ctx, "agg", nil)
	require.NoError(t, err)
	require.Equal(t, "tensor", res.Kind)
	require.Len(t, res.Cells, 1)
	require.Equal(t, 3.0, res.Cells[0].Value)
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cat := newCatalog(t)
	require.NoError(t, cat.Put(ctx, "score", "a+1", []string{"a"}))

	_, err := cat.Eval(ctx, "missing", nil)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = cat.Eval(ctx, "score", map[string]any{})
	require.Error(t, err)

	_, err = cat.Eval(ctx, "score", map[string]any{"a": []int{1}})
	require.Error(t, err)

	res, err := cat.Eval(ctx, "score", map[string]any{"a": 1.0})
	require.NoError(t, err)
	require.Equal(t, 2.0, res.Double)
}

func TestEvalErrorResult(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cat := newCatalog(t)
	require.NoError(t, cat.Put(ctx, "broken", "sum(a)", []string{"a"}))
	res, err := cat.Eval(ctx, "broken", map[string]any{"a": 1.0})
	require.NoError(t, err)
	require.Equal(t, Result{Kind: "error"}, res)
}
