package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rankeval.org/rankeval/internal/testutil"
	"rankeval.org/rankeval/nodes"
	"rankeval.org/rankeval/tensor"
	"rankeval.org/rankeval/value"
)

func compile(t testing.TB, src string, params ...string) *Function {
	ctx := testutil.Context(t)
	root, err := nodes.Parse(src, params)
	require.NoError(t, err)
	return Compile(ctx, tensor.Simple{}, root, len(params))
}

func TestCompileDeterministic(t *testing.T) {
	t.Parallel()
	const src = "if(a in [1,2,3], let(x, a*2, x+1), sum({ {d:l}: 1 }))"
	a := compile(t, src, "a")
	b := compile(t, src, "a")
	require.Equal(t, a.Disassemble(), b.Disassemble())
	require.Equal(t, a.NumInstructions(), b.NumInstructions())
}

func TestCompileIf(t *testing.T) {
	t.Parallel()
	fn := compile(t, "if(a, 1, 2)", "a")
	require.Equal(t, []string{
		"load_param 0",
		"skip_if_false +2",
		"load_const 0",
		"skip +1",
		"load_const 1",
	}, fn.Disassemble())
}

func TestCompileIn(t *testing.T) {
	t.Parallel()
	fn := compile(t, "a in [10, 20]", "a")
	require.Equal(t, []string{
		"load_param 0",
		"load_const 0",
		"check_member +3",
		"load_const 1",
		"check_member +1",
		"not_member",
	}, fn.Disassemble())
}

func TestCompileInScalar(t *testing.T) {
	t.Parallel()
	fn := compile(t, "a in b", "a", "b")
	require.Equal(t, []string{
		"load_param 0",
		"load_param 1",
		"check_member +1",
		"not_member",
	}, fn.Disassemble())
}

func TestCompileLet(t *testing.T) {
	t.Parallel()
	fn := compile(t, "let(x, 5, x*6)")
	require.Equal(t, []string{
		"load_const 0",
		"store_let",
		"load_let 0",
		"load_const 1",
		"binary *",
		"evict_let",
	}, fn.Disassemble())
}

func TestCompileSum(t *testing.T) {
	t.Parallel()
	fn := compile(t, "sum(a)", "a")
	require.Equal(t, []string{"load_param 0", "tensor_sum"}, fn.Disassemble())
	fn = compile(t, "sum(a, x)", "a")
	require.Equal(t, []string{"load_param 0", `tensor_sum_dim "x"`}, fn.Disassemble())
}

func TestCompileMatch(t *testing.T) {
	t.Parallel()
	fn := compile(t, "match(a, b)", "a", "b")
	require.Equal(t, []string{
		"load_param 0",
		"load_param 1",
		"tensor_match",
	}, fn.Disassemble())
}

func TestCompileErrorNode(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	fn := Compile(ctx, tensor.Simple{}, &nodes.Error{}, 0)
	require.Equal(t, []string{"load_const 0"}, fn.Disassemble())
	require.True(t, value.IsError(fn.Eval(NewContext())))
}

func TestCompileNumParams(t *testing.T) {
	t.Parallel()
	fn := compile(t, "a+b", "a", "b")
	require.Equal(t, 2, fn.NumParams())
}
