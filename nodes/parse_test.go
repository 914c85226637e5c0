package nodes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string, params ...string) Node {
	n, err := Parse(src, params)
	require.NoError(t, err)
	return n
}

func TestParsePrecedence(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "2+3*4")
	require.Equal(t, &Binary{
		Op:  Add,
		LHS: &Number{Value: 2},
		RHS: &Binary{Op: Mul, LHS: &Number{Value: 3}, RHS: &Number{Value: 4}},
	}, n)

	n = mustParse(t, "(2+3)*4")
	require.Equal(t, &Binary{
		Op:  Mul,
		LHS: &Binary{Op: Add, LHS: &Number{Value: 2}, RHS: &Number{Value: 3}},
		RHS: &Number{Value: 4},
	}, n)
}

func TestParsePowRightAssoc(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "2^3^2")
	require.Equal(t, &Binary{
		Op:  Pow,
		LHS: &Number{Value: 2},
		RHS: &Binary{Op: Pow, LHS: &Number{Value: 3}, RHS: &Number{Value: 2}},
	}, n)
}

func TestParseCmpAndLogic(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "a < 1 && b >= 2 || !c", "a", "b", "c")
	require.Equal(t, &Binary{
		Op: Or,
		LHS: &Binary{
			Op:  And,
			LHS: &Binary{Op: Less, LHS: &Symbol{ID: 0}, RHS: &Number{Value: 1}},
			RHS: &Binary{Op: GreaterEqual, LHS: &Symbol{ID: 1}, RHS: &Number{Value: 2}},
		},
		RHS: &Unary{Op: Not, Child: &Symbol{ID: 2}},
	}, n)
}

func TestParseApprox(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "a ~= 1.5", "a")
	require.Equal(t, &Binary{Op: Approx, LHS: &Symbol{ID: 0}, RHS: &Number{Value: 1.5}}, n)
}

func TestParseIn(t *testing.T) {
	t.Parallel()
	n := mustParse(t, `a in [1, 2, "x"]`, "a")
	require.Equal(t, &In{
		LHS: &Symbol{ID: 0},
		RHS: &Array{Items: []Node{
			&Number{Value: 1}, &Number{Value: 2}, &String{Value: "x"},
		}},
	}, n)
}

func TestParseCalls(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "if(a, cos(a), pow(a, 2))", "a")
	require.Equal(t, &If{
		Cond:      &Symbol{ID: 0},
		TrueExpr:  &Unary{Op: Cos, Child: &Symbol{ID: 0}},
		FalseExpr: &Binary{Op: Pow2, LHS: &Symbol{ID: 0}, RHS: &Number{Value: 2}},
	}, n)
}

func TestParseLetScoping(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "let(x, 5, let(y, x+1, x*y))")
	outer := n.(*Let)
	require.Equal(t, "x", outer.Name)
	inner := outer.Expr.(*Let)
	require.Equal(t, "y", inner.Name)
	// x resolves to the outer binding, y to the inner one
	require.Equal(t, &Binary{Op: Add, LHS: &Symbol{ID: -1}, RHS: &Number{Value: 1}}, inner.Value)
	require.Equal(t, &Binary{Op: Mul, LHS: &Symbol{ID: -1}, RHS: &Symbol{ID: -2}}, inner.Expr)
}

func TestParseLetShadowsParam(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "let(a, 1, a) + a", "a")
	require.Equal(t, &Binary{
		Op:  Add,
		LHS: &Let{Name: "a", Value: &Number{Value: 1}, Expr: &Symbol{ID: -1}},
		RHS: &Symbol{ID: 0},
	}, n)
}

func TestParseSum(t *testing.T) {
	t.Parallel()
	require.Equal(t, &TensorSum{Child: &Symbol{ID: 0}}, mustParse(t, "sum(t)", "t"))
	require.Equal(t, &TensorSum{Child: &Symbol{ID: 0}, Dim: "x"}, mustParse(t, "sum(t, x)", "t"))
	require.Equal(t, &TensorSum{Child: &Symbol{ID: 0}, Dim: "x"}, mustParse(t, `sum(t, "x")`, "t"))
}

func TestParseMatch(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "match(a, b)", "a", "b")
	require.Equal(t, &TensorMatch{LHS: &Symbol{ID: 0}, RHS: &Symbol{ID: 1}}, n)
}

func TestParseTensorLit(t *testing.T) {
	t.Parallel()
	n := mustParse(t, `{ {x:a, y:0}: 1.5, {x:b}: -2 }`)
	require.Equal(t, &Tensor{Cells: []TensorCell{
		{Address: map[string]string{"x": "a", "y": "0"}, Value: 1.5},
		{Address: map[string]string{"x": "b"}, Value: -2},
	}}, n)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		Name string
		Src  string
	}{
		{"UnknownSymbol", "nope"},
		{"UnknownFunction", "frob(1)"},
		{"Trailing", "1 2"},
		{"UnbalancedParen", "(1+2"},
		{"EmptyInput", ""},
		{"BadTensorCell", "{ {x:a} }"},
		{"DupCellDim", "{ {x:a, x:b}: 1 }"},
		{"LetOutOfScope", "let(x, 1, x) + x"},
	}
	for _, tc := range tcs {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tc.Src, nil)
			require.Error(t, err)
		})
	}
	_, err := Parse("a", []string{"a", "a"})
	require.Error(t, err)
}

func TestParams(t *testing.T) {
	t.Parallel()
	require.Equal(t, 3, Params(mustParse(t, "a + c", "a", "b", "c")))
	require.Equal(t, 0, Params(mustParse(t, "1+1")))
}
