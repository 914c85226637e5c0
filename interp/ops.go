package interp

import (
	"math"

	"rankeval.org/rankeval/nodes"
	"rankeval.org/rankeval/value"
)

// approxTolerance is the relative tolerance of the ~= comparison.
const approxTolerance = 1e-12

type unaryFn func(x value.Value, st *value.Stash) value.Value

type binaryFn func(lhs, rhs value.Value, st *value.Stash) value.Value

// Operations are total: a non Double operand produces the error marker
// instead of signaling, so errors propagate to the final result.

func unaryNum(f func(float64) float64) unaryFn {
	return func(x value.Value, st *value.Stash) value.Value {
		a, ok := x.AsDouble()
		if !ok {
			return st.Error()
		}
		return st.Double(f(a))
	}
}

func binaryNum(f func(a, b float64) float64) binaryFn {
	return func(lhs, rhs value.Value, st *value.Stash) value.Value {
		a, okA := lhs.AsDouble()
		b, okB := rhs.AsDouble()
		if !okA || !okB {
			return st.Error()
		}
		return st.Double(f(a, b))
	}
}

func boolD(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// scalarTrue is the truthiness rule over raw doubles: strictly positive and
// finite.
func scalarTrue(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= approxTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// equalValues lifts variant aware equality into an operation, preserving
// error absorption.
func equalValues(lhs, rhs value.Value, st *value.Stash) value.Value {
	if value.IsError(lhs) || value.IsError(rhs) {
		return st.Error()
	}
	return st.Double(boolD(lhs.Equal(rhs)))
}

func notEqualValues(lhs, rhs value.Value, st *value.Stash) value.Value {
	if value.IsError(lhs) || value.IsError(rhs) {
		return st.Error()
	}
	return st.Double(boolD(!lhs.Equal(rhs)))
}

var unaryTable = [nodes.NumUnaryOps]unaryFn{
	nodes.Neg:   unaryNum(func(x float64) float64 { return -x }),
	nodes.Not:   unaryNum(func(x float64) float64 { return boolD(!scalarTrue(x)) }),
	nodes.Cos:   unaryNum(math.Cos),
	nodes.Sin:   unaryNum(math.Sin),
	nodes.Tan:   unaryNum(math.Tan),
	nodes.Cosh:  unaryNum(math.Cosh),
	nodes.Sinh:  unaryNum(math.Sinh),
	nodes.Tanh:  unaryNum(math.Tanh),
	nodes.Acos:  unaryNum(math.Acos),
	nodes.Asin:  unaryNum(math.Asin),
	nodes.Atan:  unaryNum(math.Atan),
	nodes.Exp:   unaryNum(math.Exp),
	nodes.Log:   unaryNum(math.Log),
	nodes.Log10: unaryNum(math.Log10),
	nodes.Sqrt:  unaryNum(math.Sqrt),
	nodes.Ceil:  unaryNum(math.Ceil),
	nodes.Floor: unaryNum(math.Floor),
	nodes.Fabs:  unaryNum(math.Abs),
	nodes.IsNan: unaryNum(func(x float64) float64 { return boolD(math.IsNaN(x)) }),
	nodes.Relu:  unaryNum(func(x float64) float64 { return math.Max(0, x) }),
}

var binaryTable = [nodes.NumBinaryOps]binaryFn{
	nodes.Add:   binaryNum(func(a, b float64) float64 { return a + b }),
	nodes.Sub:   binaryNum(func(a, b float64) float64 { return a - b }),
	nodes.Mul:   binaryNum(func(a, b float64) float64 { return a * b }),
	nodes.Div:   binaryNum(func(a, b float64) float64 { return a / b }),
	nodes.Pow:   binaryNum(math.Pow),
	nodes.Pow2:  binaryNum(math.Pow),
	nodes.Atan2: binaryNum(math.Atan2),
	nodes.Ldexp: binaryNum(func(a, b float64) float64 { return math.Ldexp(a, int(b)) }),
	nodes.Fmod:  binaryNum(math.Mod),
	nodes.Min:   binaryNum(math.Min),
	nodes.Max:   binaryNum(math.Max),

	nodes.Equal:        equalValues,
	nodes.NotEqual:     notEqualValues,
	nodes.Approx:       binaryNum(func(a, b float64) float64 { return boolD(approxEqual(a, b)) }),
	nodes.Less:         binaryNum(func(a, b float64) float64 { return boolD(a < b) }),
	nodes.LessEqual:    binaryNum(func(a, b float64) float64 { return boolD(a <= b) }),
	nodes.Greater:      binaryNum(func(a, b float64) float64 { return boolD(a > b) }),
	nodes.GreaterEqual: binaryNum(func(a, b float64) float64 { return boolD(a >= b) }),

	// and/or are strict: both operands are always computed before these run.
	nodes.And: binaryNum(func(a, b float64) float64 { return boolD(scalarTrue(a) && scalarTrue(b)) }),
	nodes.Or:  binaryNum(func(a, b float64) float64 { return boolD(scalarTrue(a) || scalarTrue(b)) }),
}
