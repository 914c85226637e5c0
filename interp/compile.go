package interp

import (
	"context"

	"go.brendoncarroll.net/exp/slices2"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"rankeval.org/rankeval"
	"rankeval.org/rankeval/nodes"
	"rankeval.org/rankeval/tensor"
	"rankeval.org/rankeval/value"
)

// Function is a compiled expression: the instruction program, the constant
// table, and the stash that owns the constants. Immutable after Compile and
// safe to share between goroutines.
type Function struct {
	program   []I
	consts    []value.Value
	stash     value.Stash
	numParams int
	engine    tensor.Engine
}

// Compile lowers root into a linear program. Compilation is total and
// deterministic: structurally identical trees produce identical programs.
func Compile(ctx context.Context, engine tensor.Engine, root nodes.Node, numParams int) *Function {
	fn := &Function{numParams: numParams, engine: engine}
	b := builder{fn: fn}
	b.build(root)
	logctx.Debug(ctx, "compiled expression",
		zap.Int("instructions", len(fn.program)),
		zap.Int("constants", len(fn.consts)),
		zap.Int("params", numParams))
	return fn
}

func (f *Function) NumParams() int       { return f.numParams }
func (f *Function) NumInstructions() int { return len(f.program) }

// Disassemble renders the program one instruction per line.
func (f *Function) Disassemble() []string {
	return slices2.Map(f.program, func(ix I) string { return ix.String() })
}

type builder struct {
	fn *Function
}

// emit appends ix and returns its index, for backpatching.
func (b *builder) emit(ix I) int {
	b.fn.program = append(b.fn.program, ix)
	return len(b.fn.program) - 1
}

func (b *builder) loadConst(v value.Value) {
	idx := len(b.fn.consts)
	b.fn.consts = append(b.fn.consts, v)
	b.emit(loadConstI{idx: uint32(idx)})
}

// build walks n in post order. Control flow nodes (If, Let, In) interleave
// child programs with their own instructions, so they recurse explicitly. A
// bare array compiles to its length; its items are not compiled.
func (b *builder) build(n nodes.Node) {
	st := &b.fn.stash
	switch n := n.(type) {
	case *nodes.Number:
		b.loadConst(st.Double(n.Value))
	case *nodes.String:
		b.loadConst(st.Double(rankeval.HashString(n.Value)))
	case *nodes.Array:
		// a bare array evaluates to its length
		b.loadConst(st.Double(float64(len(n.Items))))
	case *nodes.Error:
		b.loadConst(st.Error())
	case *nodes.Symbol:
		if n.ID >= 0 {
			b.emit(loadParamI{idx: uint32(n.ID)})
		} else {
			b.emit(loadLetI{off: uint32(-n.ID - 1)})
		}
	case *nodes.Tensor:
		b.tensorLit(n)
	case *nodes.Unary:
		b.build(n.Child)
		b.emit(unaryI{op: n.Op})
	case *nodes.Binary:
		b.build(n.LHS)
		b.build(n.RHS)
		b.emit(binaryI{op: n.Op})
	case *nodes.If:
		b.ifExpr(n)
	case *nodes.Let:
		b.build(n.Value)
		b.emit(storeLetI{})
		b.build(n.Expr)
		b.emit(evictLetI{})
	case *nodes.In:
		b.inExpr(n)
	case *nodes.TensorSum:
		b.build(n.Child)
		if n.Dim == "" {
			b.emit(tensorSumI{})
		} else {
			b.emit(tensorSumDimI{dim: n.Dim})
		}
	case *nodes.TensorMatch:
		b.build(n.LHS)
		b.build(n.RHS)
		b.emit(tensorMatchI{})
	default:
		panic(n)
	}
}

// ifExpr lowers a conditional so that exactly one branch executes:
//
//	<cond> skip_if_false A <true> skip B <false>
//
// A jumps just past the skip, B jumps past the false branch.
func (b *builder) ifExpr(n *nodes.If) {
	b.build(n.Cond)
	afterCond := b.emit(skipIfFalseI{})
	b.build(n.TrueExpr)
	afterTrue := b.emit(skipI{})
	b.build(n.FalseExpr)
	b.fn.program[afterCond] = skipIfFalseI{off: int32(afterTrue - afterCond)}
	b.fn.program[afterTrue] = skipI{off: int32(len(b.fn.program) - afterTrue - 1)}
}

// inExpr lowers set membership with short-circuit: each candidate gets a
// check_member whose offset jumps past the remaining checks and the trailing
// not_member when it matches.
func (b *builder) inExpr(n *nodes.In) {
	b.build(n.LHS)
	var checks []int
	if arr, ok := n.RHS.(*nodes.Array); ok {
		for _, item := range arr.Items {
			b.build(item)
			checks = append(checks, b.emit(checkMemberI{}))
		}
	} else {
		b.build(n.RHS)
		checks = append(checks, b.emit(checkMemberI{}))
	}
	for _, c := range checks {
		b.fn.program[c] = checkMemberI{off: int32(len(b.fn.program) - c)}
	}
	b.emit(notMemberI{})
}

func (b *builder) tensorLit(n *nodes.Tensor) {
	spec := tensor.Spec{}
	for _, cell := range n.Cells {
		addr := tensor.Address{}
		for d, label := range cell.Address {
			addr[d] = label
		}
		spec.Cells = append(spec.Cells, tensor.Cell{Address: addr, Value: cell.Value})
	}
	t, err := b.fn.engine.Create(spec)
	if err != nil {
		b.loadConst(b.fn.stash.Error())
		return
	}
	b.loadConst(b.fn.stash.Tensor(t))
}
