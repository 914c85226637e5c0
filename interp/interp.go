package interp

import (
	"rankeval.org/rankeval/nodes"
	"rankeval.org/rankeval/tensor"
	"rankeval.org/rankeval/value"
)

// Context holds the per-evaluation scratch state: the machine state and the
// eval stash. A Context is reused across Evals but must not be shared between
// goroutines.
type Context struct {
	state  State
	stash  value.Stash
	params []float64
}

func NewContext() *Context {
	c := &Context{}
	c.state.stash = &c.stash
	return c
}

// SetParams binds the parameter values for subsequent Evals. The slice is
// retained; callers may overwrite its elements between Evals.
func (c *Context) SetParams(ps []float64) {
	c.params = ps
}

// IfCount reports how many conditional branches the last Eval took.
func (c *Context) IfCount() int {
	return c.state.ifCnt
}

// Eval runs the program against c's parameters and returns the result. The
// returned Value is owned by c's stash or f's constant stash and is valid
// until the next Eval on c.
func (f *Function) Eval(c *Context) value.Value {
	if len(c.params) != f.numParams {
		panic("interp: parameter count mismatch")
	}
	s := &c.state
	s.clear()
	c.stash.Clear()
	s.params = c.params
	for s.programOffset < len(f.program) {
		ix := f.program[s.programOffset]
		s.programOffset++
		f.step(s, ix)
	}
	if len(s.stack) != 1 {
		s.stack = s.stack[:0]
		s.push(c.stash.Error())
	}
	return s.peek(0)
}

func (f *Function) step(s *State, ix I) {
	switch ix := ix.(type) {
	case loadConstI:
		s.push(f.consts[ix.idx])
	case loadParamI:
		s.push(s.stash.Double(s.params[ix.idx]))
	case loadLetI:
		s.push(s.letValues[ix.off])
	case unaryI:
		s.replace(1, unaryTable[ix.op](s.peek(0), s.stash))
	case binaryI:
		s.replace(2, binaryTable[ix.op](s.peek(1), s.peek(0), s.stash))
	case skipI:
		s.programOffset += int(ix.off)
	case skipIfFalseI:
		s.ifCnt++
		if !s.peek(0).Truthy() {
			s.programOffset += int(ix.off)
		}
		s.popTop()
	case storeLetI:
		s.letValues = append(s.letValues, s.peek(0))
		s.popTop()
	case evictLetI:
		s.letValues = s.letValues[:len(s.letValues)-1]
	case checkMemberI:
		if s.peek(1).Equal(s.peek(0)) {
			s.replace(2, s.stash.Double(1))
			s.programOffset += int(ix.off)
		} else {
			s.popTop()
		}
	case notMemberI:
		s.popTop()
		s.push(s.stash.Double(0))
	case tensorSumI:
		f.reduceTop(s, nil)
	case tensorSumDimI:
		f.reduceTop(s, []string{ix.dim})
	case tensorMatchI:
		lt, okL := s.peek(1).AsTensor()
		rt, okR := s.peek(0).AsTensor()
		if okL && okR {
			s.replace(2, f.engine.Multiply(lt, rt, s.stash))
		} else {
			s.replace(2, binaryTable[nodes.Mul](s.peek(1), s.peek(0), s.stash))
		}
	default:
		panic(ix)
	}
}

func (f *Function) reduceTop(s *State, dims []string) {
	t, ok := s.peek(0).AsTensor()
	if !ok {
		s.replace(1, s.stash.Error())
		return
	}
	s.replace(1, f.engine.Reduce(t, tensor.ReduceSum, dims, s.stash))
}
