// package interp compiles expression trees into linear instruction programs
// and executes them on a small stack machine.
package interp

import "rankeval.org/rankeval/value"

// State is the mutable execution state of one evaluation. It lives inside a
// Context and is reset at the start of every Eval.
type State struct {
	stack         []value.Value
	letValues     []value.Value
	programOffset int
	ifCnt         int
	params        []float64
	stash         *value.Stash
}

func (s *State) clear() {
	s.stack = s.stack[:0]
	s.letValues = s.letValues[:0]
	s.programOffset = 0
	s.ifCnt = 0
}

func (s *State) push(v value.Value) {
	s.stack = append(s.stack, v)
}

func (s *State) popTop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// peek returns the kth operand from the top, 0 being the top.
func (s *State) peek(k int) value.Value {
	return s.stack[len(s.stack)-1-k]
}

// replace pops n operands and pushes v.
func (s *State) replace(n int, v value.Value) {
	s.stack = s.stack[:len(s.stack)-n]
	s.push(v)
}
