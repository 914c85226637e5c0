package tensor

import (
	"fmt"
	"math"
	"slices"

	"rankeval.org/rankeval/value"
)

// Simple is a sparse map backed reference engine. It is stateless, so the
// zero value is ready to use and safe to share.
type Simple struct{}

var _ Engine = Simple{}

// T is the sparse tensor produced by Simple.
type T struct {
	dims  []string
	cells []Cell
}

var _ value.Tensor = &T{}

func (t *T) Dims() []string { return t.dims }

// Spec returns the canonical spec of this tensor, cells sorted by address.
func (t *T) Spec() Spec {
	cells := slices.Clone(t.cells)
	slices.SortFunc(cells, func(a, b Cell) int {
		ka, kb := addrKey(t.dims, a.Address), addrKey(t.dims, b.Address)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
	return Spec{Cells: cells}
}

func (e Simple) Create(spec Spec) (value.Tensor, error) {
	dims := spec.Dims()
	seen := map[string]struct{}{}
	cells := make([]Cell, 0, len(spec.Cells))
	for _, c := range spec.Cells {
		addr := Address{}
		for _, d := range dims {
			addr[d] = c.Address[d]
		}
		k := addrKey(dims, addr)
		if _, exists := seen[k]; exists {
			return nil, fmt.Errorf("tensor: duplicate cell address %q", k)
		}
		seen[k] = struct{}{}
		cells = append(cells, Cell{Address: addr, Value: c.Value})
	}
	return &T{dims: dims, cells: cells}, nil
}

func (e Simple) Reduce(tv value.Tensor, op ReduceOp, dims []string, st *value.Stash) value.Value {
	t, ok := tv.(*T)
	if !ok {
		return st.Error()
	}
	if !containsAll(t.dims, dims) {
		return st.Error()
	}
	if len(dims) == 0 || len(dims) == len(t.dims) {
		acc, any := 0.0, false
		for _, c := range t.cells {
			acc, any = combine(op, acc, c.Value, any)
		}
		return st.Double(acc)
	}
	keep := make([]string, 0, len(t.dims)-len(dims))
	for _, d := range t.dims {
		if !slices.Contains(dims, d) {
			keep = append(keep, d)
		}
	}
	groups := map[string]int{}
	out := &T{dims: keep}
	for _, c := range t.cells {
		addr := Address{}
		for _, d := range keep {
			addr[d] = c.Address[d]
		}
		k := addrKey(keep, addr)
		if i, exists := groups[k]; exists {
			v, _ := combine(op, out.cells[i].Value, c.Value, true)
			out.cells[i].Value = v
		} else {
			groups[k] = len(out.cells)
			v, _ := combine(op, 0, c.Value, false)
			out.cells = append(out.cells, Cell{Address: addr, Value: v})
		}
	}
	return st.Tensor(out)
}

func (e Simple) Multiply(av, bv value.Tensor, st *value.Stash) value.Value {
	a, okA := av.(*T)
	b, okB := bv.(*T)
	if !okA || !okB {
		return st.Error()
	}
	if !slices.Equal(a.dims, b.dims) {
		return st.Error()
	}
	byKey := make(map[string]float64, len(b.cells))
	for _, c := range b.cells {
		byKey[addrKey(b.dims, c.Address)] = c.Value
	}
	out := &T{dims: a.dims}
	for _, c := range a.cells {
		if w, ok := byKey[addrKey(a.dims, c.Address)]; ok {
			out.cells = append(out.cells, Cell{Address: c.Address, Value: c.Value * w})
		}
	}
	return st.Tensor(out)
}

func combine(op ReduceOp, acc, x float64, any bool) (float64, bool) {
	if !any {
		return x, true
	}
	switch op {
	case ReduceMin:
		return math.Min(acc, x), true
	case ReduceMax:
		return math.Max(acc, x), true
	default:
		return acc + x, true
	}
}
