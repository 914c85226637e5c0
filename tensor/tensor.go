// package tensor defines the tensor specification consumed by the expression
// compiler and the engine interface used to materialize and reduce tensors.
package tensor

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"rankeval.org/rankeval/value"
)

// Address binds dimension names to labels, identifying one cell.
type Address map[string]string

// Cell is one sparse entry of a tensor.
type Cell struct {
	Address Address
	Value   float64
}

// Spec describes a tensor to be materialized by an Engine.
type Spec struct {
	Cells []Cell
}

// Dims returns the sorted union of dimension names across all cells.
func (s Spec) Dims() []string {
	set := map[string]struct{}{}
	for _, c := range s.Cells {
		for d := range c.Address {
			set[d] = struct{}{}
		}
	}
	dims := maps.Keys(set)
	sort.Strings(dims)
	return dims
}

// ReduceOp selects the aggregation applied by Engine.Reduce.
type ReduceOp int

const (
	ReduceSum = ReduceOp(iota)
	ReduceMin
	ReduceMax
)

// Engine materializes tensors and performs reductions. Implementations must
// be safe for concurrent Create and Reduce calls.
type Engine interface {
	Create(spec Spec) (value.Tensor, error)
	// Reduce aggregates t along dims, or along every dimension when dims is
	// empty. Reducing over all dimensions yields a Double; anything invalid
	// yields the error marker.
	Reduce(t value.Tensor, op ReduceOp, dims []string, st *value.Stash) value.Value
	// Multiply combines two tensors cell by cell over their address
	// intersection. The operands must share the same dimensions; anything
	// else yields the error marker.
	Multiply(a, b value.Tensor, st *value.Stash) value.Value
}

// addrKey is the canonical encoding of an address over known dims.
func addrKey(dims []string, a Address) string {
	var sb strings.Builder
	for i, d := range dims {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s:%s", d, a[d])
	}
	return sb.String()
}

func containsAll(have []string, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}
