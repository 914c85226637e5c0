package interp

import (
	"fmt"

	"rankeval.org/rankeval/nodes"
)

// I is one instruction of a compiled program. Immediates are inline and
// typed; constants are indexed into the owning Function's constant table.
type I interface {
	isI()
	String() string
}

type loadConstI struct{ idx uint32 }
type loadParamI struct{ idx uint32 }
type loadLetI struct{ off uint32 }
type unaryI struct{ op nodes.UnaryOp }
type binaryI struct{ op nodes.BinaryOp }
type skipI struct{ off int32 }
type skipIfFalseI struct{ off int32 }
type storeLetI struct{}
type evictLetI struct{}
type checkMemberI struct{ off int32 }
type notMemberI struct{}
type tensorSumI struct{}
type tensorSumDimI struct{ dim string }
type tensorMatchI struct{}

func (loadConstI) isI()     {}
func (loadParamI) isI()     {}
func (loadLetI) isI()       {}
func (unaryI) isI()         {}
func (binaryI) isI()        {}
func (skipI) isI()          {}
func (skipIfFalseI) isI()   {}
func (storeLetI) isI()      {}
func (evictLetI) isI()      {}
func (checkMemberI) isI()   {}
func (notMemberI) isI()     {}
func (tensorSumI) isI()     {}
func (tensorSumDimI) isI()  {}
func (tensorMatchI) isI()   {}

func (ix loadConstI) String() string    { return fmt.Sprintf("load_const %d", ix.idx) }
func (ix loadParamI) String() string    { return fmt.Sprintf("load_param %d", ix.idx) }
func (ix loadLetI) String() string      { return fmt.Sprintf("load_let %d", ix.off) }
func (ix unaryI) String() string        { return fmt.Sprintf("unary %v", ix.op) }
func (ix binaryI) String() string       { return fmt.Sprintf("binary %v", ix.op) }
func (ix skipI) String() string         { return fmt.Sprintf("skip %+d", ix.off) }
func (ix skipIfFalseI) String() string  { return fmt.Sprintf("skip_if_false %+d", ix.off) }
func (storeLetI) String() string        { return "store_let" }
func (evictLetI) String() string        { return "evict_let" }
func (ix checkMemberI) String() string  { return fmt.Sprintf("check_member %+d", ix.off) }
func (notMemberI) String() string       { return "not_member" }
func (tensorSumI) String() string       { return "tensor_sum" }
func (ix tensorSumDimI) String() string { return fmt.Sprintf("tensor_sum_dim %q", ix.dim) }
func (tensorMatchI) String() string     { return "tensor_match" }
