// package value contains the tagged value variants flowing through a compiled
// ranking expression: numeric scalars, hashed strings, tensor handles, and the
// error marker used for undefined operations.
package value

import "math"

// Value is a reference into a Stash. References stay valid until the owning
// Stash is cleared.
type Value interface {
	// AsDouble reports the scalar payload, false for non Double variants.
	AsDouble() (float64, bool)
	// AsTensor reports the tensor handle, false for non Tensor variants.
	AsTensor() (Tensor, bool)
	// Truthy is the boolean projection used by conditionals.
	// Only a Double can be true: strictly positive and finite.
	Truthy() bool
	// Equal is variant aware equality. Cross variant comparisons are false.
	Equal(other Value) bool
}

// Tensor is an opaque handle to a tensor owned by an engine.
type Tensor interface {
	Dims() []string
}

// Double is a numeric scalar.
type Double struct {
	V float64
}

func (d *Double) AsDouble() (float64, bool) { return d.V, true }
func (d *Double) AsTensor() (Tensor, bool)  { return nil, false }

func (d *Double) Truthy() bool {
	return d.V > 0 && !math.IsInf(d.V, 1)
}

func (d *Double) Equal(other Value) bool {
	o, ok := other.(*Double)
	return ok && d.V == o.V
}

// Str is a string collapsed to its numeric hash. The payload never survives
// into the interpreter.
type Str struct {
	Hash float64
}

func (s *Str) AsDouble() (float64, bool) { return 0, false }
func (s *Str) AsTensor() (Tensor, bool)  { return nil, false }
func (s *Str) Truthy() bool              { return false }

func (s *Str) Equal(other Value) bool {
	o, ok := other.(*Str)
	return ok && s.Hash == o.Hash
}

// TensorVal wraps a tensor handle.
type TensorVal struct {
	T Tensor
}

func (t *TensorVal) AsDouble() (float64, bool) { return 0, false }
func (t *TensorVal) AsTensor() (Tensor, bool)  { return t.T, true }
func (t *TensorVal) Truthy() bool              { return false }
func (t *TensorVal) Equal(other Value) bool    { return false }

// Error marks the result of an undefined operation. Operations on an Error
// produce an Error, so it propagates to the final result.
type Error struct{}

func (e *Error) AsDouble() (float64, bool) { return 0, false }
func (e *Error) AsTensor() (Tensor, bool)  { return nil, false }
func (e *Error) Truthy() bool              { return false }
func (e *Error) Equal(other Value) bool    { return false }

// IsError reports whether v is the error marker.
func IsError(v Value) bool {
	_, ok := v.(*Error)
	return ok
}
