// package rankeval evaluates compiled ranking expressions.
package rankeval

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// hashMantissaMask keeps the hash inside the 52 bit mantissa of a float64 so
// every hash is exactly representable and round trips through the value model.
const hashMantissaMask = (1 << 52) - 1

// HashString maps a string to the float64 used to represent it at runtime.
// Strings never survive into a compiled program; equality and set membership
// compare these hashes. Collisions are accepted: blake3 folded to 52 bits.
func HashString(x string) float64 {
	sum := blake3.Sum256([]byte(x))
	u := binary.LittleEndian.Uint64(sum[:8])
	return float64(u & hashMantissaMask)
}
