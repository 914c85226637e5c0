package rankeval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashString(t *testing.T) {
	t.Parallel()
	require.Equal(t, HashString("hello"), HashString("hello"))
	require.NotEqual(t, HashString("hello"), HashString("world"))
	require.NotEqual(t, HashString(""), HashString("a"))
}

func TestHashStringExact(t *testing.T) {
	t.Parallel()
	// every hash must round trip through a float64 without loss
	for i := 0; i < 1000; i++ {
		h := HashString(fmt.Sprintf("key-%d", i))
		require.Equal(t, h, float64(uint64(h)))
		require.Less(t, h, float64(uint64(1)<<52))
		require.GreaterOrEqual(t, h, 0.0)
	}
}
