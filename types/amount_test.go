package types

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/tj/assert"
)

func Test_FromChain(t *testing.T) {
	assert.EqualValues(t, 5, FromChain(5, 0))
	assert.EqualValues(t, 1.5, FromChain(1_500_000, 6))
	assert.EqualValues(t, 0.000001, FromChain(1, 6))
	assert.EqualValues(t, 0, FromChain(0, 12))
	assert.EqualValues(t, 45_000_000_000, FromChain(45_000_000_000_000_000, 6))
}

func Test_ToChain(t *testing.T) {
	assert.EqualValues(t, 10_000_000, ToChain(10, 6))
	assert.EqualValues(t, 5, ToChain(5, 0))
	assert.EqualValues(t, 1_230_000, ToChain(1.23, 6))
	// 0.1 + 0.2 is not exactly representable, but still lands on the right unit
	assert.EqualValues(t, 300_000, ToChain(0.1+0.2, 6))
	assert.EqualValues(t, 3, ToChain(2.5, 0))
	assert.EqualValues(t, 2, ToChain(2.4999, 0))

	// past the int64 range the result saturates instead of wrapping
	assert.EqualValues(t, int64(math.MaxInt64), ToChain(1e13, 6))
	assert.EqualValues(t, int64(math.MinInt64), ToChain(-1e13, 6))
	assert.True(t, fitsOnChain(9e12, 6))
	assert.False(t, fitsOnChain(1e13, 6))
}

func Test_ChainRoundTrip(t *testing.T) {
	for decimals := 0; decimals <= MaxDecimals; decimals++ {
		for i := 0; i < 200; i++ {
			// keep within float64's exact integer range
			amount := uint64(rand.Int63n(1 << 52))
			t.Run(fmt.Sprintf("%v/%v", amount, decimals), func(t *testing.T) {
				back := ToChain(FromChain(amount, decimals), decimals)
				diff := back - int64(amount)
				assert.True(t, diff >= -1 && diff <= 1, "round trip of %v drifted to %v", amount, back)
			})
		}
	}
}
