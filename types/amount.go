package types

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	maxChainAmount = decimal.NewFromInt(math.MaxInt64)
	minChainAmount = decimal.NewFromInt(math.MinInt64)
)

// FromChain converts an on-chain integer amount into display units
func FromChain(onChain uint64, decimals int) float64 {
	amount := decimal.NewFromBigInt(new(big.Int).SetUint64(onChain), 0)
	return amount.Shift(-int32(decimals)).InexactFloat64()
}

func shiftToChain(display float64, decimals int) decimal.Decimal {
	return decimal.NewFromFloat(display).Shift(int32(decimals)).Round(0)
}

// ToChain converts a display amount into on-chain units, rounding half away from zero.
// The amount must be finite; results outside the int64 range saturate
func ToChain(display float64, decimals int) int64 {
	amount := shiftToChain(display, decimals)
	if amount.GreaterThan(maxChainAmount) {
		return math.MaxInt64
	}
	if amount.LessThan(minChainAmount) {
		return math.MinInt64
	}
	return amount.IntPart()
}

// fitsOnChain reports whether ToChain can represent display without saturating
func fitsOnChain(display float64, decimals int) bool {
	amount := shiftToChain(display, decimals)
	return !amount.GreaterThan(maxChainAmount) && !amount.LessThan(minChainAmount)
}
