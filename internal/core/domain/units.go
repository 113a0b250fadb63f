package domain

import (
	"errors"

	"github.com/holiman/uint256"
)

// ConversionFactor is the number of account units per coin unit.
const ConversionFactor uint64 = 1_000_000_000

var (
	ErrInexactConversion = errors.New("value is not a multiple of the conversion factor")
	ErrAmountOverflow    = errors.New("amount does not fit in 64 bits")

	conversionFactor = uint256.NewInt(ConversionFactor)
)

// ToUtxoUnits converts an account-domain value into coin units. Values that would lose their
// least significant part, or that do not fit a coin amount, are rejected.
func ToUtxoUnits(value *uint256.Int) (uint64, error) {
	quo, rem := new(uint256.Int), new(uint256.Int)
	quo.DivMod(value, conversionFactor, rem)
	if !rem.IsZero() {
		return 0, ErrInexactConversion
	}
	if !quo.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return quo.Uint64(), nil
}

// ToAccountUnits is the inverse of ToUtxoUnits and never overflows.
func ToAccountUnits(amount uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(amount), conversionFactor)
}
