package domain_test

import (
	"math"
	"testing"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestToUtxoUnits(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fixtures := []struct {
			value    *uint256.Int
			expected uint64
		}{
			{uint256.NewInt(0), 0},
			{uint256.NewInt(1_000_000_000), 1},
			{uint256.NewInt(123_000_000_000), 123},
			{domain.ToAccountUnits(math.MaxUint64), math.MaxUint64},
		}
		for _, f := range fixtures {
			amount, err := domain.ToUtxoUnits(f.value)
			require.NoError(t, err)
			require.Equal(t, f.expected, amount)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		overflow := new(uint256.Int).Add(
			domain.ToAccountUnits(math.MaxUint64), uint256.NewInt(1_000_000_000),
		)
		fixtures := []struct {
			value       *uint256.Int
			expectedErr error
		}{
			{uint256.NewInt(1), domain.ErrInexactConversion},
			{uint256.NewInt(1_500_000_000), domain.ErrInexactConversion},
			{uint256.NewInt(999_999_999), domain.ErrInexactConversion},
			{overflow, domain.ErrAmountOverflow},
		}
		for _, f := range fixtures {
			amount, err := domain.ToUtxoUnits(f.value)
			require.ErrorIs(t, err, f.expectedErr)
			require.Zero(t, amount)
		}
	})
}

func TestToAccountUnits(t *testing.T) {
	require.Equal(t, uint256.NewInt(0), domain.ToAccountUnits(0))
	require.Equal(t, uint256.NewInt(42_000_000_000), domain.ToAccountUnits(42))

	expected, err := uint256.FromDecimal("18446744073709551615000000000")
	require.NoError(t, err)
	require.Equal(t, expected, domain.ToAccountUnits(math.MaxUint64))

	for _, amount := range []uint64{1, 7, 1_000, math.MaxUint32} {
		back, err := domain.ToUtxoUnits(domain.ToAccountUnits(amount))
		require.NoError(t, err)
		require.Equal(t, amount, back)
	}
}
