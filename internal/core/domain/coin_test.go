package domain_test

import (
	"bytes"
	"testing"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestCoinId(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id := domain.CoinId{TxId: domain.TxIdFromIndex(7), OutputIndex: 3}
		str := id.String()
		require.Equal(
			t, "0000000000000000000000000000000000000000000000000000000000000007:3", str,
		)

		var parsed domain.CoinId
		require.NoError(t, parsed.FromString(str))
		require.Equal(t, id, parsed)
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []string{
			"",
			"00:1",
			"0000000000000000000000000000000000000000000000000000000000000007",
			"0000000000000000000000000000000000000000000000000000000000000007:65536",
			"zz00000000000000000000000000000000000000000000000000000000000007:1",
		}
		for _, f := range fixtures {
			var id domain.CoinId
			require.Error(t, id.FromString(f), f)
		}
	})
}

func TestTxIdFromIndex(t *testing.T) {
	prev := domain.TxIdFromIndex(0)
	for _, index := range []uint64{1, 255, 256, 1 << 32, 1<<64 - 1} {
		next := domain.TxIdFromIndex(index)
		require.Equal(t, 1, bytes.Compare(next[:], prev[:]))
		prev = next
	}
}

func TestOwnerFromAddress(t *testing.T) {
	addr, err := domain.AddressFromString("0x390a4CEdBb65be7511D9E1a35b115376F39DbDF3")
	require.NoError(t, err)

	owner := domain.OwnerFromAddress(addr)
	require.Equal(
		t, "000000000000000000000000390a4cedbb65be7511d9e1a35b115376f39dbdf3", owner.String(),
	)
}

func TestAssetIdFromString(t *testing.T) {
	asset, err := domain.AssetIdFromString(domain.FuelTestnetBaseAssetId)
	require.NoError(t, err)
	require.Equal(t, domain.FuelTestnetBaseAssetId, asset.String())

	_, err = domain.AssetIdFromString("f8f8")
	require.Error(t, err)
}
