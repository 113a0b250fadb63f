package fvmabi_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/fvmabi"
	"github.com/stretchr/testify/require"
)

func TestSelectorOf(t *testing.T) {
	// Well known ERC-20 selector.
	require.Equal(t, uint32(0xa9059cbb), fvmabi.SelectorOf("transfer(address,uint256)"))

	methods := []fvmabi.Method{
		fvmabi.MethodDeposit, fvmabi.MethodWithdraw, fvmabi.MethodDryRun, fvmabi.MethodExec,
	}
	seen := make(map[uint32]fvmabi.Method)
	for _, method := range methods {
		selector := method.Selector()
		require.Equal(t, fvmabi.SelectorOf(method.String()), selector)
		_, ok := seen[selector]
		require.False(t, ok, "selector of %s is not unique", method)
		seen[selector] = method
	}
	require.Zero(t, fvmabi.MethodUnknown.Selector())
}

func TestSplitCallData(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fixtures := []struct {
			description string
			method      fvmabi.Method
			message     []byte
		}{
			{"deposit", fvmabi.MethodDeposit, []byte{0x01, 0x02}},
			{"withdraw", fvmabi.MethodWithdraw, []byte{0x03}},
			{"dry run", fvmabi.MethodDryRun, []byte{}},
			{"exec", fvmabi.MethodExec, []byte{0xff, 0xfe, 0xfd}},
		}
		for _, f := range fixtures {
			t.Run(f.description, func(t *testing.T) {
				data, err := fvmabi.EncodeCallData(f.method, f.message)
				require.NoError(t, err)
				require.Len(t, data, fvmabi.SelectorSize+len(f.message))

				method, selector, message, err := fvmabi.SplitCallData(data)
				require.NoError(t, err)
				require.Equal(t, f.method, method)
				require.Equal(t, f.method.Selector(), selector)
				require.Equal(t, f.message, message)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []struct {
			description string
			data        []byte
			expectedErr error
		}{
			{"empty", nil, fvmabi.ErrShortCallData},
			{"short", []byte{0x01, 0x02, 0x03}, fvmabi.ErrShortCallData},
			{"unknown selector", []byte{0xa9, 0x05, 0x9c, 0xbb, 0x00}, fvmabi.ErrUnknownSelector},
		}
		for _, f := range fixtures {
			t.Run(f.description, func(t *testing.T) {
				method, _, _, err := fvmabi.SplitCallData(f.data)
				require.ErrorIs(t, err, f.expectedErr)
				require.Equal(t, fvmabi.MethodUnknown, method)
			})
		}
	})

	_, err := fvmabi.EncodeCallData(fvmabi.MethodUnknown, nil)
	require.ErrorIs(t, err, fvmabi.ErrUnknownSelector)
}

func TestDeposit(t *testing.T) {
	recipient := common.HexToAddress("0x390a4CEdBb65be7511D9E1a35b115376F39DbDF3")

	message, err := fvmabi.EncodeDeposit(fvmabi.DepositMessage{Recipient: recipient})
	require.NoError(t, err)
	require.Len(t, message, 32)

	decoded, err := fvmabi.DecodeDeposit(message)
	require.NoError(t, err)
	require.Equal(t, recipient, decoded.Recipient)

	_, err = fvmabi.DecodeDeposit(message[:20])
	require.ErrorIs(t, err, fvmabi.ErrMalformedMessage)
}

func TestWithdraw(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fixtures := []struct {
			description string
			msg         fvmabi.WithdrawMessage
		}{
			{
				description: "single utxo",
				msg: fvmabi.WithdrawMessage{
					Utxos:  []fvmabi.UtxoRef{{TxId: [32]byte{31: 1}, OutputIndex: 0}},
					Amount: 1000,
				},
			},
			{
				description: "many utxos with max values",
				msg: fvmabi.WithdrawMessage{
					Utxos: []fvmabi.UtxoRef{
						{TxId: [32]byte{31: 1}, OutputIndex: 0},
						{TxId: [32]byte{0: 0xff, 31: 2}, OutputIndex: 65535},
					},
					Amount: ^uint64(0),
				},
			},
			{
				description: "zero amount",
				msg: fvmabi.WithdrawMessage{
					Utxos:  []fvmabi.UtxoRef{{TxId: [32]byte{31: 3}, OutputIndex: 1}},
					Amount: 0,
				},
			},
			{
				description: "no utxos",
				msg: fvmabi.WithdrawMessage{
					Utxos:  []fvmabi.UtxoRef{},
					Amount: 5,
				},
			},
		}
		for _, f := range fixtures {
			t.Run(f.description, func(t *testing.T) {
				message, err := fvmabi.EncodeWithdraw(f.msg)
				require.NoError(t, err)

				decoded, err := fvmabi.DecodeWithdraw(message)
				require.NoError(t, err)
				require.Equal(t, f.msg, *decoded)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		maxUint64 := new(big.Int).SetUint64(^uint64(0))
		fixtures := []struct {
			description string
			message     []byte
		}{
			{
				description: "output index exceeds 16 bits",
				message:     rawWithdraw(t, big.NewInt(65536), big.NewInt(1)),
			},
			{
				description: "amount exceeds 64 bits",
				message:     rawWithdraw(t, big.NewInt(0), new(big.Int).Add(maxUint64, big.NewInt(1))),
			},
			{
				description: "truncated",
				message:     rawWithdraw(t, big.NewInt(0), big.NewInt(1))[:40],
			},
			{
				description: "empty",
				message:     []byte{},
			},
		}
		for _, f := range fixtures {
			t.Run(f.description, func(t *testing.T) {
				_, err := fvmabi.DecodeWithdraw(f.message)
				require.ErrorIs(t, err, fvmabi.ErrMalformedMessage)
			})
		}
	})
}

// rawWithdraw encodes a withdraw message with a single utxo without range checks.
func rawWithdraw(t *testing.T, outputIndex, amount *big.Int) []byte {
	utxosTy, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "txId", Type: "bytes32"},
		{Name: "outputIndex", Type: "uint256"},
	})
	require.NoError(t, err)
	uint256Ty, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)

	args := abi.Arguments{{Name: "utxos", Type: utxosTy}, {Name: "withdrawAmount", Type: uint256Ty}}
	type utxo struct {
		TxId        [32]byte
		OutputIndex *big.Int
	}
	buf, err := args.Pack([]utxo{{TxId: [32]byte{31: 1}, OutputIndex: outputIndex}}, amount)
	require.NoError(t, err)
	return buf
}
