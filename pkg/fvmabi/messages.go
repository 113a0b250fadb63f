package fvmabi

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var ErrMalformedMessage = errors.New("malformed message")

var (
	depositArgs  abi.Arguments
	withdrawArgs abi.Arguments
)

func init() {
	addressTy, _ := abi.NewType("address", "", nil)
	uint256Ty, _ := abi.NewType("uint256", "", nil)
	utxosTy, _ := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "txId", Type: "bytes32"},
		{Name: "outputIndex", Type: "uint256"},
	})

	depositArgs = abi.Arguments{{Name: "recipient", Type: addressTy}}
	withdrawArgs = abi.Arguments{
		{Name: "utxos", Type: utxosTy},
		{Name: "withdrawAmount", Type: uint256Ty},
	}
}

// DepositMessage is the message of fvm_deposit: the account-domain address of the recipient.
type DepositMessage struct {
	Recipient common.Address
}

type UtxoRef struct {
	TxId        [32]byte
	OutputIndex uint16
}

// WithdrawMessage is the message of fvm_withdraw: the coins to spend and the amount to credit
// back, in utxo units.
type WithdrawMessage struct {
	Utxos  []UtxoRef
	Amount uint64
}

// wire layout of the withdraw message, field names follow the ABI argument names.
type abiUtxo struct {
	TxId        [32]byte
	OutputIndex *big.Int
}

type abiWithdraw struct {
	Utxos          []abiUtxo
	WithdrawAmount *big.Int
}

func DecodeDeposit(message []byte) (*DepositMessage, error) {
	values, err := depositArgs.Unpack(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMessage, err)
	}
	recipient, ok := values[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected recipient type %T", ErrMalformedMessage, values[0])
	}
	return &DepositMessage{recipient}, nil
}

func EncodeDeposit(msg DepositMessage) ([]byte, error) {
	return depositArgs.Pack(msg.Recipient)
}

// DecodeWithdraw fails if any output index exceeds 16 bits or the amount exceeds 64 bits.
func DecodeWithdraw(message []byte) (*WithdrawMessage, error) {
	values, err := withdrawArgs.Unpack(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMessage, err)
	}
	var decoded abiWithdraw
	if err := withdrawArgs.Copy(&decoded, values); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMessage, err)
	}

	if !decoded.WithdrawAmount.IsUint64() {
		return nil, fmt.Errorf(
			"%w: withdraw amount %s exceeds 64 bits", ErrMalformedMessage, decoded.WithdrawAmount,
		)
	}

	utxos := make([]UtxoRef, 0, len(decoded.Utxos))
	for i, utxo := range decoded.Utxos {
		if !utxo.OutputIndex.IsUint64() || utxo.OutputIndex.Uint64() > math.MaxUint16 {
			return nil, fmt.Errorf(
				"%w: output index %s of utxo %d exceeds 16 bits",
				ErrMalformedMessage, utxo.OutputIndex, i,
			)
		}
		utxos = append(utxos, UtxoRef{
			TxId:        utxo.TxId,
			OutputIndex: uint16(utxo.OutputIndex.Uint64()),
		})
	}

	return &WithdrawMessage{
		Utxos:  utxos,
		Amount: decoded.WithdrawAmount.Uint64(),
	}, nil
}

func EncodeWithdraw(msg WithdrawMessage) ([]byte, error) {
	utxos := make([]abiUtxo, 0, len(msg.Utxos))
	for _, utxo := range msg.Utxos {
		utxos = append(utxos, abiUtxo{
			TxId:        utxo.TxId,
			OutputIndex: new(big.Int).SetUint64(uint64(utxo.OutputIndex)),
		})
	}
	return withdrawArgs.Pack(utxos, new(big.Int).SetUint64(msg.Amount))
}
