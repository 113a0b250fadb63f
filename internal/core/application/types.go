package application

import (
	"context"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	"github.com/holiman/uint256"
)

type Service interface {
	Start() errors.Error
	Stop()
	Deposit(ctx context.Context, req DepositRequest) (*DepositResult, errors.Error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*WithdrawResult, errors.Error)
	// Execute forwards a raw utxo transaction to the execution engine and relays its exit code.
	Execute(ctx context.Context, rawTx []byte, commit bool) (int32, errors.Error)
	GetCoin(ctx context.Context, id domain.CoinId) (*domain.Coin, errors.Error)
	ListCoins(ctx context.Context, owner domain.Owner) ([]domain.Coin, errors.Error)
	GetBalance(ctx context.Context, addr domain.Address) (*uint256.Int, errors.Error)
	GetSupply(ctx context.Context) (*SupplyInfo, errors.Error)
	// Fund credits the given account out of thin air, it does not touch the escrow.
	Fund(ctx context.Context, addr domain.Address, amount *uint256.Int) errors.Error
	Audit(ctx context.Context) (*AuditReport, errors.Error)
}

// ExitCode is the status a call terminates with.
type ExitCode int32

const (
	ExitCodeOk ExitCode = iota
	ExitCodeInsufficientBalance
	ExitCodeAborted
	ExitCodeMalformedInput
	ExitCodeUnknownSelector
)

func (c ExitCode) String() string {
	switch c {
	case ExitCodeOk:
		return "ok"
	case ExitCodeInsufficientBalance:
		return "insufficient_balance"
	case ExitCodeAborted:
		return "aborted"
	case ExitCodeMalformedInput:
		return "malformed_input"
	case ExitCodeUnknownSelector:
		return "unknown_selector"
	default:
		return "unknown"
	}
}

type DepositRequest struct {
	// RequestId tags the events and log entries produced by the call.
	RequestId string
	Caller    domain.Address
	Recipient domain.Owner
	// Value in account units.
	Value *uint256.Int
}

type DepositResult struct {
	Status ExitCode
	// Coin is nil unless Status is ExitCodeOk.
	Coin *domain.Coin
}

type WithdrawRequest struct {
	RequestId string
	Caller    domain.Address
	CoinIds   []domain.CoinId
	// Amount in utxo units.
	Amount uint64
}

type WithdrawResult struct {
	Spent    []domain.CoinId
	Change   *domain.Coin
	Credited *uint256.Int
}

type SupplyInfo struct {
	AssetId domain.AssetId
	// Supply is the sum of the unspent coins in utxo units.
	Supply uint64
	Escrow domain.Address
	// EscrowBalance in account units.
	EscrowBalance *uint256.Int
}

type AuditReport struct {
	SupplyInfo
	Expected *uint256.Int
	Balanced bool
}
