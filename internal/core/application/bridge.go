package application

import (
	"context"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/ports"
	"github.com/holiman/uint256"
)

// accountBridge moves balances within the account ledger kept by the repo manager, so that
// transfers commit or roll back together with the coin store.
type accountBridge struct {
	accounts domain.AccountRepository
}

func newAccountBridge(accounts domain.AccountRepository) ports.BalanceBridge {
	return accountBridge{accounts}
}

func (b accountBridge) Balance(ctx context.Context, addr domain.Address) (*uint256.Int, error) {
	return b.accounts.GetBalance(ctx, addr)
}

func (b accountBridge) Transfer(
	ctx context.Context, from, to domain.Address, amount *uint256.Int,
) error {
	if amount.IsZero() || from == to {
		return nil
	}
	if err := b.accounts.SubBalance(ctx, from, amount); err != nil {
		return err
	}
	return b.accounts.AddBalance(ctx, to, amount)
}
