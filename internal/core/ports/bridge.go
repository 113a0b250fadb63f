package ports

import (
	"context"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/holiman/uint256"
)

// BalanceBridge reads and moves account-domain balances. Transfers made with a context carrying
// a RepoManager transaction are part of that transaction.
type BalanceBridge interface {
	Balance(ctx context.Context, addr domain.Address) (*uint256.Int, error)
	Transfer(ctx context.Context, from, to domain.Address, amount *uint256.Int) error
}
