package domain

import (
	"context"
	"errors"

	"github.com/holiman/uint256"
)

var (
	ErrCoinAlreadyExists   = errors.New("coin already exists")
	ErrCoinNotFound        = errors.New("coin not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// CoinRepository is the ledger of unspent coins. Inserting an existing key fails with
// ErrCoinAlreadyExists, removing a missing one with ErrCoinNotFound.
type CoinRepository interface {
	GetCoin(ctx context.Context, id CoinId) (*Coin, error)
	GetCoinsByOwner(ctx context.Context, owner Owner) ([]Coin, error)
	InsertCoin(ctx context.Context, coin Coin) error
	RemoveCoin(ctx context.Context, id CoinId) error
	// GetSupply returns the sum of the amounts of all stored coins of the given asset.
	GetSupply(ctx context.Context, asset AssetId) (uint64, error)
	Close()
}

// AccountRepository holds the account-domain balances.
type AccountRepository interface {
	GetBalance(ctx context.Context, addr Address) (*uint256.Int, error)
	AddBalance(ctx context.Context, addr Address, amount *uint256.Int) error
	// SubBalance fails with ErrInsufficientBalance without touching the balance.
	SubBalance(ctx context.Context, addr Address, amount *uint256.Int) error
	Close()
}

// IndexAllocator hands out the identifiers of the coins minted by the bridge. Every call
// returns an identifier strictly greater than all the previous ones.
type IndexAllocator interface {
	NextIndex(ctx context.Context) (TxId, error)
	Close()
}
