package application

import (
	"context"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	"github.com/holiman/uint256"
)

func (s *service) GetCoin(ctx context.Context, id domain.CoinId) (*domain.Coin, errors.Error) {
	coin, err := s.repoManager.Coins().GetCoin(ctx, id)
	if err != nil {
		return nil, errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "get"})
	}
	if coin == nil {
		return nil, errors.COIN_NOT_FOUND.New("coin %s not found", id).
			WithMetadata(errors.CoinMetadata{CoinId: id.String()})
	}
	return coin, nil
}

func (s *service) ListCoins(
	ctx context.Context, owner domain.Owner,
) ([]domain.Coin, errors.Error) {
	coins, err := s.repoManager.Coins().GetCoinsByOwner(ctx, owner)
	if err != nil {
		return nil, errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "list"})
	}
	return coins, nil
}

func (s *service) GetBalance(
	ctx context.Context, addr domain.Address,
) (*uint256.Int, errors.Error) {
	balance, err := s.bridge.Balance(ctx, addr)
	if err != nil {
		return nil, errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "balance"})
	}
	return balance, nil
}

func (s *service) GetSupply(ctx context.Context) (*SupplyInfo, errors.Error) {
	var info *SupplyInfo
	if err := s.runInTx(ctx, func(ctx context.Context) errors.Error {
		supply, err := s.repoManager.Coins().GetSupply(ctx, s.baseAsset)
		if err != nil {
			return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "supply"})
		}
		balance, err := s.bridge.Balance(ctx, s.escrow)
		if err != nil {
			return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "balance"})
		}
		info = &SupplyInfo{
			AssetId:       s.baseAsset,
			Supply:        supply,
			Escrow:        s.escrow,
			EscrowBalance: balance,
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *service) Fund(ctx context.Context, addr domain.Address, amount *uint256.Int) errors.Error {
	if amount == nil || amount.IsZero() {
		return errors.ZERO_DEPOSIT.New("fund amount must be greater than zero").
			WithMetadata(errors.DepositValueMetadata{Value: "0"})
	}
	if addr == s.escrow {
		return errors.INTERNAL_ERROR.New("cannot fund the escrow account").
			WithMetadata(map[string]any{"address": addr.String()})
	}
	if err := s.repoManager.Accounts().AddBalance(ctx, addr, amount); err != nil {
		return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "fund"})
	}
	return nil
}
