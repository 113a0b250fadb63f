package application

import (
	"context"
	errs "errors"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Withdraw spends the given coins, re-mints what exceeds the requested amount to their owner and
// credits the requested amount, in account units, from the escrow to the caller. A zero amount
// merges the coins into a single one.
func (s *service) Withdraw(
	ctx context.Context, req WithdrawRequest,
) (*WithdrawResult, errors.Error) {
	if err := s.checkCaller(req.Caller); err != nil {
		return nil, err
	}
	if err := validateCoinIds(req.CoinIds); err != nil {
		return nil, err
	}
	id := requestId(req.RequestId)

	var result *WithdrawResult
	if err := s.runInTx(ctx, func(ctx context.Context) errors.Error {
		coins := make([]domain.Coin, 0, len(req.CoinIds))
		var owner domain.Owner
		var total uint64
		for i, coinId := range req.CoinIds {
			coin, err := s.repoManager.Coins().GetCoin(ctx, coinId)
			if err != nil {
				return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "get"})
			}
			if coin == nil {
				return errors.COIN_NOT_FOUND.New("coin %s not found", coinId).
					WithMetadata(errors.CoinMetadata{CoinId: coinId.String()})
			}
			if i == 0 {
				owner = coin.Owner
			}
			if verr := validateCoin(*coin, s.baseAsset, owner); verr != nil {
				return verr
			}

			var verr errors.Error
			if total, verr = sumAmount(total, coin.Amount); verr != nil {
				return verr
			}
			coins = append(coins, *coin)
		}

		if total < req.Amount {
			return errors.INSUFFICIENT_COIN_TOTAL.New(
				"coins total %d is lower than requested amount %d", total, req.Amount,
			).WithMetadata(errors.InsufficientCoinTotalMetadata{
				Total:     total,
				Requested: req.Amount,
			})
		}

		spent := make([]domain.CoinId, 0, len(coins))
		for _, coin := range coins {
			if err := s.repoManager.Coins().RemoveCoin(ctx, coin.CoinId); err != nil {
				if errs.Is(err, domain.ErrCoinNotFound) {
					return errors.COIN_NOT_FOUND.Wrap(err).
						WithMetadata(errors.CoinMetadata{CoinId: coin.CoinId.String()})
				}
				return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "remove"})
			}
			spent = append(spent, coin.CoinId)
		}

		var change *domain.Coin
		if remainder := total - req.Amount; remainder > 0 {
			var verr errors.Error
			if change, verr = s.mintCoin(ctx, owner, remainder); verr != nil {
				return verr
			}
		}

		credited := domain.ToAccountUnits(req.Amount)
		if err := s.bridge.Transfer(ctx, s.escrow, req.Caller, credited); err != nil {
			return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "credit"})
		}

		result = &WithdrawResult{Spent: spent, Change: change, Credited: credited}
		return nil
	}); err != nil {
		return nil, err
	}

	fields := log.Fields{
		"id":       id,
		"spent":    len(result.Spent),
		"amount":   req.Amount,
		"credited": result.Credited.Dec(),
	}
	if result.Change != nil {
		fields["change_coin_id"] = result.Change.CoinId.String()
		fields["change_amount"] = result.Change.Amount
	}
	log.WithFields(fields).Debug("withdrawal processed")

	s.publishEvents(ctx, id, domain.NewWithdrawalProcessed(
		id, req.Caller, result.Spent, result.Change, req.Amount, result.Credited.Dec(),
	))
	return result, nil
}
