package application

import (
	"context"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
)

// Deposit mints a coin for the recipient worth the value paid by the caller, and moves that value
// into the escrow. A caller whose balance does not cover the value gets the
// ExitCodeInsufficientBalance status and nothing changes.
func (s *service) Deposit(ctx context.Context, req DepositRequest) (*DepositResult, errors.Error) {
	if err := s.checkCaller(req.Caller); err != nil {
		return nil, err
	}
	value := req.Value
	if value == nil {
		value = uint256.NewInt(0)
	}
	id := requestId(req.RequestId)

	var result *DepositResult
	if err := s.runInTx(ctx, func(ctx context.Context) errors.Error {
		balance, err := s.bridge.Balance(ctx, req.Caller)
		if err != nil {
			return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "balance"})
		}
		if balance.Lt(value) {
			log.WithFields(log.Fields{
				"id":      id,
				"caller":  req.Caller.String(),
				"balance": balance.Dec(),
				"value":   value.Dec(),
			}).Debug("deposit rejected: insufficient balance")
			result = &DepositResult{Status: ExitCodeInsufficientBalance}
			return nil
		}

		amount, verr := toUtxoUnits(value)
		if verr != nil {
			return verr
		}

		coin, verr := s.mintCoin(ctx, req.Recipient, amount)
		if verr != nil {
			return verr
		}

		if err := s.bridge.Transfer(ctx, req.Caller, s.escrow, value); err != nil {
			return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "transfer"})
		}

		result = &DepositResult{Status: ExitCodeOk, Coin: coin}
		return nil
	}); err != nil {
		return nil, err
	}

	if result.Status != ExitCodeOk {
		return result, nil
	}

	log.WithFields(log.Fields{
		"id":      id,
		"coin_id": result.Coin.CoinId.String(),
		"owner":   result.Coin.Owner.String(),
		"amount":  result.Coin.Amount,
	}).Debug("deposit processed")

	s.publishEvents(ctx, id, domain.NewDepositProcessed(
		id, req.Caller, req.Recipient, value.Dec(), *result.Coin,
	))
	return result, nil
}
