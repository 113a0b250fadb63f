package application

import (
	errs "errors"
	"math/bits"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	"github.com/holiman/uint256"
)

// validateCoinIds rejects empty lists and lists referencing the same coin twice.
func validateCoinIds(ids []domain.CoinId) errors.Error {
	if len(ids) <= 0 {
		return errors.EMPTY_COIN_LIST.New("missing coins to spend")
	}

	seen := make(map[domain.CoinId]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return errors.DUPLICATE_COIN_ID.New("coin %s is listed more than once", id).
				WithMetadata(errors.CoinMetadata{CoinId: id.String()})
		}
		seen[id] = struct{}{}
	}
	return nil
}

// validateCoin checks that a coin being spent is of the given asset and belongs to the given
// owner.
func validateCoin(coin domain.Coin, asset domain.AssetId, owner domain.Owner) errors.Error {
	if coin.AssetId != asset {
		return errors.ASSET_MISMATCH.New("coin %s has unsupported asset", coin.CoinId).
			WithMetadata(errors.AssetMismatchMetadata{
				CoinId:        coin.CoinId.String(),
				AssetId:       coin.AssetId.String(),
				ExpectedAsset: asset.String(),
			})
	}
	if coin.Owner != owner {
		return errors.OWNER_MISMATCH.New("coin %s belongs to a different owner", coin.CoinId).
			WithMetadata(errors.OwnerMismatchMetadata{
				CoinId:        coin.CoinId.String(),
				Owner:         coin.Owner.String(),
				ExpectedOwner: owner.String(),
			})
	}
	return nil
}

// sumAmount adds amount to total failing if the result does not fit in 64 bits.
func sumAmount(total, amount uint64) (uint64, errors.Error) {
	sum, carry := bits.Add64(total, amount, 0)
	if carry != 0 {
		return 0, errors.AMOUNT_OVERFLOW.New("total amount of coins exceeds 64 bits").
			WithMetadata(errors.DepositValueMetadata{
				Value: new(uint256.Int).Add(uint256.NewInt(total), uint256.NewInt(amount)).Dec(),
			})
	}
	return sum, nil
}

// toUtxoUnits converts a deposit value mapping the conversion failures to typed errors.
func toUtxoUnits(value *uint256.Int) (uint64, errors.Error) {
	if value.IsZero() {
		return 0, errors.ZERO_DEPOSIT.New("deposit value must be greater than zero").
			WithMetadata(errors.DepositValueMetadata{Value: value.Dec()})
	}

	amount, err := domain.ToUtxoUnits(value)
	if err != nil {
		metadata := errors.DepositValueMetadata{Value: value.Dec()}
		if errs.Is(err, domain.ErrAmountOverflow) {
			return 0, errors.AMOUNT_OVERFLOW.Wrap(err).WithMetadata(metadata)
		}
		return 0, errors.INEXACT_CONVERSION.Wrap(err).WithMetadata(metadata)
	}
	return amount, nil
}
